package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var (
	_ driven.TokenStore  = (*TokenRepo)(nil)
	_ driven.TokenPurger = (*TokenRepo)(nil)
)

// TokenRepo is the SQLite implementation of driven.TokenStore. Values are
// encrypted with AES-256-GCM before write and decrypted after read.
type TokenRepo struct {
	db  *DB
	gcm cipher.AEAD // nil when no key is configured.
}

// NewTokenRepo creates a TokenRepo. key must be 32 bytes, or nil to disable
// storage; Get and Set then return driven.ErrEncryptionKeyNotSet.
func NewTokenRepo(db *DB, key []byte) (*TokenRepo, error) {
	repo := &TokenRepo{db: db}
	if key == nil {
		return repo, nil
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	repo.gcm = gcm
	return repo, nil
}

// Set stores or replaces the value for key.
func (r *TokenRepo) Set(ctx context.Context, key, value string) error {
	encrypted, err := r.encrypt(value)
	if err != nil {
		return err
	}

	const query = `INSERT OR REPLACE INTO session_tokens (key, value, updated_at) VALUES (?, ?, ?)`
	_, err = r.db.Writer.ExecContext(ctx, query, key, encrypted, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set token %q: %w", key, err)
	}
	return nil
}

// Get returns the value for key, or ("", nil) when none is stored.
func (r *TokenRepo) Get(ctx context.Context, key string) (string, error) {
	if r.gcm == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT value FROM session_tokens WHERE key = ?`
	var encrypted string
	err := r.db.Reader.QueryRowContext(ctx, query, key).Scan(&encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get token %q: %w", key, err)
	}

	plaintext, err := r.decrypt(encrypted)
	if err != nil {
		return "", fmt.Errorf("decrypt token %q: %w", key, err)
	}
	return plaintext, nil
}

// Delete removes key. It works without an encryption key so a logout can
// always clear what is stored.
func (r *TokenRepo) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM session_tokens WHERE key = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete token %q: %w", key, err)
	}
	return nil
}

// PurgeOlderThan removes tokens not written since cutoff and returns how
// many were removed.
func (r *TokenRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM session_tokens WHERE updated_at < ?`
	res, err := r.db.Writer.ExecContext(ctx, query, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("purge tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge tokens: %w", err)
	}
	return n, nil
}

// encrypt returns base64(nonce || ciphertext || tag).
func (r *TokenRepo) encrypt(plaintext string) (string, error) {
	if r.gcm == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	nonce := make([]byte, r.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	sealed := r.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (r *TokenRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	nonceSize := r.gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := r.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}
	return string(plaintext), nil
}
