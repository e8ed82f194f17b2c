package blogapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

// Login exchanges a username and password for an access credential.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.LoginResult, error) {
	payload := map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	}

	var out loginJSON
	if err := c.sendJSON(ctx, http.MethodPost, "login/", "", payload, &out); err != nil {
		return model.LoginResult{}, fmt.Errorf("login %q: %w", creds.Username, err)
	}
	if out.Access == "" {
		return model.LoginResult{}, fmt.Errorf("login %q: response carried no access credential", creds.Username)
	}

	return model.LoginResult{
		Access:  out.Access,
		Refresh: out.Refresh,
		User: model.LoginUser{
			Username: out.User.Username,
			Email:    out.User.Email,
			Role:     model.Role(out.User.Role),
		},
	}, nil
}

// Register creates an account with a multipart request, since the payload
// may include a profile picture.
func (c *Client) Register(ctx context.Context, reg model.Registration) error {
	form := &multipartForm{}
	form.set("username", reg.Username)
	form.set("email", reg.Email)
	form.set("password", reg.Password)
	form.setNonEmpty("bio", reg.Bio)
	form.setNonEmpty("date_of_birth", reg.DateOfBirth)
	form.attach("profile_picture", reg.ProfilePicture)

	if err := c.sendMultipart(ctx, http.MethodPost, "register/", "", form, nil); err != nil {
		return fmt.Errorf("register %q: %w", reg.Username, err)
	}
	return nil
}

// FetchProfile returns the profile of the credential's owner.
func (c *Client) FetchProfile(ctx context.Context, token string) (model.Profile, error) {
	var out profileJSON
	if err := c.get(ctx, "profile/", token, nil, &out); err != nil {
		return model.Profile{}, fmt.Errorf("fetching profile: %w", err)
	}
	return out.toModel(), nil
}

// UpdateProfile sends only the non-nil fields of update.
func (c *Client) UpdateProfile(ctx context.Context, token string, update model.ProfileUpdate) (model.Profile, error) {
	form := &multipartForm{}
	form.setPtr("username", update.Username)
	form.setPtr("email", update.Email)
	form.setPtr("bio", update.Bio)
	if update.DateOfBirth != nil && *update.DateOfBirth != "" {
		form.set("date_of_birth", *update.DateOfBirth)
	}
	form.attach("profile_picture", update.ProfilePicture)

	var out profileJSON
	if err := c.sendMultipart(ctx, http.MethodPut, "profile/", token, form, &out); err != nil {
		return model.Profile{}, fmt.Errorf("updating profile: %w", err)
	}
	return out.toModel(), nil
}

// RequestPasswordReset asks the server for a reset token for email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (model.PasswordResetTicket, error) {
	var out struct {
		Detail string  `json:"detail"`
		Token  string  `json:"token"`
		UserID flexInt `json:"user_id"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "password-reset-request/", "", map[string]string{"email": email}, &out); err != nil {
		return model.PasswordResetTicket{}, fmt.Errorf("requesting password reset: %w", err)
	}
	return model.PasswordResetTicket{
		Detail: out.Detail,
		Token:  out.Token,
		UserID: int64(out.UserID),
	}, nil
}

// ConfirmPasswordReset sets a new password using a reset ticket.
func (c *Client) ConfirmPasswordReset(ctx context.Context, reset model.PasswordReset) (string, error) {
	payload := map[string]string{
		"new_password":     reset.NewPassword,
		"confirm_password": reset.ConfirmPassword,
	}
	path := endpoint("password-reset", strconv.FormatInt(reset.UserID, 10), reset.Token)

	var out struct {
		Detail string `json:"detail"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, path, "", payload, &out); err != nil {
		return "", fmt.Errorf("confirming password reset: %w", err)
	}
	return out.Detail, nil
}
