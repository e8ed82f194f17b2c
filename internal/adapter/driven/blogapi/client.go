// Package blogapi implements the BlogAPI port over the platform's REST API.
package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BlogAPI = (*Client)(nil)

// maxErrorBody bounds how much of a failed response is read for its detail.
const maxErrorBody = 64 << 10

// Client implements driven.BlogAPI. All paths are resolved against a single
// base URL that ends in "/api/".
type Client struct {
	http    *http.Client
	baseURL *url.URL
	logger  *slog.Logger
}

// NewClient creates a Client for baseURL with an otelhttp-instrumented
// transport and the given request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return NewClientWithHTTPClient(httpClient, baseURL, logger)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parsing base URL %q: scheme and host are required", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{http: httpClient, baseURL: u, logger: logger}, nil
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// endpoint builds a relative path from escaped segments with the trailing
// slash the API requires.
func endpoint(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return strings.Join(escaped, "/") + "/"
}

// request is an outgoing API call.
type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

func (c *Client) resolve(path string, query url.Values) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint %q: %w", path, err)
	}
	u := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u, nil
}

// do executes req and decodes a JSON response body into out when out is non-nil.
// Non-2xx responses are returned as *driven.APIError.
func (c *Client) do(ctx context.Context, req request, out any) error {
	u, err := c.resolve(req.path, req.query)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), req.body)
	if err != nil {
		return fmt.Errorf("creating %s %s request: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("blog api call",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"authenticated", req.token != "",
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return parseError(resp.StatusCode, body)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, token string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query, token: token}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path, token string, payload, out any) error {
	req := request{method: method, path: path, token: token}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling %s %s body: %w", method, path, err)
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return c.do(ctx, req, out)
}

func (c *Client) sendMultipart(ctx context.Context, method, path, token string, form *multipartForm, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("encoding %s %s form: %w", method, path, err)
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		token:       token,
		body:        body,
		contentType: contentType,
	}, out)
}

// multipartForm accumulates ordered form fields and file parts.
type multipartForm struct {
	fields [][2]string
	files  []filePart
}

type filePart struct {
	field  string
	upload model.Upload
}

func (f *multipartForm) set(name, value string) {
	f.fields = append(f.fields, [2]string{name, value})
}

// setNonEmpty adds the field only when value is non-empty; the API rejects
// blank dates and treats missing fields as unchanged.
func (f *multipartForm) setNonEmpty(name, value string) {
	if value != "" {
		f.set(name, value)
	}
}

func (f *multipartForm) setPtr(name string, value *string) {
	if value != nil {
		f.set(name, *value)
	}
}

func (f *multipartForm) attach(field string, upload *model.Upload) {
	if upload != nil && len(upload.Data) > 0 {
		f.files = append(f.files, filePart{field: field, upload: *upload})
	}
}

func (f *multipartForm) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", kv[0], err)
		}
	}

	for _, fp := range f.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fp.field, fp.upload.Filename))
		contentType := fp.upload.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create part %q: %w", fp.field, err)
		}
		if _, err := part.Write(fp.upload.Data); err != nil {
			return nil, "", fmt.Errorf("write part %q: %w", fp.field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
