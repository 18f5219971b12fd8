package bucket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jithuth/roneywo/pkg/config"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
)

const (
	pingTimeout               = 5 * time.Second
	errorBodyReadLimit  int64 = 1024
	defaultObjectPrefix       = "object"
)

var errBaseURLRequired = errors.New("storage base url is required")

// Client talks to an S3-compatible object store over its HTTP object API.
// Uploaded objects resolve at a stable public URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	bucket     string
	apiKey     string
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a storage client for the configured bucket.
func NewClient(cfg config.StorageConfig, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage bucket is required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    base,
		bucket:     cfg.Bucket,
		apiKey:     strings.TrimSpace(cfg.APIKey),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Upload stores the object under key and returns its public URL. The
// caller is responsible for enforcing any size ceiling before calling.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "storage client not configured")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "object key is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(key), body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upload request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute upload request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return "", pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"upload failed",
		)
	}

	return c.PublicURL(key), nil
}

// PublicURL returns the resolvable location of an object key.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/public/%s/%s", c.baseURL, defaultObjectPrefix, url.PathEscape(c.bucket), escapeKey(key))
}

// Ping verifies the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.httpClient == nil {
		return errors.New("storage client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/bucket/%s", c.baseURL, url.PathEscape(c.bucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("storage unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, defaultObjectPrefix, url.PathEscape(c.bucket), escapeKey(key))
}

// escapeKey escapes each path segment while keeping the separators.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
