package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "hrkit-authclient/1"

	maxErrorBodyBytes = 64 * 1024
)

type requestIDContextKey struct{}

// WithRequestID attaches an explicit request ID to ctx. Without one, every
// outbound request is tagged with a fresh UUID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

// Config holds adapter construction parameters.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// HTTPClient overrides the default client. Its timeout wins over Timeout.
	HTTPClient *http.Client
}

// Client issues authenticated requests to the HR backend.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

// New validates cfg and returns a ready adapter.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api: BaseURL required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("api: BaseURL must be http or https")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		base:      base,
		http:      httpClient,
		userAgent: userAgent,
	}, nil
}

// Identity mirrors the backend's user record.
type Identity struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	HireDate     string `json:"hireDate"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// LoginResponse is the credential-exchange success payload.
type LoginResponse struct {
	Credential string   `json:"credential"`
	Identity   Identity `json:"identity"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type changePasswordRequest struct {
	OldSecret string `json:"old_secret"`
	NewSecret string `json:"new_secret"`
}

type changePasswordResponse struct {
	Credential string `json:"credential,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

// Login performs POST /auth/login.
func (c *Client) Login(ctx context.Context, identifier, secret string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		Identifier: identifier,
		Secret:     secret,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Credential == "" {
		return nil, errors.New("api: login response missing credential")
	}
	return &out, nil
}

// Me performs GET /auth/me under credential.
func (c *Client) Me(ctx context.Context, credential string) (*Identity, error) {
	var out Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", credential, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword performs POST /auth/change-password under credential. The
// returned string is a replacement credential when the backend reissued one.
func (c *Client) ChangePassword(ctx context.Context, credential, oldSecret, newSecret string) (string, error) {
	var out changePasswordResponse
	err := c.do(ctx, http.MethodPost, "/auth/change-password", credential, changePasswordRequest{
		OldSecret: oldSecret,
		NewSecret: newSecret,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Credential, nil
}

// Logout performs the best-effort POST /auth/logout under credential.
func (c *Client) Logout(ctx context.Context, credential string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", credential, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, credential string, body, out any) error {
	target := c.base.JoinPath(path)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}

	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(resp, requestID)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) decodeError(resp *http.Response, requestID string) error {
	apiErr := &Error{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		RequestID:  requestID,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err == nil && len(data) > 0 {
		var body errorBody
		if json.Unmarshal(data, &body) == nil && strings.TrimSpace(body.Message) != "" {
			apiErr.Message = strings.TrimSpace(body.Message)
		}
	}
	return apiErr
}
