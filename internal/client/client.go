// Package client talks to the FruitNut API on behalf of the client core. It
// implements the appstate auth provider and profile loader over HTTP and
// keeps the session tokens in a TokenStore.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/internal/appstate"
	"github.com/fruitnut/fruitnut-backend/internal/auth"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/logger"
	"github.com/fruitnut/fruitnut-backend/pkg/types"
)

const (
	defaultTimeout       = 10 * time.Second
	errorBodyReadLimit   = 64 << 10
	tokenHeader          = "X-FN-Token"
	idempotencyKeyHeader = "Idempotency-Key"
)

var (
	_ appstate.AuthProvider  = (*Client)(nil)
	_ appstate.ProfileLoader = (*Client)(nil)
	_ appstate.ProfileScoper = (*Client)(nil)
)

// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	store      TokenStore
	logg       *logger.Logger

	mu      sync.Mutex
	session *Session
	loaded  bool

	listenerMu   sync.Mutex
	listeners    map[uint64]appstate.AuthListener
	nextListener uint64
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger attaches a logger for refresh and sign-out events.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// New builds a client for baseURL that persists tokens in store.
func New(baseURL string, store TokenStore, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("api base url is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if store == nil {
		return nil, errors.New("token store is required")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    trimmed,
		store:      store,
		logg:       logger.Nop(),
		listeners:  map[uint64]appstate.AuthListener{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// NewFromConfig builds a client backed by the configured session file.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts = append([]Option{WithHTTPClient(&http.Client{Timeout: timeout})}, opts...)
	return New(cfg.BaseURL, NewSessionFile(cfg.SessionFile), opts...)
}

// GetSession restores the stored session and confirms it with the API. A
// session the API no longer accepts is discarded and reported as signed out.
func (c *Client) GetSession(ctx context.Context) (*appstate.Identity, error) {
	if _, err := c.currentSession(); err != nil {
		return nil, err
	}
	if !c.hasSession() {
		return nil, nil
	}

	var resp auth.SessionResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/auth/session", auth: true}, &resp)
	if IsCode(err, pkgerrors.CodeUnauthorized) {
		_ = c.dropSession()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.New("session response missing user")
	}
	return &appstate.Identity{ID: resp.User.ID, Email: resp.User.Email}, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*appstate.Identity, error) {
	var resp auth.SignInResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/sign-in",
		body:   auth.SignInRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return c.adopt(&resp)
}

// SignUp creates the account and keeps the session the API opens for it.
func (c *Client) SignUp(ctx context.Context, email, password, confirm string) (*appstate.Identity, error) {
	var resp auth.SignInResponse
	err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/api/v1/auth/sign-up",
		idempotent: true,
		body:       auth.SignUpRequest{Email: email, Password: password, ConfirmPassword: confirm},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return c.adopt(&resp)
}

// SignOut revokes the session server-side. The local session is dropped
// even when the API call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if _, err := c.currentSession(); err != nil {
		return err
	}
	if !c.hasSession() {
		return nil
	}
	err := c.send(ctx, request{method: http.MethodPost, path: "/api/v1/auth/sign-out", auth: true}, nil)
	if clearErr := c.dropSession(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// OnAuthStateChange registers fn for refreshes and expired sessions the
// client detects on its own.
func (c *Client) OnAuthStateChange(fn appstate.AuthListener) func() {
	c.listenerMu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.listenerMu.Lock()
			delete(c.listeners, id)
			c.listenerMu.Unlock()
		})
	}
}

func (c *Client) emit(ctx context.Context, event appstate.AuthEvent, identity *appstate.Identity) {
	c.listenerMu.Lock()
	fns := make([]appstate.AuthListener, 0, len(c.listeners))
	for i := uint64(0); i < c.nextListener; i++ {
		if fn, ok := c.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	c.listenerMu.Unlock()

	for _, fn := range fns {
		fn(ctx, event, identity)
	}
}

func (c *Client) adopt(resp *auth.SignInResponse) (*appstate.Identity, error) {
	if resp.User == nil {
		return nil, errors.New("auth response missing user")
	}
	session := &Session{
		AccessToken:  resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
	}
	if err := c.setSession(session); err != nil {
		return nil, err
	}
	return &appstate.Identity{ID: session.UserID, Email: session.Email}, nil
}

func (c *Client) currentSession() (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		session, err := c.store.Load()
		if err != nil {
			return nil, err
		}
		c.session = session
		c.loaded = true
	}
	if c.session == nil {
		return nil, nil
	}
	out := *c.session
	return &out, nil
}

func (c *Client) hasSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

func (c *Client) setSession(session *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.loaded = true
	return c.store.Save(session)
}

// applyAccessToken swaps the in-memory access token. Unless persist is set
// the stored session keeps the previous one.
func (c *Client) applyAccessToken(token string, persist bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || token == "" || c.session.AccessToken == token {
		return nil
	}
	c.session.AccessToken = token
	if !persist {
		return nil
	}
	return c.store.Save(c.session)
}

func (c *Client) dropSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.loaded = true
	return c.store.Clear()
}

type request struct {
	method     string
	path       string
	query      url.Values
	body       any
	auth       bool
	idempotent bool
	// ephemeral keeps a rotated access token out of the token store.
	ephemeral bool
}

// do sends req and, on a 401 for an authenticated call, rotates the session
// once and retries. A failed rotation signs the client out.
func (c *Client) do(ctx context.Context, req request, out any) error {
	err := c.send(ctx, req, out)
	var apiErr *APIError
	if !req.auth || !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}

	if refreshErr := c.refresh(ctx); refreshErr != nil {
		c.logg.Warn(ctx, "session refresh failed")
		return err
	}
	return c.send(ctx, req, out)
}

func (c *Client) refresh(ctx context.Context) error {
	session, err := c.currentSession()
	if err != nil {
		return err
	}
	if session == nil || session.RefreshToken == "" {
		return errors.New("no refresh token")
	}

	var tokens auth.Tokens
	err = c.send(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/refresh",
		auth:   true,
		body:   auth.RefreshRequest{RefreshToken: session.RefreshToken},
	}, &tokens)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			_ = c.dropSession()
			c.emit(ctx, appstate.EventSignedOut, nil)
		}
		return err
	}

	session.AccessToken = tokens.AccessToken
	session.RefreshToken = tokens.RefreshToken
	if err := c.setSession(session); err != nil {
		return err
	}
	c.logg.Debug(ctx, "session refreshed")
	c.emit(ctx, appstate.EventTokenRefreshed, &appstate.Identity{ID: session.UserID, Email: session.Email})
	return nil
}

func (c *Client) send(ctx context.Context, req request, out any) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", req.path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.idempotent {
		httpReq.Header.Set(idempotencyKeyHeader, uuid.NewString())
	}
	if req.auth {
		session, err := c.currentSession()
		if err != nil {
			return err
		}
		if session == nil {
			return appstate.ErrNoIdentity
		}
		httpReq.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if req.auth {
		if err := c.applyAccessToken(resp.Header.Get(tokenHeader), !req.ephemeral); err != nil {
			return err
		}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", req.path, err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", req.path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Code == "" {
		return &APIError{
			Status:  resp.StatusCode,
			Code:    codeForStatus(resp.StatusCode),
			Message: strings.TrimSpace(string(raw)),
		}
	}
	return &APIError{
		Status:  resp.StatusCode,
		Code:    pkgerrors.Code(envelope.Error.Code),
		Message: envelope.Error.Message,
		Details: envelope.Error.Details,
	}
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusServiceUnavailable:
		return pkgerrors.CodeDependency
	default:
		return pkgerrors.CodeInternal
	}
}
