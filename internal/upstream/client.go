// Package upstream is the HTTP client for the estate listing API, the
// remote source every portal collection is fetched from.
package upstream

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
	"time"

	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/pkg/jwt"
	"estate-portal/internal/pkg/session"

	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	PageLimit int
	MaxPages  int
}

// Client calls the listing API on behalf of the session found in the
// request context.
type Client struct {
	base      *url.URL
	http      *http.Client
	tokens    session.Provider
	inspector *jwt.Inspector
	logger    *zap.Logger
	pageLimit int
	maxPages  int
	now       func() time.Time
}

func NewClient(cfg Config, tokens session.Provider, inspector *jwt.Inspector, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 100
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	if inspector == nil {
		inspector = jwt.NewInspector(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:      base,
		http:      &http.Client{Timeout: cfg.Timeout},
		tokens:    tokens,
		inspector: inspector,
		logger:    logger,
		pageLimit: cfg.PageLimit,
		maxPages:  cfg.MaxPages,
		now:       time.Now,
	}, nil
}

// Token resolves and checks the bearer token for ctx. Missing tokens and
// JWTs past their exp are rejected before any request is made.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", xerrors.Wrap(xerrors.ErrUnauthorized, "no session provider")
	}
	token, ok := c.tokens.Token(ctx)
	if !ok || token == "" {
		return "", xerrors.Wrap(xerrors.ErrUnauthorized, "missing session token")
	}
	claims, err := c.inspector.Inspect(token)
	if err == nil && claims.Expired(c.now()) {
		return "", xerrors.ErrSessionExpired
	}
	return token, nil
}

// Do sends one request and decodes the envelope's data into out. It
// returns the envelope meta when present.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) (*Meta, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := c.base.ResolveReference(&url.URL{Path: strings.TrimLeft(path, "/")})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", u.Path),
			zap.Error(err),
		)
		return nil, xerrors.Transport(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream request",
		zap.String("method", method),
		zap.String("path", u.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", c.now().Sub(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apiError(resp.StatusCode, b)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.Transport(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &xerrors.APIError{StatusCode: resp.StatusCode, Message: "malformed response from listing API", Kind: xerrors.ErrUpstream}
	}
	if !env.ok() {
		msg := env.message()
		if msg == "" {
			msg = xerrors.DefaultMessage
		}
		return nil, &xerrors.APIError{StatusCode: resp.StatusCode, Message: msg, Kind: xerrors.ErrUpstream}
	}

	if out != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &xerrors.APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected data shape: %v", err), Kind: xerrors.ErrUpstream}
		}
	}
	return env.Meta, nil
}
