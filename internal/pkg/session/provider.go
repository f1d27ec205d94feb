package session

import (
	"context"
	"strings"
)

// Provider supplies the upstream bearer token for the current request.
type Provider interface {
	Token(ctx context.Context) (string, bool)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (string, bool)

func (f ProviderFunc) Token(ctx context.Context) (string, bool) { return f(ctx) }

type ctxKey int

const (
	tokenKey ctxKey = iota
	sessionIDKey
)

// WithToken attaches a bearer token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// WithSessionID attaches a portal session id to ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext returns the portal session id placed by WithSessionID.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// FromContext reads the token the auth middleware stored with WithToken.
var FromContext Provider = ProviderFunc(func(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	token = strings.TrimSpace(token)
	return token, ok && token != ""
})

// Static always returns the same token. An empty token means none.
type Static string

func (s Static) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

// Chain tries each provider in order and returns the first token found.
type Chain []Provider

func (c Chain) Token(ctx context.Context) (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if token, ok := p.Token(ctx); ok {
			return token, true
		}
	}
	return "", false
}
