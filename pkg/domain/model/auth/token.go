package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TokenID identifies a session token. The secret is stored and compared
// alongside it; both travel as cookies.
type TokenID string

// TokenSecret is the bearer secret paired with a TokenID.
type TokenSecret string

// Validate checks if the TokenID is valid
func (id TokenID) Validate() error {
	if id == "" {
		return goerr.New("token ID cannot be empty")
	}
	return nil
}

// String returns the string representation of TokenID
func (id TokenID) String() string {
	return string(id)
}

const tokenTTL = 7 * 24 * time.Hour

// Token is an authenticated session: the subject (user ID) plus profile
// fields used for display and attribution.
type Token struct {
	ID        TokenID     `json:"id"`
	Secret    TokenSecret `json:"secret"`
	Sub       string      `json:"sub"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	ExpiresAt time.Time   `json:"expires_at"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewToken creates a session token for the given user with fresh random
// ID/secret and the default TTL.
func NewToken(sub, email, name string) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(uuid.NewString()),
		Secret:    TokenSecret(uuid.NewString()),
		Sub:       sub,
		Email:     email,
		Name:      name,
		ExpiresAt: now.Add(tokenTTL),
		CreatedAt: now,
	}
}

// NewAnonymousUser returns the token used when authentication is disabled.
func NewAnonymousUser() *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        "anonymous",
		Secret:    "",
		Sub:       "anonymous",
		Name:      "Anonymous",
		ExpiresAt: now.Add(tokenTTL),
		CreatedAt: now,
	}
}

// Validate checks token integrity.
func (t *Token) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return err
	}
	if t.Sub == "" {
		return goerr.New("token subject cannot be empty")
	}
	return nil
}

// IsExpired reports whether the token passed its expiry.
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type ctxTokenKey struct{}

// ContextWithToken returns a context carrying the authenticated token.
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext extracts the authenticated token, if any.
func TokenFromContext(ctx context.Context) *Token {
	token, _ := ctx.Value(ctxTokenKey{}).(*Token)
	return token
}

// UserIDFromContext returns the authenticated user ID, or "anonymous" when
// no token is present.
func UserIDFromContext(ctx context.Context) string {
	if token := TokenFromContext(ctx); token != nil {
		return token.Sub
	}
	return "anonymous"
}
