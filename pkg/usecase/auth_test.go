package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mopc-lab/expropia/pkg/domain/model/auth"
	"github.com/mopc-lab/expropia/pkg/repository/memory"
	"github.com/mopc-lab/expropia/pkg/usecase"
)

func TestAuthSession(t *testing.T) {
	ctx := context.Background()

	t.Run("create, validate, logout", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.NewAuthUseCase(repo)

		token, err := uc.CreateSession(ctx, "U123", "user@example.com", "Test User")
		gt.NoError(t, err).Required()
		gt.Value(t, token.Sub).Equal("U123")
		gt.Bool(t, uc.IsNoAuthn()).False()

		validated, err := uc.ValidateToken(ctx, token.ID, token.Secret)
		gt.NoError(t, err).Required()
		gt.Value(t, validated.Sub).Equal("U123")
		gt.Value(t, validated.Email).Equal("user@example.com")

		gt.NoError(t, uc.Logout(ctx, token.ID)).Required()

		_, err = uc.ValidateToken(ctx, token.ID, token.Secret)
		gt.Value(t, err).NotNil()
	})

	t.Run("secret mismatch is rejected", func(t *testing.T) {
		uc := usecase.NewAuthUseCase(memory.New())

		token, err := uc.CreateSession(ctx, "U123", "", "")
		gt.NoError(t, err).Required()

		_, err = uc.ValidateToken(ctx, token.ID, auth.TokenSecret("wrong"))
		gt.Value(t, err).NotNil()
	})

	t.Run("expired tokens are rejected and removed", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.NewAuthUseCase(repo)

		expired := auth.NewToken("U123", "", "")
		expired.ExpiresAt = time.Now().UTC().Add(-time.Hour)
		gt.NoError(t, repo.PutToken(ctx, expired)).Required()

		_, err := uc.ValidateToken(ctx, expired.ID, expired.Secret)
		gt.Value(t, err).NotNil()

		// The expired token is gone from the store.
		_, err = repo.GetToken(ctx, expired.ID)
		gt.Error(t, err).Is(memory.ErrNotFound)
	})
}

func TestNoAuthn(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewNoAuthnUseCase(memory.New(), "anonymous", "", "Anonymous")

	gt.Bool(t, uc.IsNoAuthn()).True()

	token, err := uc.ValidateToken(ctx, auth.TokenID("whatever"), auth.TokenSecret("ignored"))
	gt.NoError(t, err).Required()
	gt.Value(t, token.Sub).Equal("anonymous")
}
