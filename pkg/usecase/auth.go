package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model/auth"
)

// AuthUseCaseInterface defines session handling used by the HTTP layer.
type AuthUseCaseInterface interface {
	// CreateSession issues and stores a session token for a user
	CreateSession(ctx context.Context, sub, email, name string) (*auth.Token, error)

	// ValidateToken checks a token ID/secret pair against the store
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)

	// Logout invalidates a session token
	Logout(ctx context.Context, tokenID auth.TokenID) error

	// IsNoAuthn reports whether authentication is disabled
	IsNoAuthn() bool
}

// AuthUseCase validates sessions against tokens persisted in the repository.
type AuthUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

var _ AuthUseCaseInterface = &AuthUseCase{}

func NewAuthUseCase(repo interfaces.Repository) *AuthUseCase {
	return &AuthUseCase{
		repo: repo,
		now:  time.Now,
	}
}

func (uc *AuthUseCase) CreateSession(ctx context.Context, sub, email, name string) (*auth.Token, error) {
	token := auth.NewToken(sub, email, name)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store session token")
	}
	return token, nil
}

func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session token")
	}

	if token.Secret != tokenSecret {
		return nil, goerr.New("token secret mismatch")
	}

	if token.IsExpired(uc.now()) {
		// Expired tokens are removed eagerly so the store does not accumulate
		if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
			return nil, goerr.Wrap(err, "failed to delete expired token")
		}
		return nil, goerr.New("token expired")
	}

	return token, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
		return goerr.Wrap(err, "failed to delete session token")
	}
	return nil
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}
