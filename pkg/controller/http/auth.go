package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model/auth"
	"github.com/mopc-lab/expropia/pkg/usecase"
	"github.com/mopc-lab/expropia/pkg/utils/errutil"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type loginRequest struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type userMeResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// authLoginHandler issues a session for an identity asserted by the fronting
// proxy. The service itself does not verify credentials; deployments without
// an authenticating proxy run in NoAuthn mode instead.
func authLoginHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// For NoAuthn mode there is no session to create
		if authUC.IsNoAuthn() {
			writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
			return
		}

		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		if req.Sub == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("sub is required"), http.StatusBadRequest)
			return
		}

		token, err := authUC.CreateSession(r.Context(), req.Sub, req.Email, req.Name)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		// Set authentication cookies
		http.SetCookie(w, &http.Cookie{
			Name:     "token_id",
			Value:    token.ID.String(),
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			Expires:  token.ExpiresAt,
		})
		http.SetCookie(w, &http.Cookie{
			Name:     "token_secret",
			Value:    string(token.Secret),
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			Expires:  token.ExpiresAt,
		})

		writeJSON(r.Context(), w, http.StatusOK, userMeResponse{
			Sub:   token.Sub,
			Email: token.Email,
			Name:  token.Name,
		})
	}
}

// authLogoutHandler handles user logout
func authLogoutHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Get token ID from cookie
		tokenIDCookie, err := r.Cookie("token_id")
		if err == nil && !authUC.IsNoAuthn() {
			tokenID := auth.TokenID(tokenIDCookie.Value)
			if err := authUC.Logout(r.Context(), tokenID); err != nil {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to logout"), http.StatusInternalServerError)
				return
			}
		}

		// Clear authentication cookies
		http.SetCookie(w, &http.Cookie{
			Name:     "token_id",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
		http.SetCookie(w, &http.Cookie{
			Name:     "token_secret",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})

		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

// authMeHandler returns the authenticated user from the request context.
func authMeHandler(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromContext(r.Context())
	if token == nil {
		errutil.HandleHTTP(r.Context(), w, goerr.New("no authenticated user"), http.StatusUnauthorized)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, userMeResponse{
		Sub:   token.Sub,
		Email: token.Email,
		Name:  token.Name,
	})
}
