package http

import (
	"net/http"

	"github.com/mopc-lab/expropia/pkg/usecase"
)

func analyticsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		analytics, err := uc.Dashboard.Analytics(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, analytics)
	}
}
