package http

import (
	"net/http"

	"github.com/mopc-lab/expropia/pkg/domain/model/auth"
	"github.com/mopc-lab/expropia/pkg/usecase"
	"github.com/mopc-lab/expropia/pkg/utils/errutil"
)

func listNotificationsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipient := auth.UserIDFromContext(r.Context())
		unreadOnly := r.URL.Query().Get("unread") == "true"

		notifications, err := uc.Notification.List(r.Context(), recipient, unreadOnly)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, notifications)
	}
}

func markNotificationReadHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "notificationID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		recipient := auth.UserIDFromContext(r.Context())
		if err := uc.Notification.MarkRead(r.Context(), id, recipient); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

func markAllNotificationsReadHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Affected int64 `json:"affected"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		recipient := auth.UserIDFromContext(r.Context())
		affected, err := uc.Notification.MarkAllRead(r.Context(), recipient)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, response{Affected: affected})
	}
}
