package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mopc-lab/expropia/pkg/usecase"
	"github.com/mopc-lab/expropia/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	authUC AuthUseCase
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.authUC == nil {
		s.authUC = uc.Auth
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authLoginHandler(s.authUC))
		r.Post("/logout", authLogoutHandler(s.authUC))
		r.With(authMiddleware(s.authUC)).Get("/me", authMeHandler)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Route("/cases", func(r chi.Router) {
			r.Get("/", listCasesHandler(uc))
			r.Post("/", createCaseHandler(uc))

			r.Route("/{caseID}", func(r chi.Router) {
				r.Get("/", getCaseHandler(uc))
				r.Put("/", updateCaseHandler(uc))
				r.Delete("/", deleteCaseHandler(uc))

				r.Post("/transition", transitionHandler(uc))
				r.Get("/transitions", availableTransitionsHandler(uc))
				r.Get("/history", caseHistoryHandler(uc))

				r.Get("/tasks", listCaseTasksHandler(uc))
				r.Get("/documents", listCaseDocumentsHandler(uc))
				r.Post("/documents", uploadDocumentHandler(uc))

				r.Post("/assessments", assessRiskHandler(uc))
				r.Get("/assessments", listAssessmentsHandler(uc))
				r.Get("/assessments/latest", latestAssessmentHandler(uc))

				r.Get("/approval-requirement", caseApprovalRequirementHandler(uc))
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", listTasksHandler(uc))
			r.Post("/", createTaskHandler(uc))

			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", getTaskHandler(uc))
				r.Put("/", updateTaskHandler(uc))
				r.Delete("/", deleteTaskHandler(uc))

				r.Post("/assign", assignTaskHandler(uc))
				r.Post("/start", startTaskHandler(uc))
				r.Post("/complete", completeTaskHandler(uc))
			})
		})

		r.Route("/documents/{documentID}", func(r chi.Router) {
			r.Get("/", getDocumentHandler(uc))
			r.Delete("/", deleteDocumentHandler(uc))
			r.Get("/download", downloadDocumentHandler(uc))
			r.Post("/verify", verifyDocumentHandler(uc))
			r.Post("/review", reviewDocumentHandler(uc))
		})

		r.Post("/risk/evaluate", evaluateRiskHandler(uc))

		r.Route("/approval-matrices", func(r chi.Router) {
			r.Get("/", listMatricesHandler(uc))
			r.Post("/", createMatrixHandler(uc))
			r.Get("/resolve", resolveRequirementHandler(uc))

			r.Route("/{matrixID}", func(r chi.Router) {
				r.Get("/", getMatrixHandler(uc))
				r.Put("/", updateMatrixHandler(uc))
				r.Delete("/", deleteMatrixHandler(uc))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", listNotificationsHandler(uc))
			r.Post("/read-all", markAllNotificationsReadHandler(uc))
			r.Post("/{notificationID}/read", markNotificationReadHandler(uc))
		})

		r.Get("/dashboard/analytics", analyticsHandler(uc))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
