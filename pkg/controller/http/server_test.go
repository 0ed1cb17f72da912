package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/mopc-lab/expropia/pkg/controller/http"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/repository/memory"
	"github.com/mopc-lab/expropia/pkg/usecase"
)

func newTestServer(t *testing.T) *controller.Server {
	t.Helper()
	return controller.New(usecase.New(memory.New()))
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out)).Required()
	return out
}

func caseBody() map[string]any {
	return map[string]any{
		"ownerName":       "Juan Morales",
		"ownerNationalId": "MORJ800101",
		"address":         "Av. Hidalgo 123",
		"municipality":    "Guadalajara",
		"province":        "Jalisco",
		"landArea":        450.5,
		"appraisalValue":  75000,
		"department":      "legal",
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestCaseEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/cases", caseBody())
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	created := decodeBody[model.Case](t, rec)
	gt.Value(t, created.Status.String()).Equal("INITIATED")
	gt.Value(t, created.CaseNumber).NotEqual("")

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/cases/%d", created.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodGet, "/api/cases/999999", nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	rec = doJSON(t, srv, http.MethodGet, "/api/cases?status=INITIATED", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	listed := decodeBody[[]*model.Case](t, rec)
	gt.Array(t, listed).Length(1)

	// A move the workflow does not declare is rejected.
	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/cases/%d/transition", created.ID),
		map[string]any{"to": "COMPLETED"})
	gt.Value(t, rec.Code).Equal(http.StatusConflict)

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/cases/%d/transition", created.ID),
		map[string]any{"to": "IN_REVIEW", "comments": "intake complete"})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	moved := decodeBody[model.Case](t, rec)
	gt.Value(t, moved.Status.String()).Equal("IN_REVIEW")

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/cases/%d/history", created.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	history := decodeBody[[]*model.Transition](t, rec)
	gt.Array(t, history).Length(1)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/cases/%d/transitions", created.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Bool(t, strings.Contains(rec.Body.String(), "APPROVED")).True()
}

func TestTaskEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/cases", caseBody())
	created := decodeBody[model.Case](t, rec)

	rec = doJSON(t, srv, http.MethodPost, "/api/tasks",
		map[string]any{"caseId": created.ID, "title": "Site survey"})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	survey := decodeBody[model.Task](t, rec)

	rec = doJSON(t, srv, http.MethodPost, "/api/tasks",
		map[string]any{"caseId": created.ID, "title": "Appraisal", "dependsOn": []int64{survey.ID}})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	appraisal := decodeBody[model.Task](t, rec)

	// Starting before the dependency completes is a conflict.
	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/tasks/%d/start", appraisal.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusConflict)

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", survey.ID),
		map[string]any{"result": "markers placed"})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/tasks/%d/start", appraisal.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	started := decodeBody[model.Task](t, rec)
	gt.Value(t, started.Status.String()).Equal("IN_PROGRESS")

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/tasks/%d/assign", appraisal.ID),
		map[string]any{"assigneeId": "U123"})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodGet, "/api/tasks?assignee=U123", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	assigned := decodeBody[[]*model.Task](t, rec)
	gt.Array(t, assigned).Length(1)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/cases/%d/tasks", created.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	all := decodeBody[[]*model.Task](t, rec)
	gt.Array(t, all).Length(2)
}

func TestRiskEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/risk/evaluate",
		map[string]any{"likelihood": 4, "impact": 5, "urgency": 3})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	evaluated := decodeBody[map[string]any](t, rec)
	gt.Value(t, evaluated["riskScore"]).Equal(80.0)
	gt.Value(t, evaluated["riskLevel"]).Equal("CRITICAL")

	rec = doJSON(t, srv, http.MethodPost, "/api/risk/evaluate",
		map[string]any{"likelihood": 0, "impact": 5, "urgency": 3})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	rec = doJSON(t, srv, http.MethodPost, "/api/cases", caseBody())
	created := decodeBody[model.Case](t, rec)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/cases/%d/assessments/latest", created.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/cases/%d/assessments", created.ID),
		map[string]any{"likelihood": 2, "impact": 2, "urgency": 2, "notes": "routine"})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	assessment := decodeBody[model.RiskAssessment](t, rec)
	gt.Value(t, assessment.Score).Equal(40.0)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/cases/%d/assessments/latest", created.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestApprovalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	matrix := map[string]any{
		"name":       "Expropriation approvals",
		"entityType": "EXPROPRIATION",
		"isActive":   true,
		"levels": []map[string]any{
			{"name": "Department Head", "minAmount": 0, "maxAmount": 100000,
				"requiredApprovers": 1, "sequence": 1, "isActive": true},
			{"name": "Executive Committee", "minAmount": 100000, "maxAmount": 0,
				"requiredApprovers": 3, "sequence": 2, "isActive": true},
		},
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/approval-matrices", matrix)
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, srv, http.MethodGet, "/api/approval-matrices/resolve?amount=50000", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	req := decodeBody[model.CaseApprovalRequirement](t, rec)
	gt.Value(t, req.RequiredLevel).NotNil()
	gt.Value(t, req.RequiredLevel.Name).Equal("Department Head")

	rec = doJSON(t, srv, http.MethodGet, "/api/approval-matrices/resolve?amount=-5", nil)
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	rec = doJSON(t, srv, http.MethodPost, "/api/cases", caseBody())
	created := decodeBody[model.Case](t, rec)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/cases/%d/approval-requirement", created.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	req = decodeBody[model.CaseApprovalRequirement](t, rec)
	gt.Value(t, req.RequiredApprovers).Equal(1)
}

func TestDocumentEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/cases", caseBody())
	created := decodeBody[model.Case](t, rec)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	gt.NoError(t, mw.WriteField("type", "deed")).Required()
	fw, err := mw.CreateFormFile("file", "deed.pdf")
	gt.NoError(t, err).Required()
	_, err = fw.Write([]byte("escritura publica no. 4521"))
	gt.NoError(t, err).Required()
	gt.NoError(t, mw.Close()).Required()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/cases/%d/documents", created.ID), &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	upload := httptest.NewRecorder()
	srv.ServeHTTP(upload, req)
	gt.Value(t, upload.Code).Equal(http.StatusCreated)
	doc := decodeBody[model.Document](t, upload)
	gt.Value(t, doc.Version).Equal(1)
	gt.Value(t, doc.SHA256).NotEqual("")

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/documents/%s/download", doc.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Body.String()).Equal("escritura publica no. 4521")

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/documents/%s/verify", doc.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/documents/%s/review", doc.ID),
		map[string]any{"approve": true})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	reviewed := decodeBody[model.Document](t, rec)
	gt.Value(t, reviewed.Status.String()).Equal("APPROVED")

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/documents/%s", doc.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/documents/%s", doc.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestDashboardEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/cases", caseBody())
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, srv, http.MethodGet, "/api/dashboard/analytics", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	analytics := decodeBody[usecase.Analytics](t, rec)
	gt.Value(t, analytics.TotalCases).Equal(1)
}

func TestAuthEndpoints(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithAuth(usecase.NewAuthUseCase(repo)))
	srv := controller.New(uc)

	// Protected routes require a session.
	rec := doJSON(t, srv, http.MethodGet, "/api/cases", nil)
	gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login",
		map[string]any{"sub": "U123", "email": "user@example.com", "name": "Test User"})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	cookies := rec.Result().Cookies()
	var tokenID, tokenSecret *http.Cookie
	for _, c := range cookies {
		switch c.Name {
		case "token_id":
			tokenID = c
		case "token_secret":
			tokenSecret = c
		}
	}
	gt.Value(t, tokenID).NotNil()
	gt.Value(t, tokenSecret).NotNil()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(tokenID)
	req.AddCookie(tokenSecret)
	me := httptest.NewRecorder()
	srv.ServeHTTP(me, req)
	gt.Value(t, me.Code).Equal(http.StatusOK)
	gt.Bool(t, strings.Contains(me.Body.String(), "U123")).True()

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(tokenID)
	req.AddCookie(tokenSecret)
	logout := httptest.NewRecorder()
	srv.ServeHTTP(logout, req)
	gt.Value(t, logout.Code).Equal(http.StatusOK)

	// The session is gone.
	req = httptest.NewRequest(http.MethodGet, "/api/cases", nil)
	req.AddCookie(tokenID)
	req.AddCookie(tokenSecret)
	after := httptest.NewRecorder()
	srv.ServeHTTP(after, req)
	gt.Value(t, after.Code).Equal(http.StatusUnauthorized)
}

func TestNotificationEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/notifications", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	notifications := decodeBody[[]*model.Notification](t, rec)
	gt.Array(t, notifications).Length(0)

	rec = doJSON(t, srv, http.MethodPost, "/api/notifications/read-all", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Bool(t, strings.Contains(rec.Body.String(), `"affected":0`)).True()

	// Repository-level not-found surfaces as 404.
	rec = doJSON(t, srv, http.MethodPost, "/api/notifications/12345/read", nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}
