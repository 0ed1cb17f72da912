package http

import (
	"net/http"

	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/mopc-lab/expropia/pkg/usecase"
	"github.com/mopc-lab/expropia/pkg/utils/errutil"
)

func listCasesHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts []interfaces.ListCaseOption
		if status := r.URL.Query().Get("status"); status != "" {
			opts = append(opts, interfaces.WithStatus(types.CaseStatus(status)))
		}
		if department := r.URL.Query().Get("department"); department != "" {
			opts = append(opts, interfaces.WithDepartment(types.DepartmentID(department)))
		}

		cases, err := uc.Case.ListCases(r.Context(), opts...)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, cases)
	}
}

func createCaseHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.Case
		if err := decodeJSON(r, &input); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		created, err := uc.Case.CreateCase(r.Context(), &input)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, created)
	}
}

func getCaseHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		c, err := uc.Case.GetCase(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, c)
	}
}

func updateCaseHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		var input model.Case
		if err := decodeJSON(r, &input); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		input.ID = id

		updated, err := uc.Case.UpdateCase(r.Context(), &input)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, updated)
	}
}

func deleteCaseHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		if err := uc.Case.DeleteCase(r.Context(), id); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

type transitionRequest struct {
	To              types.CaseStatus   `json:"to"`
	ToDepartment    types.DepartmentID `json:"toDepartment,omitempty"`
	Comments        string             `json:"comments,omitempty"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
}

func transitionHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		var req transitionRequest
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		updated, err := uc.Case.Transition(r.Context(), usecase.TransitionInput{
			CaseID:          id,
			To:              req.To,
			ToDepartment:    req.ToDepartment,
			Comments:        req.Comments,
			RejectionReason: req.RejectionReason,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, updated)
	}
}

func availableTransitionsHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Available []types.CaseStatus `json:"available"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		available, err := uc.Case.AvailableTransitions(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, response{Available: available})
	}
}

func caseHistoryHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		history, err := uc.Case.History(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, history)
	}
}
