package http

import (
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/mopc-lab/expropia/pkg/usecase"
	"github.com/mopc-lab/expropia/pkg/utils/errutil"
)

func listMatricesHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matrices, err := uc.Approval.ListMatrices(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, matrices)
	}
}

func createMatrixHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.ApprovalMatrix
		if err := decodeJSON(r, &input); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		created, err := uc.Approval.CreateMatrix(r.Context(), &input)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, created)
	}
}

func getMatrixHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "matrixID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		m, err := uc.Approval.GetMatrix(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, m)
	}
}

func updateMatrixHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "matrixID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		var input model.ApprovalMatrix
		if err := decodeJSON(r, &input); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		input.ID = id

		updated, err := uc.Approval.UpdateMatrix(r.Context(), &input)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, updated)
	}
}

func deleteMatrixHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "matrixID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		if err := uc.Approval.DeleteMatrix(r.Context(), id); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

func resolveRequirementHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityType := types.EntityType(r.URL.Query().Get("entityType"))
		if entityType == "" {
			entityType = types.EntityTypeExpropriation
		}

		rawAmount := r.URL.Query().Get("amount")
		amount, err := strconv.ParseFloat(rawAmount, 64)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid amount parameter", goerr.V("amount", rawAmount)),
				http.StatusBadRequest)
			return
		}

		req, err := uc.Approval.ResolveRequirement(r.Context(), entityType, amount)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, requirementResponse(req))
	}
}

func caseApprovalRequirementHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		req, err := uc.Approval.ResolveForCase(r.Context(), caseID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, requirementResponse(req))
	}
}

// requirementResponse normalizes a missing matrix to an empty requirement so
// clients always receive the same shape.
func requirementResponse(req *model.CaseApprovalRequirement) *model.CaseApprovalRequirement {
	if req == nil {
		return &model.CaseApprovalRequirement{}
	}
	return req
}
