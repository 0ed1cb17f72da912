package http

import (
	"net/http"

	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/usecase"
	"github.com/mopc-lab/expropia/pkg/utils/errutil"
)

type assessRequest struct {
	Likelihood int    `json:"likelihood"`
	Impact     int    `json:"impact"`
	Urgency    int    `json:"urgency"`
	Notes      string `json:"notes,omitempty"`
}

func assessRiskHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		var req assessRequest
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		created, err := uc.Risk.Assess(r.Context(), caseID, model.RiskFactors{
			Likelihood: req.Likelihood,
			Impact:     req.Impact,
			Urgency:    req.Urgency,
		}, req.Notes)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, created)
	}
}

func listAssessmentsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		assessments, err := uc.Risk.ListByCase(r.Context(), caseID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, assessments)
	}
}

func latestAssessmentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		latest, err := uc.Risk.Latest(r.Context(), caseID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, latest)
	}
}

func evaluateRiskHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Score float64 `json:"riskScore"`
		Level string  `json:"riskLevel"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req assessRequest
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		score, level, err := uc.Risk.Evaluate(r.Context(), model.RiskFactors{
			Likelihood: req.Likelihood,
			Impact:     req.Impact,
			Urgency:    req.Urgency,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, response{
			Score: model.RoundScore(score),
			Level: level,
		})
	}
}
