package model

import (
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// RiskFactors is the immutable input snapshot for risk scoring. Each factor
// is an integer on a 1-5 scale, supplied by manual entry or an external
// auto-assessment service.
type RiskFactors struct {
	Likelihood int `json:"likelihood"`
	Impact     int `json:"impact"`
	Urgency    int `json:"urgency"`
}

const (
	minFactor = 1
	maxFactor = 5
)

// Validate checks that every factor is within [1,5]. Out-of-range values are
// reported as ErrInvalidInput naming the offending field; they are never
// clamped.
func (f RiskFactors) Validate() error {
	for _, fv := range []struct {
		name  string
		value int
	}{
		{"likelihood", f.Likelihood},
		{"impact", f.Impact},
		{"urgency", f.Urgency},
	} {
		if fv.value < minFactor || fv.value > maxFactor {
			return goerr.Wrap(ErrInvalidInput, fv.name+" must be between 1 and 5",
				goerr.V(FieldKey, fv.name),
				goerr.V(ValueKey, fv.value))
		}
	}
	return nil
}

// Score computes the continuous risk score without validating the factors.
// The maximum factor sum (15) maps to a score of 100. The result is
// unrounded; use RoundedScore for display.
func (f RiskFactors) Score() float64 {
	return float64(f.Likelihood+f.Impact+f.Urgency) * 100 / 15
}

// ComputeRisk validates the factors and returns the risk score together with
// its level bucket. Pure and deterministic: identical inputs always yield
// identical results.
//
// The formula (sum * 100/15) yields a minimum score of 20 for valid input,
// so VERY_LOW (score < 20) is unreachable here. This mirrors the historical
// formula and is covered by an explicit test rather than "fixed".
func ComputeRisk(factors RiskFactors) (float64, types.RiskLevel, error) {
	if err := factors.Validate(); err != nil {
		return 0, "", err
	}

	score := factors.Score()
	return score, RiskLevelForScore(score), nil
}

// RiskLevelForScore buckets an unrounded score into a RiskLevel. Thresholds
// are evaluated highest first; the first match wins.
func RiskLevelForScore(score float64) types.RiskLevel {
	switch {
	case score >= 80:
		return types.RiskLevelCritical
	case score >= 65:
		return types.RiskLevelVeryHigh
	case score >= 50:
		return types.RiskLevelHigh
	case score >= 35:
		return types.RiskLevelMedium
	case score >= 20:
		return types.RiskLevelLow
	default:
		return types.RiskLevelVeryLow
	}
}

// RoundScore rounds a score to one decimal place for display. Level
// bucketing always uses the unrounded value to avoid boundary flicker.
func RoundScore(score float64) float64 {
	return math.Round(score*10) / 10
}

// RiskAssessment is a persisted evaluation of a case at a point in time.
// Score and Level are derived from Factors and recomputed on write, never
// hand-edited.
type RiskAssessment struct {
	ID         int64           `json:"id"`
	CaseID     int64           `json:"caseId"`
	Factors    RiskFactors     `json:"factors"`
	Score      float64         `json:"riskScore"`
	Level      types.RiskLevel `json:"riskLevel"`
	AssessedBy string          `json:"assessedBy"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewRiskAssessment builds an assessment from factors, deriving score and
// level. Returns ErrInvalidInput when a factor is out of range.
func NewRiskAssessment(caseID int64, factors RiskFactors, assessedBy, notes string) (*RiskAssessment, error) {
	score, level, err := ComputeRisk(factors)
	if err != nil {
		return nil, err
	}

	return &RiskAssessment{
		CaseID:     caseID,
		Factors:    factors,
		Score:      score,
		Level:      level,
		AssessedBy: assessedBy,
		Notes:      notes,
	}, nil
}
