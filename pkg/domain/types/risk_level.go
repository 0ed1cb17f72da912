package types

import "fmt"

// RiskLevel represents the discrete bucket of a computed risk score
type RiskLevel string

const (
	RiskLevelVeryLow  RiskLevel = "VERY_LOW"
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelVeryHigh RiskLevel = "VERY_HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// AllRiskLevels returns all valid risk levels from lowest to highest
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskLevelVeryLow,
		RiskLevelLow,
		RiskLevelMedium,
		RiskLevelHigh,
		RiskLevelVeryHigh,
		RiskLevelCritical,
	}
}

// IsValid checks if the risk level is valid
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelVeryLow,
		RiskLevelLow,
		RiskLevelMedium,
		RiskLevelHigh,
		RiskLevelVeryHigh,
		RiskLevelCritical:
		return true
	default:
		return false
	}
}

// Weight returns a numeric weight for sorting (higher = more severe)
func (l RiskLevel) Weight() int {
	switch l {
	case RiskLevelCritical:
		return 6
	case RiskLevelVeryHigh:
		return 5
	case RiskLevelHigh:
		return 4
	case RiskLevelMedium:
		return 3
	case RiskLevelLow:
		return 2
	case RiskLevelVeryLow:
		return 1
	default:
		return 0
	}
}

// String returns the string representation of the risk level
func (l RiskLevel) String() string {
	return string(l)
}

// ParseRiskLevel parses a string into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(s)
	if !level.IsValid() {
		return "", fmt.Errorf("invalid risk level: %s", s)
	}
	return level, nil
}
