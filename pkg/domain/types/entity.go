package types

import "github.com/m-mizutani/goerr/v2"

// EntityType scopes an approval matrix to the kind of case it governs
// (e.g. "EXPROPRIATION"). Matrices for different entity types never
// interact.
type EntityType string

const (
	EntityTypeExpropriation EntityType = "EXPROPRIATION"
)

// Validate checks if the EntityType is valid
func (e EntityType) Validate() error {
	if e == "" {
		return goerr.New("entity type cannot be empty")
	}
	return nil
}

// String returns the string representation of EntityType
func (e EntityType) String() string {
	return string(e)
}
