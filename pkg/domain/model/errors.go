package model

import "github.com/m-mizutani/goerr/v2"

// ErrInvalidInput marks a caller contract violation: an out-of-range risk
// factor or a negative amount. Callers surface it as a validation message
// (HTTP 400), never as an internal failure.
var ErrInvalidInput = goerr.New("invalid input")

// Context keys for error values
const (
	FieldKey  = "field"
	ValueKey  = "value"
	AmountKey = "amount"
)
