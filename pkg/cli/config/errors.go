package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound = goerr.New("configuration file not found")
	ErrInvalidConfig  = goerr.New("invalid configuration")
	ErrDuplicateID    = goerr.New("duplicate ID")
)

// Context keys for error values
const (
	ConfigPathKey   = "config_path"
	DepartmentIDKey = "department_id"
	DocTypeIDKey    = "document_type_id"
	MatrixNameKey   = "matrix_name"
	StatusKey       = "status"
)
