package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// AppConfig is the TOML application configuration: the org chart, the
// workflow transition table, document type constraints and the approval
// matrix seed. All of it is optional; missing sections fall back to the
// built-in defaults.
type AppConfig struct {
	path string

	Departments   []Department     `toml:"department"`
	Transitions   []Transition     `toml:"transition"`
	DocumentTypes []DocumentType   `toml:"document_type"`
	Matrices      []ApprovalMatrix `toml:"approval_matrix"`
}

// Department is one organizational unit entry
type Department struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Validate checks if the Department is valid
func (d *Department) Validate() error {
	if err := types.DepartmentID(d.ID).Validate(); err != nil {
		return goerr.Wrap(err, "invalid department ID")
	}
	if d.Name == "" {
		return goerr.New("department name is required", goerr.V(DepartmentIDKey, d.ID))
	}
	return nil
}

// Transition is one row of the workflow transition table
type Transition struct {
	From string   `toml:"from"`
	To   []string `toml:"to"`
}

// Validate checks if the Transition references known statuses
func (t *Transition) Validate() error {
	if !types.CaseStatus(t.From).IsValid() {
		return goerr.New("unknown source status", goerr.V(StatusKey, t.From))
	}
	for _, to := range t.To {
		if !types.CaseStatus(to).IsValid() {
			return goerr.New("unknown target status", goerr.V(StatusKey, to))
		}
	}
	return nil
}

// DocumentType is one document type constraint entry
type DocumentType struct {
	ID                string   `toml:"id"`
	Name              string   `toml:"name"`
	Description       string   `toml:"description"`
	MaxSizeBytes      int64    `toml:"max_size_bytes"`
	AllowedExtensions []string `toml:"allowed_extensions"`
	Required          bool     `toml:"required"`
}

// Validate checks if the DocumentType is valid
func (d *DocumentType) Validate() error {
	if err := types.DocumentTypeID(d.ID).Validate(); err != nil {
		return goerr.Wrap(err, "invalid document type ID")
	}
	if d.Name == "" {
		return goerr.New("document type name is required", goerr.V(DocTypeIDKey, d.ID))
	}
	if d.MaxSizeBytes < 0 {
		return goerr.New("max size cannot be negative", goerr.V(DocTypeIDKey, d.ID))
	}
	return nil
}

// ApprovalMatrix is one approval matrix seed entry
type ApprovalMatrix struct {
	Name       string          `toml:"name"`
	EntityType string          `toml:"entity_type"`
	IsActive   bool            `toml:"is_active"`
	Levels     []ApprovalLevel `toml:"level"`
}

// ApprovalLevel is one level row of a matrix seed
type ApprovalLevel struct {
	Name              string  `toml:"name"`
	MinAmount         float64 `toml:"min_amount"`
	MaxAmount         float64 `toml:"max_amount"`
	RequiredApprovers int     `toml:"required_approvers"`
	AutoApprove       bool    `toml:"auto_approve"`
	Sequence          int     `toml:"sequence"`
	IsActive          bool    `toml:"is_active"`
}

// ToModel converts the seed entry to a domain matrix
func (m *ApprovalMatrix) ToModel() *model.ApprovalMatrix {
	levels := make([]*model.ApprovalLevel, len(m.Levels))
	for i, l := range m.Levels {
		levels[i] = &model.ApprovalLevel{
			Name:              l.Name,
			MinAmount:         l.MinAmount,
			MaxAmount:         l.MaxAmount,
			RequiredApprovers: l.RequiredApprovers,
			AutoApprove:       l.AutoApprove,
			Sequence:          l.Sequence,
			IsActive:          l.IsActive,
		}
	}
	return &model.ApprovalMatrix{
		Name:       m.Name,
		EntityType: types.EntityType(m.EntityType),
		Levels:     levels,
		IsActive:   m.IsActive,
	}
}

// Flags returns CLI flags for application configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to application config TOML file",
			Sources:     cli.EnvVars("EXPROPIA_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Validate checks the whole configuration for consistency
func (a *AppConfig) Validate() error {
	departmentIDs := make(map[string]bool)
	for _, d := range a.Departments {
		if err := d.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidConfig, err.Error())
		}
		if departmentIDs[d.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate department ID", goerr.V(DepartmentIDKey, d.ID))
		}
		departmentIDs[d.ID] = true
	}

	fromStatuses := make(map[string]bool)
	for _, t := range a.Transitions {
		if err := t.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidConfig, err.Error())
		}
		if fromStatuses[t.From] {
			return goerr.Wrap(ErrDuplicateID, "duplicate transition source", goerr.V(StatusKey, t.From))
		}
		fromStatuses[t.From] = true
	}

	docTypeIDs := make(map[string]bool)
	for _, d := range a.DocumentTypes {
		if err := d.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidConfig, err.Error())
		}
		if docTypeIDs[d.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate document type ID", goerr.V(DocTypeIDKey, d.ID))
		}
		docTypeIDs[d.ID] = true
	}

	matrixNames := make(map[string]bool)
	for _, m := range a.Matrices {
		if err := m.ToModel().Validate(); err != nil {
			return goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(MatrixNameKey, m.Name))
		}
		if matrixNames[m.Name] {
			return goerr.Wrap(ErrDuplicateID, "duplicate matrix name", goerr.V(MatrixNameKey, m.Name))
		}
		matrixNames[m.Name] = true
	}

	if _, err := a.Workflow(); err != nil {
		return err
	}

	return nil
}

// Configure loads and validates the configuration file when one is set. With
// no config flag the defaults apply and an empty AppConfig is returned.
func (a *AppConfig) Configure() error {
	if a.path == "" {
		return nil
	}

	loaded, err := LoadAppConfiguration(a.path)
	if err != nil {
		return err
	}

	a.Departments = loaded.Departments
	a.Transitions = loaded.Transitions
	a.DocumentTypes = loaded.DocumentTypes
	a.Matrices = loaded.Matrices
	return nil
}

// Workflow builds the workflow from the configured transition table, or the
// default table when none is configured.
func (a *AppConfig) Workflow() (*model.Workflow, error) {
	if len(a.Transitions) == 0 {
		return model.DefaultWorkflow(), nil
	}

	table := make(map[types.CaseStatus][]types.CaseStatus, len(a.Transitions))
	for _, t := range a.Transitions {
		tos := make([]types.CaseStatus, len(t.To))
		for i, to := range t.To {
			tos[i] = types.CaseStatus(to)
		}
		table[types.CaseStatus(t.From)] = tos
	}

	wf := model.NewWorkflow(table)
	if err := wf.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid workflow table")
	}
	return wf, nil
}

// DomainDocumentTypes converts the document type entries into the domain map
// keyed by type ID.
func (a *AppConfig) DomainDocumentTypes() map[string]*model.DocumentType {
	if len(a.DocumentTypes) == 0 {
		return nil
	}

	out := make(map[string]*model.DocumentType, len(a.DocumentTypes))
	for _, d := range a.DocumentTypes {
		out[d.ID] = &model.DocumentType{
			ID:                types.DocumentTypeID(d.ID),
			Name:              d.Name,
			Description:       d.Description,
			MaxSizeBytes:      d.MaxSizeBytes,
			AllowedExtensions: d.AllowedExtensions,
			Required:          d.Required,
		}
	}
	return out
}

// DomainDepartments converts the department entries to domain models.
func (a *AppConfig) DomainDepartments() []*model.Department {
	out := make([]*model.Department, len(a.Departments))
	for i, d := range a.Departments {
		out[i] = &model.Department{
			ID:          types.DepartmentID(d.ID),
			Name:        d.Name,
			Description: d.Description,
			IsActive:    true,
		}
	}
	return out
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}
