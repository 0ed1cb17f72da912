package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mopc-lab/expropia/pkg/cli"
)

func TestRun_ValidateCommand_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	content := `
[[department]]
id = "legal"
name = "Legal Affairs"

[[transition]]
from = "INITIATED"
to = ["IN_REVIEW"]

[[transition]]
from = "IN_REVIEW"
to = ["APPROVED", "REJECTED"]

[[document_type]]
id = "deed"
name = "Property deed"
max_size_bytes = 10485760
allowed_extensions = ["pdf"]

[[approval_matrix]]
name = "Expropriation approvals"
entity_type = "EXPROPRIATION"
is_active = true

[[approval_matrix.level]]
name = "Department Head"
min_amount = 0.0
max_amount = 100000.0
required_approvers = 1
sequence = 1
is_active = true
`
	err := os.WriteFile(configPath, []byte(content), 0o600)
	gt.NoError(t, err).Required()

	err = cli.Run(context.Background(), []string{"expropia", "validate", "--config", configPath}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	// Invalid: transition to a status that does not exist
	content := `
[[transition]]
from = "INITIATED"
to = ["ARCHIVED"]
`
	err := os.WriteFile(configPath, []byte(content), 0o600)
	gt.NoError(t, err).Required()

	err = cli.Run(context.Background(), []string{"expropia", "validate", "--config", configPath}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_MissingConfig(t *testing.T) {
	err := cli.Run(context.Background(),
		[]string{"expropia", "validate", "--config", filepath.Join(t.TempDir(), "missing.toml")}, "test")
	gt.Value(t, err).NotNil()
}
