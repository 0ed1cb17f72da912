package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

// validateOut is swapped in tests to capture the report.
var validateOut io.Writer = os.Stdout

func cmdValidate() *cli.Command {
	var appCfg config.AppConfig

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the application configuration file",
		Flags:   appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			pass := color.New(color.FgGreen, color.Bold)
			fail := color.New(color.FgRed, color.Bold)
			section := color.New(color.FgCyan)

			if err := appCfg.Configure(); err != nil {
				fail.Fprintln(validateOut, "✗ Configuration is invalid")
				fmt.Fprintf(validateOut, "  %s\n", err.Error())
				return goerr.Wrap(err, "configuration validation failed")
			}

			pass.Fprintln(validateOut, "✓ Configuration is valid")

			section.Fprintln(validateOut, "Departments:")
			for _, d := range appCfg.Departments {
				fmt.Fprintf(validateOut, "  %-16s %s\n", d.ID, d.Name)
			}

			section.Fprintln(validateOut, "Workflow transitions:")
			for _, t := range appCfg.Transitions {
				fmt.Fprintf(validateOut, "  %s -> %v\n", t.From, t.To)
			}
			if len(appCfg.Transitions) == 0 {
				fmt.Fprintln(validateOut, "  (using default transition table)")
			}

			section.Fprintln(validateOut, "Document types:")
			for _, d := range appCfg.DocumentTypes {
				fmt.Fprintf(validateOut, "  %-16s max %d bytes, extensions %v\n",
					d.ID, d.MaxSizeBytes, d.AllowedExtensions)
			}

			section.Fprintln(validateOut, "Approval matrices:")
			for _, m := range appCfg.Matrices {
				fmt.Fprintf(validateOut, "  %s (%s, %d levels)\n",
					m.Name, m.EntityType, len(m.Levels))
			}

			return nil
		},
	}
}
