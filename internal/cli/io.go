package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/racktower/pkg/io"
	"github.com/matzehuels/racktower/pkg/rack/layout"
	"github.com/matzehuels/racktower/pkg/state"
)

const (
	formatJSON = "json"
	formatTOML = "toml"
)

// formatOf picks the interchange format from an explicit flag or the file
// extension. Anything that is not .toml is JSON.
func formatOf(flag, path string) (string, error) {
	switch f := strings.ToLower(flag); f {
	case formatJSON, formatTOML:
		return f, nil
	case "":
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			return formatTOML, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'json' or 'toml')", flag)
	}
}

func (c *CLI) exportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the layout as JSON or as a TOML plan",
		Long: `Write the layout as JSON or as a TOML plan.

JSON is the complete saved layout. A TOML plan lists rack settings, custom
modules and one entry per placed module, and is meant for editing by hand.
Without a file, or with "-", the layout is written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			f, err := formatOf(format, path)
			if err != nil {
				return err
			}
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			s := p.Snapshot()
			if path == "-" {
				if f == formatTOML {
					return io.WriteTOML(s, c.out)
				}
				return io.WriteJSON(s, c.out)
			}

			if f == formatTOML {
				err = io.ExportTOML(s, path)
			} else {
				err = io.ExportJSON(s, path)
			}
			if err != nil {
				return err
			}
			c.printSuccess("Exported %d modules", len(p.Engine().Instances()))
			c.printFile(path, false)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or toml (default from the file extension)")
	return cmd
}

func (c *CLI) importCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the layout with a JSON export or TOML plan",
		Long: `Replace the layout with a JSON export or TOML plan.

Every placement in a plan is checked the same way "place" checks it, so a
plan with overlapping or misaligned modules is rejected as a whole. The
current layout is only replaced after confirmation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := formatOf(format, path)
			if err != nil {
				return err
			}
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			var s *state.State
			if f == formatTOML {
				s, err = io.ImportTOML(path, p.Engine().Resolution())
			} else {
				s, err = io.ImportJSON(path)
			}
			if err != nil {
				return err
			}

			e := p.Engine()
			if insts := e.Instances(); len(insts) > 0 {
				prompt := layout.Prompt{
					Action:    "import",
					Message:   fmt.Sprintf("Replace the current layout with %s?", filepath.Base(path)),
					Instances: insts,
				}
				if !c.confirmFunc(e)(prompt) {
					return fmt.Errorf("import not confirmed; layout unchanged")
				}
			}

			if err := p.Replace(cmd.Context(), s); err != nil {
				return err
			}
			cfg := p.Engine().Config()
			c.printSuccess("Imported %dU %s rack with %d modules", cfg.HeightUnits, cfg.Width, len(p.Engine().Instances()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or toml (default from the file extension)")
	return cmd
}
