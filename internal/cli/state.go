package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/racktower/pkg/rack/layout"
)

// stateCommand manages the layout file itself.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage the saved layout file",
	}

	cmd.AddCommand(c.statePathCommand())
	cmd.AddCommand(c.stateResetCommand())

	return cmd
}

func (c *CLI) statePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the layout file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, store.Path())
			return nil
		},
	}
}

func (c *CLI) stateResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the layout file, including custom modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			e := p.Engine()
			prompt := layout.Prompt{
				Action:    "reset",
				Message:   "Delete the saved layout and all custom modules?",
				Instances: e.Instances(),
			}
			if !c.confirmFunc(e)(prompt) {
				return fmt.Errorf("reset not confirmed; layout unchanged")
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			if err := store.Reset(); err != nil {
				return err
			}
			c.printSuccess("Deleted %s", store.Path())
			return nil
		},
	}
}
