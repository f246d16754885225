package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/racktower/pkg/planner"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/render/elevation"
	"github.com/matzehuels/racktower/pkg/state"
)

// initCommand creates a fresh layout file from the global --height and
// --width settings.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty rack layout",
		Long: `Create an empty rack layout.

The rack takes its size from --height and --width (or the config file).
An existing layout is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(cmd.Context(), force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing layout")
	return cmd
}

func (c *CLI) runInit(ctx context.Context, force bool) error {
	s, err := c.settings()
	if err != nil {
		return err
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}
	if existing, err := store.Load(ctx); (err != nil || existing != nil) && !force {
		return fmt.Errorf("layout already exists at %s (use --force to replace it)", store.Path())
	}
	if err := store.Reset(); err != nil {
		return err
	}

	p, err := planner.Open(ctx, store, c.plannerOptions(s))
	if err != nil {
		return err
	}
	defer p.Close()

	cfg := rack.Config{HeightUnits: s.Height, Width: s.Width}
	if err := p.Replace(ctx, &state.State{Config: cfg}); err != nil {
		return err
	}

	c.printSuccess("Created %dU %s rack", cfg.HeightUnits, cfg.Width)
	c.printDetail("%s", store.Path())
	c.printNewline()
	c.printNextStep("Add equipment", "racktower place server-2u 10")
	return nil
}

// showCommand prints the rack elevation.
func (c *CLI) showCommand() *cobra.Command {
	var ids bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the rack elevation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()
			c.printRack(p, ids)
			return nil
		},
	}
	cmd.Flags().BoolVar(&ids, "ids", false, "show instance ids")
	return cmd
}

func (c *CLI) printRack(p *planner.Planner, ids bool) {
	e := p.Engine()
	fmt.Fprint(c.out, elevation.Text(e.Slots(), e.Config(), elevation.Options{
		IDs:      ids,
		Renderer: lipgloss.NewRenderer(c.out),
	}))
	c.printDetail("%d modules · %d of %d slots used · %s-U slots",
		len(e.Instances()), e.Occupied(), e.Len(), e.Resolution())
}

// resizeCommand changes the rack height.
func (c *CLI) resizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <height>",
		Short: "Change the rack height",
		Long: `Change the rack height in U.

The floor stays put: growing adds empty units at the top, shrinking removes
units from the top. Modules in the removed units are deleted after
confirmation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			height, err := rack.ParseHeight(args[0])
			if err != nil {
				return err
			}
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			old := p.Engine().Config().HeightUnits
			changed, err := p.Resize(cmd.Context(), height, c.confirmFunc(p.Engine()))
			if err != nil {
				return err
			}
			if !changed {
				c.printInfo("Rack is already %dU", height)
				return nil
			}
			c.printSuccess("Resized rack from %dU to %dU", old, height)
			return nil
		},
	}
}

// widthCommand switches the rack standard.
func (c *CLI) widthCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "width <19inch|10inch>",
		Short:     "Change the rack width",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(rack.Width19Inch), string(rack.Width10Inch)},
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := rack.ParseWidth(args[0])
			if err != nil {
				return err
			}
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.SetWidth(cmd.Context(), w); err != nil {
				return err
			}
			c.printSuccess("Rack width is %s", w)
			return nil
		},
	}
}

// clearCommand removes every module.
func (c *CLI) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every module from the rack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			n := len(p.Engine().Instances())
			if err := p.Clear(cmd.Context(), c.confirmFunc(p.Engine())); err != nil {
				return err
			}
			c.printSuccess("Cleared %d modules", n)
			return nil
		},
	}
}
