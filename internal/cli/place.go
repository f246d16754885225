package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/planner"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
)

// parseTop reads a U label such as "10", "U10" or "9.5".
func parseTop(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "U"), 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%q is not a U position", s)
	}
	return v, nil
}

func (c *CLI) placeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "place <module> <top>",
		Short: "Add a module with its top edge at a U position",
		Long: `Add a module with its top edge at a U position.

Positions are U labels counted from the floor, so "place server-2u 10" fills
U10 down to U9 in a 10U rack. Half positions such as 7.5 are allowed for
modules under 1U; taller modules must start on a whole unit.`,
		Example: `  racktower place server-2u 10
  racktower place patch-panel-05u 7.5`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeModules(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			top, err := parseTop(args[1])
			if err != nil {
				return err
			}
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			res, err := p.PlaceAt(cmd.Context(), top, args[0], "")
			if err != nil {
				return err
			}
			c.printPlaced(p, res.InstanceID, "Placed")
			return nil
		},
	}
}

func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "move <instance> <top>",
		Short:             "Move a placed module to a new U position",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeInstances(),
		RunE: func(cmd *cobra.Command, args []string) error {
			top, err := parseTop(args[1])
			if err != nil {
				return err
			}
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			res, err := p.PlaceAt(cmd.Context(), top, "", args[0])
			if err != nil {
				return err
			}
			c.printPlaced(p, res.InstanceID, "Moved")
			return nil
		},
	}
}

func (c *CLI) printPlaced(p *planner.Planner, id, verb string) {
	inst, _ := p.Engine().Instance(id)
	c.printSuccess("%s %s", verb, p.Engine().Describe(inst))
	c.printDetail("%s", id)
}

func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <instance>",
		Aliases:           []string{"rm"},
		Short:             "Remove a placed module",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeInstances(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			inst, ok := p.Engine().Instance(args[0])
			if !ok {
				return errors.New(errors.ErrCodeInstanceNotFound, "instance %q is not in the rack", args[0])
			}
			desc := p.Engine().Describe(inst)
			if _, err := p.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.printSuccess("Removed %s", desc)
			return nil
		},
	}
}

// checkCommand reports whether a drop would be accepted without changing
// the layout.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		moving  string
		targets bool
	)

	cmd := &cobra.Command{
		Use:   "check <module> [top]",
		Short: "Check whether a module fits at a U position",
		Long: `Check whether a module fits at a U position without changing the layout.

With --targets, list every U position where the module fits instead. Use
--moving with an instance id to check a move; the module argument may then
be "-" to keep the instance's module.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: c.completeModules(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			moduleID := args[0]
			if moduleID == "-" {
				moduleID = ""
			}
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			if targets || len(args) == 1 {
				return c.printTargets(p, moduleID, moving)
			}

			top, err := parseTop(args[1])
			if err != nil {
				return err
			}
			e := p.Engine()
			index := e.IndexOf(top)
			if index < 0 {
				return errors.New(errors.ErrCodeOutOfBounds, "%s is not a slot in this %dU rack",
					geometry.Label(top), e.Config().HeightUnits)
			}
			if err := p.Check(index, moduleID, moving); err != nil {
				return err
			}
			c.printSuccess("Fits at %s", geometry.Label(top))
			return nil
		},
	}
	cmd.Flags().StringVar(&moving, "moving", "", "instance being moved; its own slots count as free")
	cmd.Flags().BoolVar(&targets, "targets", false, "list every position where the module fits")
	return cmd
}

func (c *CLI) printTargets(p *planner.Planner, moduleID, moving string) error {
	e := p.Engine()
	m, indices, err := p.Targets(moduleID, moving)
	if err != nil {
		return err
	}
	if len(indices) == 0 {
		c.printWarning("%s fits nowhere in this rack", m.Name)
		return nil
	}
	labels := make([]string, len(indices))
	slots := e.Slots()
	for i, idx := range indices {
		labels[i] = geometry.Label(slots[idx].UPosition)
	}
	c.printSuccess("%s fits at %d positions", m.Name, len(indices))
	c.printDetail("%s", strings.Join(labels, " "))
	return nil
}
