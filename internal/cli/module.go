package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/racktower/pkg/catalog"
	"github.com/matzehuels/racktower/pkg/rack"
)

func (c *CLI) moduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "module",
		Aliases: []string{"modules"},
		Short:   "List and manage rack modules",
	}

	cmd.AddCommand(c.moduleListCommand())
	cmd.AddCommand(c.moduleAddCommand())
	cmd.AddCommand(c.moduleEditCommand())
	cmd.AddCommand(c.moduleDeleteCommand())

	return cmd
}

func (c *CLI) moduleListCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom modules by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			groups := p.Catalog().Grouped(query)
			if len(groups) == 0 {
				c.printInfo("No modules match %q", query)
				return nil
			}
			fmt.Fprintln(c.out, moduleTable(groups, p.Engine().Placements))
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only modules whose name contains this text")
	return cmd
}

// moduleTable renders catalog groups as one table with a row per module.
func moduleTable(groups []catalog.Group, placed func(string) int) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	categoryStyle := lipgloss.NewStyle().Foreground(colorCyan)
	customStyle := lipgloss.NewStyle().Foreground(colorGreen)

	var rows [][]string
	var custom []bool
	for _, g := range groups {
		for i, m := range g.Modules {
			category := ""
			if i == 0 {
				category = string(g.Category)
			}
			inUse := ""
			if n := placed(m.ID); n > 0 {
				inUse = strconv.Itoa(n)
			}
			rows = append(rows, []string{category, m.ID, m.Name, formatUnits(m.HeightUnits), inUse})
			custom = append(custom, m.IsCustom())
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Category", "ID", "Name", "Height", "Placed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return categoryStyle.Padding(0, 1)
			case custom[row] && col == 1:
				return customStyle.Padding(0, 1)
			case col == 3 || col == 4:
				return base.Align(lipgloss.Right)
			}
			return base
		})
	return t.Render()
}

func formatUnits(u float64) string {
	return strconv.FormatFloat(u, 'f', -1, 64) + "U"
}

func (c *CLI) moduleAddCommand() *cobra.Command {
	var (
		name, category, color, image string
		units                        float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a custom module",
		Example: `  racktower module add --name "UPS 2U" --units 2 --category power
  racktower module add --name "Shelf" --units 1 --color bg-amber-700`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rack.ParseCategory(category)
			if err != nil {
				return err
			}
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			m, err := p.CreateModule(cmd.Context(), name, units, cat, color, image)
			if err != nil {
				return err
			}
			c.printSuccess("Created %s (%s)", m.Name, formatUnits(m.HeightUnits))
			c.printDetail("%s", m.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().Float64VarP(&units, "units", "u", 1, "height in U (multiples of 0.5)")
	cmd.Flags().StringVarP(&category, "category", "c", string(rack.CategoryGeneric), "server, storage, network, power, accessory or generic")
	cmd.Flags().StringVar(&color, "color", "", "color token (default "+catalog.DefaultColor+")")
	cmd.Flags().StringVar(&image, "image", "", "faceplate image URL")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *CLI) moduleEditCommand() *cobra.Command {
	var (
		name, category, color, image string
		units                        float64
		showName                     bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a custom module and every placed copy of it",
		Long: `Change a custom module and every placed copy of it.

Only the flags given are changed. The height can only change while the
module is not placed in the rack.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeModules(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch rack.ModulePatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("units") {
				patch.HeightUnits = &units
			}
			if flags.Changed("category") {
				cat, err := rack.ParseCategory(category)
				if err != nil {
					return err
				}
				patch.Category = &cat
			}
			if flags.Changed("color") {
				patch.Color = &color
			}
			if flags.Changed("image") {
				patch.FaceplateImage = &image
			}
			if flags.Changed("show-name") {
				patch.ShowName = &showName
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to change; pass at least one of --name, --units, --category, --color, --image, --show-name")
			}

			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			n, err := p.EditModule(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			c.printSuccess("Updated %s", args[0])
			if n > 0 {
				c.printDetail("%d placed copies updated", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().Float64VarP(&units, "units", "u", 1, "height in U (multiples of 0.5)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category")
	cmd.Flags().StringVar(&color, "color", "", "color token")
	cmd.Flags().StringVar(&image, "image", "", "faceplate image URL")
	cmd.Flags().BoolVar(&showName, "show-name", true, "print the name on the faceplate")
	return cmd
}

func (c *CLI) moduleDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <id>",
		Short:             "Delete a custom module; placed copies stay in the rack",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeModules(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			n := p.Engine().Placements(args[0])
			if err := p.DeleteModule(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.printSuccess("Deleted %s", args[0])
			if n > 0 {
				c.printDetail("%d placed copies kept in the rack", n)
			}
			return nil
		},
	}
}
