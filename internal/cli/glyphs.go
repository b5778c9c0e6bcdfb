package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mcviz/pkg/glyph"
)

// glyphsCommand creates the glyphs command for inspecting the catalog.
func (c *CLI) glyphsCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "glyphs",
		Short: "List the particle glyph catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalogFor(file)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, glyphTable(cat.Glyphs()))
			printDetail("%d glyphs", cat.Len())
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "list a catalog file instead of the built-in one")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <key>",
		Short: "Print the definition of one glyph, by PDG id or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalogFor(file)
			if err != nil {
				return err
			}
			g, ok := cat.Resolve(args[0])
			if !ok {
				printWarning("No glyph for %q; it is painted as a text label", args[0])
				return nil
			}
			fmt.Fprintln(c.stdout, StyleTitle.Render(fmt.Sprintf("%d", g.PDGID))+" "+StyleDim.Render(g.DefID))
			fmt.Fprintf(c.stdout, "box   x %s..%s  y %s..%s  scale %s\n",
				StyleNumber.Render(fmt.Sprint(g.XMin)), StyleNumber.Render(fmt.Sprint(g.XMax)),
				StyleNumber.Render(fmt.Sprint(g.YMin)), StyleNumber.Render(fmt.Sprint(g.YMax)),
				StyleNumber.Render(fmt.Sprint(g.DefaultScale)))
			fmt.Fprintln(c.stdout, g.Markup)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pick",
		Short: "Choose a glyph interactively and print its PDG id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalogFor(file)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newGlyphPicker(cat.Glyphs()), tea.WithOutput(os.Stderr), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			m, ok := final.(glyphPicker)
			if !ok || m.selected == nil {
				printDetail("No selection made")
				return nil
			}
			fmt.Fprintln(c.stdout, m.selected.PDGID)
			return nil
		},
	})

	return cmd
}

func catalogFor(file string) (*glyph.TOMLCatalog, error) {
	if file == "" {
		return glyph.Default(), nil
	}
	return glyph.LoadFile(file)
}
