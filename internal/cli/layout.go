package cli

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mcviz/pkg/layout"
	"github.com/matzehuels/mcviz/pkg/painter"
)

// layoutCommand creates the layout command, which runs Graphviz on a DOT
// graph and prints the layout JSON accepted by paint.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		engine  string
		plain   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file.dot]",
		Short: "Lay out a DOT graph and write the layout as JSON",
		Example: `  mcviz layout event.dot -o event.json
  mcviz layout event.dot --plain --engine neato`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := inputArg(args)

			opts, err := c.pipelineOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("engine") {
				opts.Engine = engine
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			data, err := c.readInput(input)
			if err != nil {
				return err
			}

			var out []byte
			var l *layout.Layout
			var hit bool
			err = withSpinner(ctx, "Laying out "+inputName(input), func(ctx context.Context) error {
				if plain {
					out, err = layout.RunPlain(ctx, string(data), opts.Engine)
					return err
				}
				runner, err := c.newRunner(ctx, noCache)
				if err != nil {
					return err
				}
				defer runner.Close()
				l, hit, err = runner.LayoutWithCacheInfo(ctx, string(data), opts)
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := layout.WriteJSON(l, &buf); err != nil {
					return err
				}
				out = buf.Bytes()
				return nil
			})
			if err != nil {
				return err
			}

			sink := painter.NewSink(output, c.stdout)
			if err := painter.Deliver(ctx, sink, out); err != nil {
				return err
			}
			if output != painter.Stdout && l != nil {
				printSuccess("Laid out with %s", opts.Engine)
				printStats(l.NodeCount(), l.EdgeCount(), hit)
				printFile(sink.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", painter.Stdout, `output file ("-" for stdout)`)
	cmd.Flags().StringVar(&engine, "engine", "", "Graphviz engine: dot, neato, fdp, sfdp, circo, twopi, osage, patchwork")
	cmd.Flags().BoolVar(&plain, "plain", false, `write Graphviz "plain" output instead of JSON`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}
