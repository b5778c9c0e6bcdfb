package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mcviz/pkg/painter"
	"github.com/matzehuels/mcviz/pkg/pipeline"
)

// paintOpts holds the command-line flags for the paint command.
type paintOpts struct {
	output    string
	format    string
	engine    string
	glyphs    string
	labelSize float64
	width     float64
	height    float64
	strict    bool
	noCache   bool
	refresh   bool
}

// paintCommand creates the paint command.
func (c *CLI) paintCommand() *cobra.Command {
	var opts paintOpts

	cmd := &cobra.Command{
		Use:   "paint [file]",
		Short: "Paint a layout (JSON) or a DOT graph as SVG or DOT",
		Long: `Paint reads a laid-out event graph and writes the painted document.

The input is either layout JSON or a DOT graph; DOT graphs are laid out with
Graphviz first. Without a file, or with "-", the input is read from stdin.
The format defaults to the extension of --output, then to svg.`,
		Example: `  mcviz paint event.json -o event.svg
  mcviz paint event.dot --engine neato --label-size 16 -o event.svg
  cat event.json | mcviz paint --format dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPaint(cmd, inputArg(args), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", painter.Stdout, `output file ("-" for stdout)`)
	f.StringVarP(&opts.format, "format", "f", "", "output format: svg, dot")
	f.StringVar(&opts.engine, "engine", "", "Graphviz engine for DOT input (default from config, else dot)")
	f.StringVar(&opts.glyphs, "glyphs", "", "glyph catalog (TOML) layered over the built-in one")
	f.Float64Var(&opts.labelSize, "label-size", 0, "font size of glyphs and labels in layout units")
	f.Float64Var(&opts.width, "width", 0, "canvas width; the scale is fitted to the content")
	f.Float64Var(&opts.height, "height", 0, "canvas height")
	f.BoolVar(&opts.strict, "strict", false, "reject unknown line types")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the layout and artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached entries")

	return cmd
}

func (c *CLI) runPaint(cmd *cobra.Command, input string, opts paintOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	popts, err := c.pipelineOptions()
	if err != nil {
		return err
	}
	if err := c.applyFlags(cmd, &popts, opts); err != nil {
		return err
	}

	data, err := c.readInput(input)
	if err != nil {
		return err
	}
	in, err := pipeline.ReadInput(data)
	if err != nil {
		return fmt.Errorf("%s: %w", inputName(input), err)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var res *pipeline.Result
	run := func(ctx context.Context) error {
		res, err = runner.Execute(ctx, in, popts)
		return err
	}
	if in.Layout == nil {
		err = withSpinner(ctx, "Laying out "+inputName(input), run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return err
	}

	sink := painter.NewSink(opts.output, c.stdout)
	if err := painter.Deliver(ctx, sink, res.Artifact); err != nil {
		return err
	}
	if opts.output != painter.Stdout && opts.output != "" {
		printSuccess("Painted %s", strings.ToUpper(popts.Format))
		printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.PaintHit)
		printFile(sink.String())
	}
	prog.done("paint finished", "format", popts.Format)
	return nil
}

// applyFlags overrides config values with the flags the user set.
func (c *CLI) applyFlags(cmd *cobra.Command, popts *pipeline.Options, opts paintOpts) error {
	changed := cmd.Flags().Changed

	popts.Format = opts.format
	if popts.Format == "" {
		popts.Format = formatFromPath(opts.output)
	}
	if changed("engine") {
		popts.Engine = opts.engine
	}
	if changed("label-size") {
		popts.LabelSize = opts.labelSize
	}
	if changed("width") || changed("height") {
		popts.Width, popts.Height = opts.width, opts.height
	}
	if changed("strict") {
		popts.Strict = opts.strict
	}
	popts.Refresh = opts.refresh
	if opts.glyphs != "" {
		cat, id, err := loadCatalog(opts.glyphs)
		if err != nil {
			return fmt.Errorf("load glyphs: %w", err)
		}
		popts.Catalog, popts.CatalogID = cat, id
	}
	return popts.ValidateAndSetDefaults()
}

// formatFromPath infers the output format from a file extension.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return painter.FormatDOT
	default:
		return painter.FormatSVG
	}
}

// readInput reads a file, or stdin for "" and "-".
func (c *CLI) readInput(path string) ([]byte, error) {
	if path == "" || path == painter.Stdout {
		return io.ReadAll(c.stdin)
	}
	return os.ReadFile(path)
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return painter.Stdout
	}
	return args[0]
}

func inputName(path string) string {
	if path == painter.Stdout {
		return "stdin"
	}
	return filepath.Base(path)
}
