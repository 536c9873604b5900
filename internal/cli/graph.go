package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modstack/pkg/deps"
	pkgio "github.com/matzehuels/modstack/pkg/io"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format string // dot, svg or json
	output string // output file path (stdout if empty)
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph <mod>",
		Short: "Export the dependency graph of a mod",
		Long: `Build the dependency graph of a mod exactly as resolution sees it and write
it as Graphviz DOT, rendered SVG, or JSON. The mod's resolve status is not
changed, so graphs with a dependency cycle can be inspected too.

Examples:
  modstack graph mods/skyui | dot -Tpng > skyui.png
  modstack graph mods/skyui --format svg -o skyui.svg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMods,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format, formatDOT, formatSVG, formatJSON); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, name string, opts graphOpts) error {
	logger := loggerFromContext(ctx)

	set, err := c.loadSet(ctx)
	if err != nil {
		return err
	}
	mod, err := set.Lookup(name)
	if err != nil {
		return err
	}

	g, err := newResolver(ctx, set).Builder().Build(mod)
	if err != nil {
		return err
	}
	if path := g.Cycle(); path != nil {
		logger.Warn("graph contains a dependency cycle", "cycle", strings.Join(path, " -> "))
	}

	switch opts.format {
	case formatJSON:
		return c.writeOutput(opts.output, func(w io.Writer) error { return pkgio.WriteJSON(g, w) })
	case formatSVG:
		svg, err := renderSVG(ctx, g)
		if err != nil {
			return err
		}
		return c.writeOutput(opts.output, func(w io.Writer) error {
			_, err := w.Write(svg)
			return err
		})
	default:
		return c.writeOutput(opts.output, func(w io.Writer) error {
			_, err := io.WriteString(w, g.ToDOT(g.Labels()))
			return err
		})
	}
}

// renderSVG renders g with Graphviz, showing a spinner on an interactive
// terminal while the renderer starts up. An interrupt during rendering
// yields ctx's error, whatever the renderer returned.
func renderSVG(ctx context.Context, g *deps.Graph) ([]byte, error) {
	s := newSpinner(ctx, os.Stderr, "Rendering graph...")
	s.Start()
	svg, err := g.RenderSVG(ctx, g.Labels())
	s.Stop()
	if s.Cancelled() {
		return nil, ctx.Err()
	}
	return svg, err
}
