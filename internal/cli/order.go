package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modstack/pkg/deps"
	errs "github.com/matzehuels/modstack/pkg/errors"
	pkgio "github.com/matzehuels/modstack/pkg/io"
	"github.com/matzehuels/modstack/pkg/modset"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// orderOpts holds the command-line flags for the order command.
type orderOpts struct {
	format string // text or json
	output string // output file path (stdout if empty)
}

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	opts := orderOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "order [mod]",
		Short: "Print the load order of a mod",
		Long: `Resolve a mod and print its dependencies in load order, starting with the mod
itself. A mod required along several paths is listed once, at its last
position.

Without a mod argument an interactive picker is shown.

Examples:
  modstack order mods/skyui
  modstack order workshops:1137 --format json -o order.json`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeMods,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format, formatText, formatJSON); err != nil {
				return err
			}
			return c.runOrder(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runOrder(ctx context.Context, args []string, opts orderOpts) error {
	set, err := c.loadSet(ctx)
	if err != nil {
		return err
	}

	var mod *deps.Mod
	if len(args) == 1 {
		if mod, err = set.Lookup(args[0]); err != nil {
			return err
		}
	} else {
		if mod, err = pickMod(set); err != nil || mod == nil {
			return err
		}
	}

	if err := newResolver(ctx, set).Resolve(mod); err != nil {
		return err
	}
	order, err := deps.Traverse(mod)
	if err != nil {
		return err
	}

	if opts.format == formatJSON {
		if opts.output != "" {
			if err := pkgio.ExportOrder(mod, order, opts.output); err != nil {
				return err
			}
			printSuccess("Load order of %s", modLabel(mod))
			printFile(opts.output)
			return nil
		}
		return pkgio.WriteOrder(mod, order, c.out)
	}
	return c.writeOutput(opts.output, func(w io.Writer) error { return writeOrderText(w, order) })
}

// writeOrderText writes one mod key per line.
func writeOrderText(w io.Writer, order []*deps.Mod) error {
	for _, m := range order {
		if _, err := fmt.Fprintln(w, m.Key()); err != nil {
			return err
		}
	}
	return nil
}

// pickMod lets the user choose a mod interactively. It returns nil when the
// picker is closed without a selection.
func pickMod(set *modset.Set) (*deps.Mod, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "mod argument required when not running in a terminal")
	}
	if set.Len() == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "manifest has no mods")
	}

	finalModel, err := tea.NewProgram(NewModListModel(set.Mods())).Run()
	if err != nil {
		return nil, err
	}
	fm, ok := finalModel.(ModListModel)
	if !ok || fm.Selected == nil {
		printDetail("No selection made")
		return nil, nil
	}
	return fm.Selected, nil
}

// writeOutput runs write against path, or against the CLI's output when path
// is empty.
func (c *CLI) writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(c.out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// validateFormat checks format against the allowed values.
func validateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return errs.New(errs.ErrCodeInvalidInput, "unsupported format %q (want one of %v)", format, allowed)
}
