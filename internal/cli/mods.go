package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modstack/pkg/deps"
)

// modsOpts holds the command-line flags for the mods command.
type modsOpts struct {
	resolve bool // resolve every mod before listing
}

// modsCommand creates the mods command.
func (c *CLI) modsCommand() *cobra.Command {
	var opts modsOpts

	cmd := &cobra.Command{
		Use:   "mods",
		Short: "List the installed mods",
		Long: `List the mods of the manifest with their version, declared dependencies and
resolve status. With --resolve every mod is resolved first; failures are shown
as status and do not fail the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMods(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.resolve, "resolve", false, "resolve every mod before listing")

	return cmd
}

func (c *CLI) runMods(ctx context.Context, opts modsOpts) error {
	set, err := c.loadSet(ctx)
	if err != nil {
		return err
	}
	mods := set.Mods()

	failed := map[*deps.Mod]bool{}
	if opts.resolve {
		res := newResolver(ctx, set).ResolveAll(mods, false)
		for _, f := range res.Failures {
			failed[f.Mod] = true
		}
	}

	printKeyValue("Game", set.Game())
	printKeyValue("Manifest", c.manifest)
	printKeyValue("Mods", strconv.Itoa(len(mods)))
	fmt.Fprintln(c.out)
	return writeModTable(c.out, mods, failed)
}

// writeModTable renders mods as a table. Mods in failed are shown as failed
// unless they reached a terminal status.
func writeModTable(w io.Writer, mods []*deps.Mod, failed map[*deps.Mod]bool) error {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(mods))
	for _, m := range mods {
		rows = append(rows, []string{
			m.Key(),
			nameOrDash(m),
			dashIfEmpty(m.Version().String()),
			layoutOf(m),
			strconv.Itoa(declaredCount(m)),
			statusText(m, failed[m]),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Mod", "Name", "Version", "Layout", "Deps", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(mods) {
				return base
			}
			if col == 5 {
				if failed[mods[row]] && mods[row].Status() == deps.StatusNone {
					return base.Inherit(StyleError)
				}
				return base.Inherit(statusStyle(mods[row].Status()))
			}
			if col == 0 {
				return base.Inherit(StyleHighlight)
			}
			return base
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func statusText(m *deps.Mod, failed bool) string {
	if failed && m.Status() == deps.StatusNone {
		return "failed"
	}
	return m.Status().String()
}

func layoutOf(m *deps.Mod) string {
	if d := m.Declared(); d != nil {
		return d.Layout().String()
	}
	return "-"
}

func declaredCount(m *deps.Mod) int {
	if d := m.Declared(); d != nil {
		return d.Len()
	}
	return 0
}

func nameOrDash(m *deps.Mod) string {
	if m.Name() == m.ID() {
		return "-"
	}
	return m.Name()
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
