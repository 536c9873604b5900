package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/modstack/pkg/errors"
	"github.com/matzehuels/modstack/pkg/observability"
	"github.com/matzehuels/modstack/pkg/observability/metrics"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	abortOnError bool   // stop at the first failing mod
	metricsFile  string // node-exporter textfile to write (skipped if empty)
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve [mod...]",
		Short: "Resolve mod dependencies and report failures",
		Long: `Resolve the declared dependencies of the given mods, or of every installed
mod when none are given.

Every mod is attempted unless --abort-on-error is set. Missing dependencies and
version mismatches can be fixed and resolved again; mods with a dependency cycle
stay faulted.

Examples:
  modstack resolve                          # every mod in modstack.toml
  modstack resolve -m skyrim.yaml mods/skyui
  modstack resolve --metrics-file /var/lib/node_exporter/modstack.prom`,
		ValidArgsFunction: c.completeMods,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.abortOnError, "abort-on-error", false, "stop at the first mod that fails to resolve")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, names []string, opts resolveOpts) error {
	logger := loggerFromContext(ctx)

	set, err := c.loadSet(ctx)
	if err != nil {
		return err
	}
	mods, err := lookupMods(set, names)
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	if opts.metricsFile != "" {
		collector = metrics.New()
		collector.Install()
		defer observability.Reset()
	}

	prog := newProgress(logger)
	res := newResolver(ctx, set).ResolveAll(mods, opts.abortOnError)
	prog.done(fmt.Sprintf("Resolved %d of %d mods", len(res.Resolved), len(mods)))

	for _, m := range res.Resolved {
		printSuccess("%s %s", modLabel(m), StyleDim.Render(fmt.Sprintf("%d dependencies", len(m.Dependencies()))))
	}
	for _, m := range res.Skipped {
		printInfo("%s %s", modLabel(m), StyleDim.Render("already resolved"))
	}
	for _, f := range res.Failures {
		printError("%s", modLabel(f.Mod))
		printDetail("%s", errs.UserMessage(f.Err))
	}
	if res.Aborted {
		printWarning("Stopped after the first failure (--abort-on-error)")
	}

	if collector != nil {
		if err := collector.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
		printFile(opts.metricsFile)
	}

	if !res.OK() {
		return fmt.Errorf("%d of %d mods failed to resolve", len(res.Failures), len(mods))
	}
	return nil
}
