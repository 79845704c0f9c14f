package commands

import (
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"go.trai.ch/weave/internal/core/domain"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [types...]",
		Short: "Compose artifacts for types",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			stats, _ := cmd.Flags().GetBool("stats")

			names := args
			if all {
				contexts, err := c.app.ResolveAll(cmd.Context())
				if err != nil {
					return err
				}
				names = make([]string, len(contexts))
				for i, ctx := range contexts {
					names[i] = ctx.Target().String()
				}
			}
			if len(names) == 0 {
				return domain.ErrNoTargetsSpecified
			}

			p := newPrinter(cmd.OutOrStdout())
			for _, name := range names {
				artifact, err := c.app.GetArtifact(cmd.Context(), name)
				if err != nil {
					return err
				}
				p.success("%s %s", name, p.muted(string(artifact.Handle())))
			}

			if stats {
				printStats(p, c.app.Stats())
			}
			return nil
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Generate every declared target")
	cmd.Flags().Bool("stats", false, "Print request counts by outcome")
	return cmd
}

func printStats(p *printer, stats map[domain.GenerationStatus]float64) {
	p.heading("requests")
	for _, status := range slices.Sorted(maps.Keys(stats)) {
		p.line("  %-10s %d", status, int(stats[status]))
	}
}
