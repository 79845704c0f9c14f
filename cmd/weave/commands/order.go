package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/weave/internal/ui/style"
)

func (c *CLI) newOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order <type>",
		Short: "Show the order in which mixins wrap a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := c.app.Order(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.heading("%s", args[0])
			for i, m := range order {
				p.line("  %d. %s", i+1, m.Type)
			}
			p.line("  %s %s", style.Arrow, p.muted(args[0]))
			return nil
		},
	}
}
