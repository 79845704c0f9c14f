package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/ui/style"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [types...]",
		Short: "Show the resolved composition of types",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			contexts, err := c.contexts(cmd, args, all)
			if err != nil {
				return err
			}
			if contexts == nil {
				_ = cmd.Help()
				return nil
			}

			p := newPrinter(cmd.OutOrStdout())
			for _, ctx := range contexts {
				printContext(p, ctx)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Resolve every declared target")
	return cmd
}

// contexts resolves the named types, or every declared target when all is set.
// It returns nil when there is nothing to resolve.
func (c *CLI) contexts(cmd *cobra.Command, args []string, all bool) ([]*domain.CompositionContext, error) {
	if all {
		return c.app.ResolveAll(cmd.Context())
	}
	if len(args) == 0 {
		return nil, nil
	}

	out := make([]*domain.CompositionContext, 0, len(args))
	for _, name := range args {
		ctx, err := c.app.Resolve(cmd.Context(), name)
		if err != nil {
			return nil, err
		}
		out = append(out, ctx)
	}
	return out, nil
}

func printContext(p *printer, c *domain.CompositionContext) {
	p.heading("%s", c.Target())
	mixins := c.Mixins()
	if len(mixins) == 0 {
		p.line("  %s", p.muted("no mixins"))
	}
	for _, m := range mixins {
		line := "  " + style.Dot + " " + m.Type.String() + " " + p.muted("["+string(m.Kind)+"]")
		if len(m.Dependencies) > 0 {
			line += " " + style.Arrow + " " + strings.Join(domain.TypeNames(m.Dependencies), ", ")
		}
		p.line("%s", line)
	}
	if ifaces := c.CompleteInterfaces(); len(ifaces) > 0 {
		p.line("  implements %s", strings.Join(domain.TypeNames(ifaces), ", "))
	}
}
