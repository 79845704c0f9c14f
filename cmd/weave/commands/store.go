package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [types...]",
		Short: "Generate types and persist their metadata records",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			for _, name := range args {
				if _, err := c.app.GetArtifact(cmd.Context(), name); err != nil {
					return err
				}
			}

			n, err := c.app.Export(root)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("exported %d artifacts to %s", n, root)
			return nil
		},
	}
	cmd.Flags().String("root", ".", "Directory holding the artifact store")
	return cmd
}

func (c *CLI) newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Register previously exported artifacts without regenerating them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, _ := cmd.Flags().GetString("root")

			n, err := c.app.ImportFrom(cmd.Context(), root)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("imported %d artifacts from %s", n, root)
			return nil
		},
	}
	cmd.Flags().String("root", ".", "Directory holding the artifact store")
	return cmd
}
