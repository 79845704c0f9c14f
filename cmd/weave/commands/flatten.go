package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/weave/internal/engine/codec"
	"go.trai.ch/zerr"
)

func (c *CLI) newFlattenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatten <type>",
		Short: "Print the metadata record of a type's composition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")

			record, err := c.app.Flatten(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return codec.Encode(cmd.OutOrStdout(), record)
			case "yaml":
				return codec.EncodeYAML(cmd.OutOrStdout(), record)
			default:
				return zerr.With(zerr.New("unknown output format"), "format", format)
			}
		},
	}
	cmd.Flags().StringP("output", "o", "json", "Output format: json or yaml")
	return cmd
}
