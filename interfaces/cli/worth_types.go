package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	api "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

// newWorthTypesCmd creates the worth-types command.
func (a *App) newWorthTypesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "worth-types",
		Short: "List available worth functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			types := api.NewWorthRegistry().Types()
			if ok, err := writeStructured(a.stdout, output, types); ok {
				return err
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tDESCRIPTION")
			for _, t := range types {
				fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text, json, yaml)")

	return cmd
}
