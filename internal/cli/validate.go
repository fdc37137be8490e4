package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(opts *globalOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a payment record",
		Example: `  upnqr validate -i record.json
  cat record.json | upnqr validate -i -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readRecord(cmd, input)
			if err != nil {
				return err
			}

			v, err := opts.validator()
			if err != nil {
				return err
			}

			if errs := v.Errors(record); len(errs) > 0 {
				return printErrors(cmd.OutOrStdout(), errs)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", stdinPath, "Record JSON file, - for stdin")

	return cmd
}
