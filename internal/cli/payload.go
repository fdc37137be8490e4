package cli

import (
	"github.com/spf13/cobra"
)

func newPayloadCommand(opts *globalOptions) *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "payload",
		Short: "Print the UPN QR text payload of a payment record",
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readRecord(cmd, input)
			if err != nil {
				return err
			}

			// Encode never renders
			svc, err := opts.service(cmd, nil)
			if err != nil {
				return err
			}

			result, errs := svc.Encode(record)
			if len(errs) > 0 {
				return printErrors(cmd.OutOrStdout(), errs)
			}

			return writeOutput(cmd, output, []byte(result.Payload))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", stdinPath, "Record JSON file, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default is stdout)")

	return cmd
}
