package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/segyhp/upn-qr/internal/upn"
)

func newInspectCommand(opts *globalOptions) *cobra.Command {
	var (
		input    string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Decode a UPN QR text payload and verify its checksum",
		Example: `  upnqr payload -i record.json | upnqr inspect --validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, input)
			if err != nil {
				return err
			}

			record, err := upn.Decode(string(data))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(record); err != nil {
				return err
			}

			if !validate {
				return nil
			}

			v, err := opts.validator()
			if err != nil {
				return err
			}
			if errs := v.Errors(record.ToMap()); len(errs) > 0 {
				return printErrors(cmd.ErrOrStderr(), errs)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", stdinPath, "Payload file, - for stdin")
	cmd.Flags().BoolVar(&validate, "validate", false, "Also validate the decoded record against the schema")

	return cmd
}
