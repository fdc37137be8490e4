package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/segyhp/upn-qr/internal/batch"
	"github.com/segyhp/upn-qr/internal/render"
	"github.com/segyhp/upn-qr/pkg/utils"
)

func newBatchCommand(opts *globalOptions) *cobra.Command {
	var (
		input, output string
		renderOpts    render.Options
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render every row of a CSV or XLSX file",
		Long: `batch reads payment records from a .csv file or the first sheet of an .xlsx
workbook. The first row names the fields; each following row is one record.
Valid rows are written to <output>/<row>.png, numbering data rows from 1.`,
		Example: `  upnqr batch -i orders.xlsx -o out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := batch.ReadFile(input)
			if err != nil {
				return err
			}

			rasterizer, err := newRasterizer(renderOpts)
			if err != nil {
				return err
			}

			svc, err := opts.service(cmd, rasterizer)
			if err != nil {
				return err
			}

			summary, err := batch.NewProcessor(svc, output, opts.logger(cmd)).Process(cmd.Context(), rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range summary.Failures {
				if f.Err != nil {
					fmt.Fprintf(out, "row %d: %v\n", f.Row, f.Err)
				}
				for _, e := range f.Errors {
					fmt.Fprintf(out, "row %d: %s\n", f.Row, e)
				}
			}
			fmt.Fprintf(out, "valid: %d, invalid: %d, total amount: %s\n",
				summary.Valid, summary.Invalid, utils.FormatAmount(summary.Total))

			if summary.Invalid > 0 {
				return ErrInvalidRecord
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV or XLSX file")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "Output directory")
	addRenderFlags(cmd, &renderOpts)
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
