package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/segyhp/upn-qr/internal/render"
)

func addRenderFlags(cmd *cobra.Command, opts *render.Options) {
	*opts = render.DefaultOptions()

	cmd.Flags().IntVar(&opts.Version, "qr-version", opts.Version, "QR symbol version")
	cmd.Flags().StringVar(&opts.RecoveryLevel, "recovery-level", opts.RecoveryLevel, "Error correction level: L, M, Q or H")
	cmd.Flags().IntVar(&opts.ModuleSize, "module-size", opts.ModuleSize, "Pixels per QR module")
	cmd.Flags().BoolVar(&opts.DisableBorder, "no-border", opts.DisableBorder, "Omit the quiet zone around the symbol")
}

func newRasterizer(opts render.Options) (*render.QRRasterizer, error) {
	opts.RecoveryLevel = strings.ToUpper(opts.RecoveryLevel)
	return render.NewQRRasterizer(opts)
}

func newGenerateCommand(opts *globalOptions) *cobra.Command {
	var (
		input, output string
		asBase64      bool
		asDataURI     bool
		renderOpts    render.Options
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a payment record as a UPN QR code PNG",
		Example: `  upnqr generate -i record.json -o qr.png
  upnqr generate -i record.json --base64`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" && !asBase64 && !asDataURI {
				return errors.New("one of --output, --base64 or --data-uri is required")
			}

			record, err := readRecord(cmd, input)
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

			result, errs, err := svc.Generate(cmd.Context(), record)
			if err != nil {
				return err
			}
			if len(errs) > 0 {
				return printErrors(cmd.OutOrStdout(), errs)
			}

			switch {
			case asDataURI:
				return writeOutput(cmd, output, []byte(render.DataURI(result.Image)+"\n"))
			case asBase64:
				return writeOutput(cmd, output, []byte(render.Base64(result.Image)+"\n"))
			}

			if err := writeOutput(cmd, output, result.Image); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (checksum %s)\n", output, result.Checksum)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", stdinPath, "Record JSON file, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PNG file")
	cmd.Flags().BoolVar(&asBase64, "base64", false, "Write the image as base64 text")
	cmd.Flags().BoolVar(&asDataURI, "data-uri", false, "Write the image as a data URI")
	addRenderFlags(cmd, &renderOpts)

	return cmd
}
