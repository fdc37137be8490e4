// Package cli implements the upnqr command line tool.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/segyhp/upn-qr/internal/domain"
	"github.com/segyhp/upn-qr/internal/logger"
	"github.com/segyhp/upn-qr/internal/render"
	"github.com/segyhp/upn-qr/internal/service"
	"github.com/segyhp/upn-qr/internal/validation"
	customError "github.com/segyhp/upn-qr/pkg/errors"
)

// ErrInvalidRecord is returned when a record fails validation; the errors
// themselves have already been printed.
var ErrInvalidRecord = errors.New("payment record is invalid")

// stdinPath selects standard input for -i
const stdinPath = "-"

type globalOptions struct {
	schemaPath string
	strict     bool
	verbose    bool
}

// NewRootCommand builds the upnqr command tree
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "upnqr",
		Short: "Validate and encode Slovenian UPN QR payment orders",
		Long: `upnqr validates UPN payment records against the UPN QR schema, encodes them
into the UPN QR text payload and renders that payload as a QR code image.

Records are JSON objects keyed by field name:
  payer_name, payer_street, payer_city, amount, purpose_code, purpose_text,
  due_date, payee_iban, payee_reference, payee_name, payee_street, payee_city`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.schemaPath, "schema", "", "Path to a schema document (default is the built-in schema)")
	root.PersistentFlags().BoolVar(&opts.strict, "strict", false, "Use the strict built-in schema with IBAN and reference checks")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output for debugging")

	root.AddCommand(
		newValidateCommand(opts),
		newPayloadCommand(opts),
		newGenerateCommand(opts),
		newBatchCommand(opts),
		newInspectCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, ErrInvalidRecord) {
			fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func (o *globalOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	return logger.New(cmd.ErrOrStderr(), level, "text")
}

func (o *globalOptions) validator() (*validation.Validator, error) {
	schema, err := validation.ResolveSchema(o.schemaPath, o.strict)
	if err != nil {
		return nil, customError.WrapSchemaLoad(o.schemaPath, err)
	}

	v, err := validation.New(schema, validation.DefaultFormats())
	if err != nil {
		return nil, customError.WrapSchemaLoad(o.schemaPath, err)
	}
	return v, nil
}

func (o *globalOptions) service(cmd *cobra.Command, rasterizer render.Rasterizer) (*service.UPNService, error) {
	v, err := o.validator()
	if err != nil {
		return nil, err
	}
	return service.NewUPNService(v, rasterizer, o.logger(cmd)), nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinPath {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func readRecord(cmd *cobra.Command, path string) (map[string]any, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, customError.WrapInvalidRequestBody(err)
	}
	if record == nil {
		return nil, customError.WrapInvalidRequestBody(errors.New("record is null"))
	}
	return record, nil
}

func printErrors(w io.Writer, errs []domain.ValidationError) error {
	for _, e := range errs {
		fmt.Fprintln(w, e.String())
	}
	return ErrInvalidRecord
}

// writeOutput writes data to path, or to stdout when path is empty or "-"
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == stdinPath {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
