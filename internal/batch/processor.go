package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/segyhp/upn-qr/internal/domain"
	"github.com/segyhp/upn-qr/internal/service"
	"github.com/segyhp/upn-qr/pkg/utils"
)

// Generator renders a single payment record
type Generator interface {
	Generate(ctx context.Context, input map[string]any) (*service.Result, []domain.ValidationError, error)
}

// Failure describes a row that produced no image
type Failure struct {
	Row    int
	Errors []domain.ValidationError
	Err    error
}

// Summary reports the outcome of a batch run
type Summary struct {
	Valid    int
	Invalid  int
	Total    decimal.Decimal
	Files    []string
	Failures []Failure
}

type Processor struct {
	generator Generator
	outDir    string
	logger    *slog.Logger
}

func NewProcessor(generator Generator, outDir string, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		generator: generator,
		outDir:    outDir,
		logger:    logger,
	}
}

// Process renders every row to <outDir>/<row>.png.
// Invalid rows and render failures are recorded in the summary; only I/O
// errors on the output directory stop the run.
func (p *Processor) Process(ctx context.Context, rows []Row) (*Summary, error) {
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	summary := &Summary{Total: decimal.Zero}
	var amounts []string
	totalled := func() *Summary {
		summary.Total, _ = utils.SumAmounts(amounts)
		return summary
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return totalled(), err
		}

		result, verrs, err := p.generator.Generate(ctx, row.Record)
		if err != nil || len(verrs) > 0 {
			summary.Invalid++
			summary.Failures = append(summary.Failures, Failure{Row: row.Number, Errors: verrs, Err: err})
			p.logger.WarnContext(ctx, "batch row rejected", "row", row.Number, "errors", len(verrs), "error", err)
			continue
		}

		path := filepath.Join(p.outDir, strconv.Itoa(row.Number)+".png")
		if err := os.WriteFile(path, result.Image, 0o644); err != nil {
			return totalled(), fmt.Errorf("write %s: %w", path, err)
		}

		amounts = append(amounts, result.Record.Amount)
		summary.Valid++
		summary.Files = append(summary.Files, path)
	}

	totalled()
	p.logger.InfoContext(ctx, "batch processed",
		"valid", summary.Valid,
		"invalid", summary.Invalid,
		"total", utils.FormatAmount(summary.Total),
	)

	return summary, nil
}
