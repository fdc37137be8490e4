package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/segyhp/upn-qr/internal/domain"
	"github.com/segyhp/upn-qr/internal/render"
	"github.com/segyhp/upn-qr/internal/upn"
	"github.com/segyhp/upn-qr/internal/validation"
	customError "github.com/segyhp/upn-qr/pkg/errors"
)

// Result is the outcome of a successful generation
type Result struct {
	Record   domain.PaymentRecord
	Payload  string
	Checksum string
	Image    []byte
}

// PayloadResult is the outcome of encoding without rendering
type PayloadResult struct {
	Record   domain.PaymentRecord
	Payload  string
	Checksum string
}

type UPNService struct {
	validator  *validation.Validator
	rasterizer render.Rasterizer
	logger     *slog.Logger
}

func NewUPNService(validator *validation.Validator, rasterizer render.Rasterizer, logger *slog.Logger) *UPNService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UPNService{
		validator:  validator,
		rasterizer: rasterizer,
		logger:     logger,
	}
}

// Validate returns all validation errors of input
func (s *UPNService) Validate(input map[string]any) []domain.ValidationError {
	return slices.Collect(s.validator.Validate(input))
}

// Encode validates input and builds its payload.
// When validation errors are returned the payload is not built.
func (s *UPNService) Encode(input map[string]any) (*PayloadResult, []domain.ValidationError) {
	if errs := s.Validate(input); len(errs) > 0 {
		return nil, errs
	}

	record := domain.NewPaymentRecord(input)
	payload := upn.Encode(record)

	return &PayloadResult{
		Record:   record,
		Payload:  payload,
		Checksum: checksumOf(payload),
	}, nil
}

// Generate validates input, builds the payload and renders it.
// Validation errors are returned as values; the error result is reserved for
// rendering failures.
func (s *UPNService) Generate(ctx context.Context, input map[string]any) (*Result, []domain.ValidationError, error) {
	encoded, errs := s.Encode(input)
	if len(errs) > 0 {
		s.logger.DebugContext(ctx, "payment record rejected", "errors", len(errs))
		return nil, errs, nil
	}

	image, err := s.rasterizer.Render(ctx, encoded.Payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "QR rendering failed", "error", err)
		return nil, nil, customError.WrapRenderFailed(err)
	}

	s.logger.InfoContext(ctx, "UPN QR generated",
		"checksum", encoded.Checksum,
		"bytes", len(image),
	)

	return &Result{
		Record:   encoded.Record,
		Payload:  encoded.Payload,
		Checksum: encoded.Checksum,
		Image:    image,
	}, nil, nil
}

// checksumOf returns the checksum line of a payload
func checksumOf(payload string) string {
	// payload ends with "NNN\n"
	n := len(payload)
	if n < 4 {
		return ""
	}
	return payload[n-4 : n-1]
}
