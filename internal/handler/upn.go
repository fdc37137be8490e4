package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/segyhp/upn-qr/internal/domain"
	"github.com/segyhp/upn-qr/internal/render"
	"github.com/segyhp/upn-qr/internal/service"
	customError "github.com/segyhp/upn-qr/pkg/errors"
	"github.com/segyhp/upn-qr/pkg/response"
	"github.com/segyhp/upn-qr/pkg/utils"
)

// maxBodyBytes bounds the request body; a UPN record is a few hundred bytes
const maxBodyBytes = 64 << 10

// Name is reported in generation responses
const Name = "UPN QR code generator"

// UPNService is the service behind the UPN endpoints
type UPNService interface {
	Validate(input map[string]any) []domain.ValidationError
	Encode(input map[string]any) (*service.PayloadResult, []domain.ValidationError)
	Generate(ctx context.Context, input map[string]any) (*service.Result, []domain.ValidationError, error)
}

type UPNHandler struct {
	service UPNService
	logger  *slog.Logger
}

func NewUPNHandler(service UPNService, logger *slog.Logger) *UPNHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UPNHandler{
		service: service,
		logger:  logger,
	}
}

// FieldError is the JSON form of a validation error
type FieldError struct {
	Path    []string `json:"path"`
	Field   string   `json:"field"`
	Message string   `json:"message"`
}

type GenerateResponse struct {
	Name     string          `json:"name"`
	Payload  string          `json:"payload"`
	Checksum string          `json:"checksum"`
	Amount   decimal.Decimal `json:"amount"`
	QRCode   string          `json:"qr_code"`
}

type PayloadResponse struct {
	Payload  string          `json:"payload"`
	Checksum string          `json:"checksum"`
	Amount   decimal.Decimal `json:"amount"`
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// Generate renders a payment record as a QR code.
// The image is returned as base64 in JSON, or as raw PNG when the client asks
// for image/png.
func (h *UPNHandler) Generate(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, verrs, err := h.service.Generate(r.Context(), input)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "generate UPN QR", "error", err)
		response.InternalServerError(w, customError.Code(err), "QR code could not be generated", err)
		return
	}
	if len(verrs) > 0 {
		validationFailed(w, verrs)
		return
	}

	if wantsPNG(r) {
		response.PNG(w, result.Image)
		return
	}

	response.Success(w, GenerateResponse{
		Name:     Name,
		Payload:  result.Payload,
		Checksum: result.Checksum,
		Amount:   amountOf(result.Record),
		QRCode:   render.Base64(result.Image),
	})
}

// Payload returns the encoded text payload without rendering it
func (h *UPNHandler) Payload(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, verrs := h.service.Encode(input)
	if len(verrs) > 0 {
		validationFailed(w, verrs)
		return
	}

	response.Success(w, PayloadResponse{
		Payload:  result.Payload,
		Checksum: result.Checksum,
		Amount:   amountOf(result.Record),
	})
}

// Validate reports whether a payment record is valid
func (h *UPNHandler) Validate(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	if verrs := h.service.Validate(input); len(verrs) > 0 {
		validationFailed(w, verrs)
		return
	}

	response.Success(w, ValidateResponse{Valid: true})
}

func (h *UPNHandler) decode(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var input map[string]any

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(&input)
	if err == nil && input == nil {
		err = errors.New("body is null")
	}
	if err == nil && dec.More() {
		err = errors.New("unexpected data after JSON object")
	}

	if err != nil {
		be := customError.WrapInvalidRequestBody(err)
		response.BadRequest(w, be.Code, be.Message, err)
		return nil, false
	}

	return input, true
}

func validationFailed(w http.ResponseWriter, verrs []domain.ValidationError) {
	fieldErrors := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		fieldErrors = append(fieldErrors, FieldError{
			Path:    e.Path,
			Field:   e.Field(),
			Message: e.Message,
		})
	}

	be := customError.WrapValidationFailed(len(verrs))
	response.ValidationFailed(w, be.Code, be.Message, fieldErrors)
}

func wantsPNG(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "png") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "image/png")
}

// amountOf parses a validated record amount; it cannot fail after validation
func amountOf(record domain.PaymentRecord) decimal.Decimal {
	amount, err := utils.ParseAmount(record.Amount)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
