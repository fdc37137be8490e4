package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/upn-qr/internal/domain"
	"github.com/segyhp/upn-qr/internal/service"
	customError "github.com/segyhp/upn-qr/pkg/errors"
)

type MockUPNService struct {
	mock.Mock
}

func (m *MockUPNService) Validate(input map[string]any) []domain.ValidationError {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.ValidationError)
}

func (m *MockUPNService) Encode(input map[string]any) (*service.PayloadResult, []domain.ValidationError) {
	args := m.Called(input)
	var result *service.PayloadResult
	if args.Get(0) != nil {
		result = args.Get(0).(*service.PayloadResult)
	}
	var errs []domain.ValidationError
	if args.Get(1) != nil {
		errs = args.Get(1).([]domain.ValidationError)
	}
	return result, errs
}

func (m *MockUPNService) Generate(ctx context.Context, input map[string]any) (*service.Result, []domain.ValidationError, error) {
	args := m.Called(ctx, input)
	var result *service.Result
	if args.Get(0) != nil {
		result = args.Get(0).(*service.Result)
	}
	var errs []domain.ValidationError
	if args.Get(1) != nil {
		errs = args.Get(1).([]domain.ValidationError)
	}
	return result, errs, args.Error(2)
}

var pngMagic = []byte("\x89PNG\r\n\x1a\nfake")

func newTestRouter(svc UPNService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewUPNHandler(svc, logger), NewHealthHandler("UPN QR", nil), logger)
}

func sampleResult() *service.Result {
	return &service.Result{
		Record:   domain.PaymentRecord{PayeeName: "Prejemnik", Amount: "1.011,23"},
		Payload:  "UPNQR\n...\n100\n",
		Checksum: "100",
		Image:    pngMagic,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Errors  []FieldError    `json:"errors"`
}

func TestUPNHandler_Generate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		path           string
		accept         string
		setupMock      func(*MockUPNService)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "success returns base64 image",
			body: `{"payee_name":"Prejemnik"}`,
			path: "/api/v1/upn-qr",
			setupMock: func(m *MockUPNService) {
				m.On("Generate", mock.Anything, mock.MatchedBy(func(input map[string]any) bool {
					return input["payee_name"] == "Prejemnik"
				})).Return(sampleResult(), nil, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var env envelope
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
				assert.True(t, env.Success)

				var data GenerateResponse
				require.NoError(t, json.Unmarshal(env.Data, &data))
				assert.Equal(t, Name, data.Name)
				assert.Equal(t, "100", data.Checksum)
				assert.True(t, data.Amount.Equal(decimal.RequireFromString("1011.23")))

				image, err := base64.StdEncoding.DecodeString(data.QRCode)
				require.NoError(t, err)
				assert.Equal(t, pngMagic, image)
			},
		},
		{
			name:   "accept header selects raw PNG",
			body:   `{}`,
			path:   "/api/v1/upn-qr",
			accept: "image/png",
			setupMock: func(m *MockUPNService) {
				m.On("Generate", mock.Anything, mock.Anything).Return(sampleResult(), nil, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
				assert.Equal(t, pngMagic, w.Body.Bytes())
			},
		},
		{
			name: "format query selects raw PNG",
			body: `{}`,
			path: "/api/v1/upn-qr?format=png",
			setupMock: func(m *MockUPNService) {
				m.On("Generate", mock.Anything, mock.Anything).Return(sampleResult(), nil, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
			},
		},
		{
			name: "validation errors are listed",
			body: `{"amount":"1,234"}`,
			path: "/api/v1/upn-qr",
			setupMock: func(m *MockUPNService) {
				m.On("Generate", mock.Anything, mock.Anything).Return(nil, []domain.ValidationError{
					{Path: []string{"payer_name"}, Message: "is a required property"},
					{Path: []string{"amount"}, Message: `"1,234" is not a "amount-slo"`},
				}, nil).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var env envelope
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
				assert.False(t, env.Success)
				assert.Equal(t, customError.ErrCodeValidationFailed, env.Code)
				require.Len(t, env.Errors, 2)
				assert.Equal(t, "payer_name", env.Errors[0].Field)
				assert.Equal(t, []string{"amount"}, env.Errors[1].Path)
			},
		},
		{
			name:           "array body is rejected",
			body:           `[1, 2]`,
			path:           "/api/v1/upn-qr",
			setupMock:      func(m *MockUPNService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var env envelope
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
				assert.Equal(t, customError.ErrCodeInvalidRequestBody, env.Code)
			},
		},
		{
			name:           "null body is rejected",
			body:           `null`,
			path:           "/api/v1/upn-qr",
			setupMock:      func(m *MockUPNService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "trailing data is rejected",
			body:           `{} {}`,
			path:           "/api/v1/upn-qr",
			setupMock:      func(m *MockUPNService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "render failure",
			body: `{}`,
			path: "/api/v1/upn-qr",
			setupMock: func(m *MockUPNService) {
				m.On("Generate", mock.Anything, mock.Anything).
					Return(nil, nil, customError.WrapRenderFailed(errors.New("content too long"))).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var env envelope
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
				assert.Equal(t, customError.ErrCodeRenderFailed, env.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockUPNService{}
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()

			newTestRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUPNHandler_Payload(t *testing.T) {
	svc := &MockUPNService{}
	svc.On("Encode", mock.Anything).Return(&service.PayloadResult{
		Record:   domain.PaymentRecord{Amount: "11,23"},
		Payload:  "UPNQR\n",
		Checksum: "100",
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upn-qr/payload", strings.NewReader(`{"amount":"11,23"}`))
	w := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var data PayloadResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "UPNQR\n", data.Payload)
	assert.Equal(t, "100", data.Checksum)
	assert.True(t, data.Amount.Equal(decimal.RequireFromString("11.23")))
	svc.AssertExpectations(t)
}

func TestUPNHandler_Validate(t *testing.T) {
	tests := []struct {
		name           string
		errs           []domain.ValidationError
		expectedStatus int
	}{
		{name: "valid record", expectedStatus: http.StatusOK},
		{
			name:           "invalid record",
			errs:           []domain.ValidationError{{Path: []string{"payee_name"}, Message: "is a required property"}},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockUPNService{}
			svc.On("Validate", mock.Anything).Return(tt.errs).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/upn-qr/validate", strings.NewReader(`{}`))
			w := httptest.NewRecorder()
			newTestRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	w := httptest.NewRecorder()
	newTestRouter(&MockUPNService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Preflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/upn-qr", nil)
	w := httptest.NewRecorder()
	newTestRouter(&MockUPNService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
