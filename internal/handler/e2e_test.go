package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/upn-qr/internal/render"
	"github.com/segyhp/upn-qr/internal/service"
	"github.com/segyhp/upn-qr/internal/validation"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v, err := validation.New(validation.DefaultSchema(), validation.DefaultFormats())
	require.NoError(t, err)
	rasterizer, err := render.NewQRRasterizer(render.DefaultOptions())
	require.NoError(t, err)

	svc := service.NewUPNService(v, rasterizer, logger)
	router := NewRouter(NewUPNHandler(svc, logger), NewHealthHandler(v.Schema().Title, nil), logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body map[string]any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestEndToEnd(t *testing.T) {
	server := setupServer(t)

	record := map[string]any{
		"payer_name":      "Ime",
		"payer_street":    "Ulica",
		"payer_city":      "Kraj",
		"amount":          "11,23",
		"purpose_code":    "OTHR",
		"purpose_text":    "Namen",
		"due_date":        "26.7.2020",
		"payee_iban":      "SI56 0000",
		"payee_reference": "SI00 123",
		"payee_name":      "Prejemnik",
		"payee_street":    "Ulica2",
		"payee_city":      "Kraj2",
	}

	t.Run("generate", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/v1/upn-qr", record)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Success bool             `json:"success"`
			Data    GenerateResponse `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.Equal(t, "100", body.Data.Checksum)

		image, err := base64.StdEncoding.DecodeString(body.Data.QRCode)
		require.NoError(t, err)
		assert.Equal(t, "image/png", http.DetectContentType(image))
	})

	t.Run("raw png", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/v1/upn-qr?format=png", record)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	})

	t.Run("invalid record", func(t *testing.T) {
		invalid := map[string]any{"amount": "11,2"}
		resp := postJSON(t, server.URL+"/api/v1/upn-qr", invalid)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var body envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		// eleven required fields minus amount, plus the amount format
		assert.Len(t, body.Errors, 11)
	})

	t.Run("ready", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/health/ready")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
