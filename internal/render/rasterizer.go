// Package render turns UPN payloads into QR code images.
//
// Payloads are transcoded to ISO 8859-2, the character set UPN scanners
// expect, before they are encoded with github.com/skip2/go-qrcode.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrEmptyPayload         = errors.New("payload cannot be empty")
	ErrInvalidRecoveryLevel = errors.New("invalid recovery level")
)

// Defaults sized for the fixed UPN payload
const (
	DefaultVersion       = 15
	DefaultModuleSize    = 10
	DefaultRecoveryLevel = "M"

	// BorderModules is the quiet zone go-qrcode draws around the symbol
	BorderModules = 4
)

// Rasterizer encodes a payload into a PNG image
type Rasterizer interface {
	Render(ctx context.Context, payload string) ([]byte, error)
}

// Options configures the QR symbol
type Options struct {
	// Version is the forced symbol version (1-40)
	Version int
	// RecoveryLevel is one of L, M, Q or H
	RecoveryLevel string
	// ModuleSize is the edge length of one module in pixels
	ModuleSize int
	// DisableBorder removes the quiet zone
	DisableBorder bool
}

// DefaultOptions returns version 15, recovery level M, 10px modules and a 4 module border
func DefaultOptions() Options {
	return Options{
		Version:       DefaultVersion,
		RecoveryLevel: DefaultRecoveryLevel,
		ModuleSize:    DefaultModuleSize,
	}
}

// Key identifies the options in cache keys
func (o Options) Key() string {
	return fmt.Sprintf("v%d-%s-m%d-b%t", o.Version, strings.ToUpper(o.RecoveryLevel), o.ModuleSize, !o.DisableBorder)
}

// QRRasterizer renders payloads with go-qrcode
type QRRasterizer struct {
	opts  Options
	level skipqrcode.RecoveryLevel
}

// NewQRRasterizer validates opts and returns a rasterizer
func NewQRRasterizer(opts Options) (*QRRasterizer, error) {
	level, err := ParseRecoveryLevel(opts.RecoveryLevel)
	if err != nil {
		return nil, err
	}
	if opts.Version < 1 || opts.Version > 40 {
		return nil, fmt.Errorf("invalid QR version %d: must be between 1 and 40", opts.Version)
	}
	if opts.ModuleSize <= 0 {
		opts.ModuleSize = DefaultModuleSize
	}

	return &QRRasterizer{opts: opts, level: level}, nil
}

// Options returns the effective rasterizer options
func (r *QRRasterizer) Options() Options {
	return r.opts
}

// Render encodes payload into a PNG. The payload is transcoded to ISO 8859-2 first.
func (r *QRRasterizer) Render(ctx context.Context, payload string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	content, err := ToLatin2(payload)
	if err != nil {
		return nil, err
	}

	q, err := skipqrcode.NewWithForcedVersion(content, r.opts.Version, r.level)
	if err != nil {
		return nil, fmt.Errorf("encode QR symbol: %w", err)
	}
	q.DisableBorder = r.opts.DisableBorder

	// a negative size is interpreted by go-qrcode as pixels per module
	png, err := q.PNG(-r.opts.ModuleSize)
	if err != nil {
		return nil, fmt.Errorf("write PNG: %w", err)
	}

	return png, nil
}

// ParseRecoveryLevel maps L, M, Q and H to go-qrcode recovery levels
func ParseRecoveryLevel(level string) (skipqrcode.RecoveryLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "L":
		return skipqrcode.Low, nil
	case "M", "":
		return skipqrcode.Medium, nil
	case "Q":
		return skipqrcode.High, nil
	case "H":
		return skipqrcode.Highest, nil
	default:
		return 0, fmt.Errorf("%w %q: must be L, M, Q or H", ErrInvalidRecoveryLevel, level)
	}
}

// ToLatin2 transcodes s to ISO 8859-2. Characters outside the charset are
// replaced, so the byte length always equals the character count of s.
func ToLatin2(s string) (string, error) {
	enc := encoding.ReplaceUnsupported(charmap.ISO8859_2.NewEncoder())
	out, err := enc.String(s)
	if err != nil {
		return "", fmt.Errorf("transcode payload to ISO 8859-2: %w", err)
	}
	return out, nil
}
