package upn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/segyhp/upn-qr/internal/domain"
)

var (
	ErrMalformedPayload = errors.New("malformed UPN payload")
	ErrChecksumMismatch = errors.New("UPN payload checksum mismatch")
)

// Decode parses a payload produced by Encode back into a record.
// The amount is returned in comma-decimal notation without thousands separators.
func Decode(payload string) (domain.PaymentRecord, error) {
	if !strings.HasSuffix(payload, "\n") {
		return domain.PaymentRecord{}, fmt.Errorf("%w: missing trailing newline", ErrMalformedPayload)
	}

	lines := strings.Split(strings.TrimSuffix(payload, "\n"), "\n")
	if len(lines) != FieldCount+1 {
		return domain.PaymentRecord{}, fmt.Errorf("%w: expected %d lines, got %d", ErrMalformedPayload, FieldCount+1, len(lines))
	}

	fields, checksum := lines[:FieldCount], lines[FieldCount]
	if fields[PosHeader] != Header {
		return domain.PaymentRecord{}, fmt.Errorf("%w: header %q", ErrMalformedPayload, fields[PosHeader])
	}

	block := strings.Join(fields, "\n") + "\n"
	if expected := Checksum(block); checksum != expected {
		return domain.PaymentRecord{}, fmt.Errorf("%w: got %s, expected %s", ErrChecksumMismatch, checksum, expected)
	}

	return domain.PaymentRecord{
		PayerName:      fields[PosPayerName],
		PayerStreet:    fields[PosPayerStreet],
		PayerCity:      fields[PosPayerCity],
		Amount:         ParseAmount(fields[PosAmount]),
		PurposeCode:    fields[PosPurposeCode],
		PurposeText:    fields[PosPurposeText],
		DueDate:        fields[PosDueDate],
		PayeeIBAN:      fields[PosPayeeIBAN],
		PayeeReference: fields[PosPayeeReference],
		PayeeName:      fields[PosPayeeName],
		PayeeStreet:    fields[PosPayeeStreet],
		PayeeCity:      fields[PosPayeeCity],
	}, nil
}

// ParseAmount turns a minor-unit amount field back into comma-decimal notation,
// "00000001123" becomes "11,23".
func ParseAmount(field string) string {
	digits := strings.TrimLeft(field, "0")
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	return digits[:len(digits)-2] + "," + digits[len(digits)-2:]
}
