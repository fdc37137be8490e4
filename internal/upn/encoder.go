// Package upn builds the UPN QR text payload: 19 newline-terminated fields
// followed by a 3-digit checksum line holding the character count of the fields.
package upn

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/segyhp/upn-qr/internal/domain"
)

const (
	// Header is the leading identifier of every payload
	Header = "UPNQR"

	// FieldCount is the number of positional fields before the checksum
	FieldCount = 19

	// AmountWidth is the zero-padded width of the amount field
	AmountWidth = 11
)

// Positions of the payload fields. Positions 1-4 and 9-10 are reserved and empty.
const (
	PosHeader = iota
	_
	_
	_
	_
	PosPayerName
	PosPayerStreet
	PosPayerCity
	PosAmount
	_
	_
	PosPurposeCode
	PosPurposeText
	PosDueDate
	PosPayeeIBAN
	PosPayeeReference
	PosPayeeName
	PosPayeeStreet
	PosPayeeCity
)

// Fields returns the 19 positional payload fields of record.
func Fields(record domain.PaymentRecord) []string {
	fields := make([]string, FieldCount)
	fields[PosHeader] = Header
	fields[PosPayerName] = record.PayerName
	fields[PosPayerStreet] = record.PayerStreet
	fields[PosPayerCity] = record.PayerCity
	fields[PosAmount] = FormatAmount(record.Amount)
	fields[PosPurposeCode] = record.PurposeCode
	fields[PosPurposeText] = record.PurposeText
	fields[PosDueDate] = record.DueDate
	fields[PosPayeeIBAN] = stripSpaces(record.PayeeIBAN)
	fields[PosPayeeReference] = stripSpaces(record.PayeeReference)
	fields[PosPayeeName] = record.PayeeName
	fields[PosPayeeStreet] = record.PayeeStreet
	fields[PosPayeeCity] = record.PayeeCity
	return fields
}

// Encode builds the payload of a validated record.
// Records that did not pass validation produce an unspecified payload.
func Encode(record domain.PaymentRecord) string {
	block := strings.Join(Fields(record), "\n") + "\n"
	return block + Checksum(block) + "\n"
}

// Checksum formats the character count of block as a 3-digit number
func Checksum(block string) string {
	return fmt.Sprintf("%03d", utf8.RuneCountInString(block))
}

// FormatAmount converts a Slovenian amount to zero-padded minor units:
// "213,23" becomes "00000021323" and "11" becomes "00000001100".
func FormatAmount(amount string) string {
	if !strings.Contains(amount, ",") {
		amount += "00"
	}
	digits := strings.NewReplacer(",", "", ".", "").Replace(amount)
	if len(digits) >= AmountWidth {
		return digits
	}
	return strings.Repeat("0", AmountWidth-len(digits)) + digits
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
