package domain

import (
	"fmt"
	"strconv"
)

// Field names of the flat input mapping
const (
	FieldPayerName      = "payer_name"
	FieldPayerStreet    = "payer_street"
	FieldPayerCity      = "payer_city"
	FieldAmount         = "amount"
	FieldPurposeCode    = "purpose_code"
	FieldPurposeText    = "purpose_text"
	FieldDueDate        = "due_date"
	FieldPayeeIBAN      = "payee_iban"
	FieldPayeeReference = "payee_reference"
	FieldPayeeName      = "payee_name"
	FieldPayeeStreet    = "payee_street"
	FieldPayeeCity      = "payee_city"
)

// FieldNames lists the record fields in UPN form order.
var FieldNames = []string{
	FieldPayerName,
	FieldPayerStreet,
	FieldPayerCity,
	FieldAmount,
	FieldPurposeCode,
	FieldPurposeText,
	FieldDueDate,
	FieldPayeeIBAN,
	FieldPayeeReference,
	FieldPayeeName,
	FieldPayeeStreet,
	FieldPayeeCity,
}

// PaymentRecord represents a UPN payment order
//
//	Field              | Length   | Filling
//	Payer name         | max 33   | required
//	Payer street       | max 33   | required
//	Payer city         | max 33   | required
//	Amount             | max 11   | required, format "***#.##0,00"
//	Purpose code       | exactly 4| required, from the purpose code list
//	Purpose text       | max 42   | required
//	Due date           |          | optional, "DD.MM.YYYY" or empty
//	Payee IBAN         | max 34   | required, "SI56 9999 9999 9999 999"
//	Payee reference    | max 26   | required, model (SI or RF) and number
//	Payee name         | max 33   | required
//	Payee street       | max 33   | required
//	Payee city         | max 33   | required
type PaymentRecord struct {
	PayerName      string `json:"payer_name"`
	PayerStreet    string `json:"payer_street"`
	PayerCity      string `json:"payer_city"`
	Amount         string `json:"amount"`
	PurposeCode    string `json:"purpose_code"`
	PurposeText    string `json:"purpose_text"`
	DueDate        string `json:"due_date"`
	PayeeIBAN      string `json:"payee_iban"`
	PayeeReference string `json:"payee_reference"`
	PayeeName      string `json:"payee_name"`
	PayeeStreet    string `json:"payee_street"`
	PayeeCity      string `json:"payee_city"`
}

// NewPaymentRecord maps known keys of source onto a record.
// Unknown keys are ignored; missing and null values become empty strings.
func NewPaymentRecord(source map[string]any) PaymentRecord {
	get := func(key string) string {
		return Text(source[key])
	}

	return PaymentRecord{
		PayerName:      get(FieldPayerName),
		PayerStreet:    get(FieldPayerStreet),
		PayerCity:      get(FieldPayerCity),
		Amount:         get(FieldAmount),
		PurposeCode:    get(FieldPurposeCode),
		PurposeText:    get(FieldPurposeText),
		DueDate:        get(FieldDueDate),
		PayeeIBAN:      get(FieldPayeeIBAN),
		PayeeReference: get(FieldPayeeReference),
		PayeeName:      get(FieldPayeeName),
		PayeeStreet:    get(FieldPayeeStreet),
		PayeeCity:      get(FieldPayeeCity),
	}
}

// ToMap returns the record as a flat field mapping
func (r PaymentRecord) ToMap() map[string]any {
	return map[string]any{
		FieldPayerName:      r.PayerName,
		FieldPayerStreet:    r.PayerStreet,
		FieldPayerCity:      r.PayerCity,
		FieldAmount:         r.Amount,
		FieldPurposeCode:    r.PurposeCode,
		FieldPurposeText:    r.PurposeText,
		FieldDueDate:        r.DueDate,
		FieldPayeeIBAN:      r.PayeeIBAN,
		FieldPayeeReference: r.PayeeReference,
		FieldPayeeName:      r.PayeeName,
		FieldPayeeStreet:    r.PayeeStreet,
		FieldPayeeCity:      r.PayeeCity,
	}
}

// Text renders a raw input value as a string; nil becomes "".
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
