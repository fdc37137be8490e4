package validation

import (
	"math/big"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Format names referenced from schema documents
const (
	FormatDateSLO        = "date-slo"
	FormatAmountSLO      = "amount-slo"
	FormatIBAN           = "iban"
	FormatReferenceModel = "reference-model"
)

// dateSLOLayout accepts padded and unpadded day and month with a 4-digit year
const dateSLOLayout = "2.1.2006"

// FormatFunc reports whether value satisfies a named format.
type FormatFunc func(value string) bool

// Formats is an immutable registry of format predicates keyed by format name.
type Formats struct {
	checks map[string]FormatFunc
}

// NewFormats copies checks into a new registry
func NewFormats(checks map[string]FormatFunc) Formats {
	copied := make(map[string]FormatFunc, len(checks))
	for name, fn := range checks {
		if fn != nil {
			copied[name] = fn
		}
	}
	return Formats{checks: copied}
}

// DefaultFormats returns the registry with all UPN formats
func DefaultFormats() Formats {
	return NewFormats(map[string]FormatFunc{
		FormatDateSLO:        DateSLO,
		FormatAmountSLO:      AmountSLO,
		FormatIBAN:           IBAN,
		FormatReferenceModel: ReferenceModel,
	})
}

// Lookup returns the predicate registered under name
func (f Formats) Lookup(name string) (FormatFunc, bool) {
	fn, ok := f.checks[name]
	return fn, ok
}

// Names returns the registered format names, sorted
func (f Formats) Names() []string {
	names := make([]string, 0, len(f.checks))
	for name := range f.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DateSLO accepts dates written as day.month.year, e.g. "26.7.2020" or "01.01.2021".
func DateSLO(value string) bool {
	_, err := time.Parse(dateSLOLayout, value)
	return err == nil
}

// AmountSLO accepts Slovenian amounts: "." as thousands separator and an
// optional "," followed by exactly two decimal digits.
// An amount without a comma is a whole-unit amount.
func AmountSLO(value string) bool {
	parts := strings.Split(value, ",")
	if len(parts) > 2 {
		return false
	}
	if len(parts) == 2 && (len(parts[1]) != 2 || !isDigits(parts[1])) {
		return false
	}
	return isDigits(strings.ReplaceAll(parts[0], ".", ""))
}

// IBAN validates the ISO 13616 mod-97 check digits, ignoring spaces.
func IBAN(value string) bool {
	iban := strings.ToUpper(strings.ReplaceAll(value, " ", ""))
	if len(iban) < 15 || len(iban) > 34 {
		return false
	}
	if !isLetters(iban[:2]) || !isDigits(iban[2:4]) {
		return false
	}
	return mod97(iban[4:]+iban[:4]) == 1
}

var referencePattern = regexp.MustCompile(`^(SI|RF)[0-9]{2}[0-9A-Z-]+$`)

// ReferenceModel accepts references starting with the SI or RF model, ignoring spaces.
func ReferenceModel(value string) bool {
	return referencePattern.MatchString(strings.ToUpper(strings.ReplaceAll(value, " ", "")))
}

func mod97(s string) int64 {
	var digits strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			digits.WriteString(strconv.Itoa(int(r-'A') + 10))
		default:
			return -1
		}
	}
	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return -1
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return s != ""
}
