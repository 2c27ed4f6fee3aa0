// Package salary turns scraped salary text into display and comparison forms.
package salary

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// NotSpecified is the placeholder some sources print instead of a salary.
const NotSpecified = "Salary not specified"

const DefaultCurrencySymbol = "₹"

// MaxComparable is the ceiling for a comparable number. It matches the
// INTEGER min_salary column so any stored threshold can still be met.
const MaxComparable = math.MaxInt32

var digitRun = regexp.MustCompile(`\d+`)

type Normalizer struct {
	currency string
}

func NewNormalizer(currencySymbol string) Normalizer {
	if strings.TrimSpace(currencySymbol) == "" {
		currencySymbol = DefaultCurrencySymbol
	}
	return Normalizer{currency: currencySymbol}
}

func absent(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || strings.EqualFold(raw, NotSpecified)
}

// ToDisplayForm swaps a dollar sign for the configured symbol. It is a label
// substitution only; amounts are not converted.
func (n Normalizer) ToDisplayForm(raw string) *string {
	if absent(raw) {
		return nil
	}
	out := raw
	if strings.Contains(raw, "$") {
		out = strings.ReplaceAll(raw, "$", n.currency)
	}
	return &out
}

// ToComparableNumber returns the truncated mean of every digit run in raw
// after currency symbols and thousands separators are removed, or 0. Runs
// larger than MaxComparable count as MaxComparable.
func (n Normalizer) ToComparableNumber(raw string) int {
	if absent(raw) {
		return 0
	}
	cleaned := strings.NewReplacer(n.currency, "", DefaultCurrencySymbol, "", "$", "", ",", "").Replace(raw)

	var sum, count int64
	for _, run := range digitRun.FindAllString(cleaned, -1) {
		sum += saturate(run)
		count++
	}
	if count == 0 {
		return 0
	}
	return int(sum / count)
}

func saturate(run string) int64 {
	run = strings.TrimLeft(run, "0")
	if run == "" {
		return 0
	}
	if len(run) > 10 {
		return MaxComparable
	}
	v, err := strconv.ParseInt(run, 10, 64)
	if err != nil || v > MaxComparable {
		return MaxComparable
	}
	return v
}

// Display and Comparable use the default currency symbol.
func Display(raw string) *string { return NewNormalizer("").ToDisplayForm(raw) }

func Comparable(raw string) int { return NewNormalizer("").ToComparableNumber(raw) }
