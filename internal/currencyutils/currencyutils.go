// Package currencyutils parses and formats monetary amounts.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/expense-app/internal/textutils"
)

// ErrEmptyAmount is returned for blank or placeholder cells.
var ErrEmptyAmount = errors.New("empty amount")

var (
	currencyCodeRe   = regexp.MustCompile(`(?i)\b(CHF|EUR|USD|GBP)\b`)
	currencySymbolRe = regexp.MustCompile(`[€$£¥₣₤₹₺₽₩฿₫₴₪\s\x{00A0}\x{202F}'’]`)
)

// ParseAmount parses a textual amount into a decimal.
//
// It accepts "1234.56", "-45,67", "1.234,56", "1,234.56", "CHF 1'234.50",
// "€ 12,00" and a trailing minus ("45,67-"). Blank and placeholder values
// return ErrEmptyAmount.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if textutils.IsNullLike(amountStr) {
		return decimal.Zero, ErrEmptyAmount
	}

	standardized := StandardizeAmount(amountStr)
	if standardized == "" || standardized == "-" || standardized == "+" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': no digits", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount rewrites a locale formatted amount into the plain
// "-1234.56" form understood by decimal.NewFromString.
//
// When both separators are present the rightmost one is the decimal mark.
// A lone comma is a decimal comma; repeated commas or repeated dots are
// thousands separators; a lone dot is a decimal point.
func StandardizeAmount(amountStr string) string {
	s := currencyCodeRe.ReplaceAllString(amountStr, "")
	s = currencySymbolRe.ReplaceAllString(s, "")

	negative := false
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}
	s = strings.TrimPrefix(s, "+")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	if negative && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// FormatAmount formats an amount with two decimals and an optional currency.
// Returns strings like "CHF 1234.56" or "€1234.56".
func FormatAmount(amount decimal.Decimal, currency string) string {
	formattedAmount := amount.StringFixed(2)

	if currency != "" {
		switch strings.ToUpper(currency) {
		case "EUR":
			return "€" + formattedAmount
		case "USD":
			return "$" + formattedAmount
		case "GBP":
			return "£" + formattedAmount
		case "CHF":
			return "CHF " + formattedAmount
		default:
			return currency + " " + formattedAmount
		}
	}

	return formattedAmount
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
