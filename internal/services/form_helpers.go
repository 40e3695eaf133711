package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Fixed display formats for the date and time form fields.
const (
	displayDateFormat = "02/01/2006"
	displayTimeFormat = "15:04"
)

// maxAmountDigits caps amount entry at 8 digits of minor units.
const maxAmountDigits = 8

// normalizeAmountInput turns raw amount text into a minor-unit count:
// currency symbols and separators are stripped, only digits count. Empty
// input means zero; input beyond the digit cap keeps the previous value.
func normalizeAmountInput(input string, previous int64) int64 {
	var digits strings.Builder
	for _, r := range input {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0
	}
	if digits.Len() > maxAmountDigits {
		return previous
	}

	cents, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return previous
	}
	return cents
}

// formatCents renders a minor-unit count as "units.hundredths".
func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// centsToAmount converts minor units to a major-unit decimal, exactly.
func centsToAmount(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// amountToCents converts a stored major-unit amount back to minor units.
func amountToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// filterCategories narrows the known category list by a case-insensitive
// substring match. A blank query returns the whole list.
func filterCategories(all []string, query string) []string {
	if strings.TrimSpace(query) == "" {
		return all
	}
	filtered := make([]string, 0, len(all))
	for _, category := range all {
		if strings.Contains(strings.ToLower(category), strings.ToLower(query)) {
			filtered = append(filtered, category)
		}
	}
	return filtered
}

// showCreateNew reports whether the "create new category" suggestion
// applies: a non-blank query with no exact case-insensitive match.
func showCreateNew(filtered []string, query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	for _, category := range filtered {
		if strings.EqualFold(category, query) {
			return false
		}
	}
	return true
}

// parseDisplayDateTime parses the combined date and time display strings
// in the local time zone.
func parseDisplayDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(displayDateFormat+" "+displayTimeFormat, date+" "+clock, time.Local)
}

// currentMonthRange returns the default date scope: start of the current
// calendar month through the end of the current day, in local time.
func currentMonthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return start, end
}
