// Package formatter renders receipts as fixed-width plain text, the way they are printed
// on a till roll. All widths are counted in runes.
package formatter

import (
	"fmt"          // Number formatting
	"strings"      // Padding and word splitting
	"unicode/utf8" // Rune counting for Cyrillic labels

	"receipt_system/internal/domain" // Importing domain models
)

const (
	DefaultWidth = 50                    // Characters per line when none is given
	MaxWidth     = 1000                  // Widest line Format will render
	DateLayout   = "02.01.2006 15:04:05" // Footer date format

	// wrapMargin columns are kept free on wrapped name lines.
	wrapMargin = 5
)

// Labels holds the localised words printed on a receipt.
type Labels struct {
	BusinessMarker string // Prefix of the issuer line
	Total          string // Receipt total
	Card           string // Amount paid by card
	Cash           string // Amount paid in cash
	Change         string // Change returned
	ThankYou       string // Footer message
}

var (
	Ukrainian = Labels{
		BusinessMarker: "ФОП",
		Total:          "СУМА",
		Card:           "Картка",
		Cash:           "Готівка",
		Change:         "Решта",
		ThankYou:       "Дякуємо за покупку!",
	}
	English = Labels{
		BusinessMarker: "FOP",
		Total:          "TOTAL",
		Card:           "Card",
		Cash:           "Cash",
		Change:         "Change",
		ThankYou:       "Thank you for your purchase!",
	}
)

// LabelsFor maps a lang query value to labels. Anything but "en" is Ukrainian.
func LabelsFor(lang string) Labels {
	if strings.EqualFold(lang, "en") {
		return English
	}
	return Ukrainian
}

// IssuerName builds the header line, e.g. "ФОП TARAS SHEVCHENKO".
func IssuerName(labels Labels, firstName, lastName string) string {
	return labels.BusinessMarker + " " + strings.ToUpper(firstName) + " " + strings.ToUpper(lastName)
}

// Format renders r. The output is a pure function of its arguments.
// A non-positive width falls back to DefaultWidth and a width above MaxWidth is capped.
func Format(r domain.Receipt, issuer string, width int, labels Labels) string {
	// Fall back to the default line width
	if width <= 0 {
		width = DefaultWidth
	}
	width = min(width, MaxWidth) // Bound the output size
	var b strings.Builder        // Rendered receipt
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line("")                         // Leading blank line
	line(center(issuer, width))      // Issuer header
	line(strings.Repeat("=", width)) // Header rule

	// One block per line item
	for _, item := range r.Products {
		line(fmt.Sprintf("%.2f x %.2f", item.Quantity, item.Price)) // Quantity and unit price
		for _, l := range itemLines(item.Name, money(item.Total), width) {
			line(l)
		}
		line(strings.Repeat("-", width)) // Item separator
	}

	line(strings.Repeat("=", width))                    // Totals rule
	line(labelled(labels.Total, money(r.Total), width)) // Receipt total
	paid := labels.Cash                                 // Payment label
	if r.Payment.Type == domain.PaymentCashless {
		paid = labels.Card
	}
	line(labelled(paid, money(r.Payment.Amount), width)) // Amount paid
	line(labelled(labels.Change, money(r.Rest), width))  // Change
	line(strings.Repeat("=", width))                     // Footer rule

	line(center(r.CreatedAt.Format(DateLayout), width)) // Creation time
	line(center(labels.ThankYou, width))                // Thank-you message
	return b.String()
}

// itemLines lays out a product name with its amount on the last line.
// Names that do not fit next to the amount are wrapped greedily on word boundaries.
func itemLines(name, amount string, width int) []string {
	field := max(width-runeLen(amount), 0) // Columns left for the name
	// Short names share the line with the amount
	if runeLen(name) < field {
		return []string{ljust(name, field) + amount}
	}

	limit := field - wrapMargin // Wrapped lines stop short of the amount column
	var lines, cur []string     // Finished lines and the line being filled
	used := 0                   // Columns used by cur, one space per word
	for _, w := range strings.Fields(name) {
		n := runeLen(w) + 1 // Word plus separator
		// Flush the current line when the word does not fit
		if len(cur) > 0 && used+n >= limit {
			lines = append(lines, strings.Join(cur, " "))
			cur, used = nil, 0
		}
		// a word longer than the limit still goes on a line by itself
		cur = append(cur, w)
		used += n
	}

	last := strings.Join(cur, " ") // Line that carries the amount
	// Too long for the amount: print it right-aligned below
	if runeLen(last) > field {
		return append(lines, last, rjust(amount, width))
	}
	return append(lines, ljust(last, field)+amount)
}

func labelled(label, value string, width int) string {
	return ljust(label, width-runeLen(value)) + value
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func ljust(s string, width int) string {
	if pad := width - runeLen(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func rjust(s string, width int) string {
	if pad := width - runeLen(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// center pads s to width; an odd leftover space goes to the right.
func center(s string, width int) string {
	pad := width - runeLen(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
