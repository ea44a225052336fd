package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Number renders f with thousands separators and the given number of decimals.
func Number(f float64, decimals int) string {
	return printer.Sprintf("%.*f", decimals, f)
}

// Int renders n with thousands separators.
func Int(n int) string {
	return printer.Sprintf("%d", n)
}

// Delta renders a signed score difference, "+N", "-N" or "0".
func Delta(d int) string {
	if d > 0 {
		return fmt.Sprintf("+%d", d)
	}
	return fmt.Sprint(d)
}

// Score renders a category score as "N/100".
func Score(n int) string {
	return fmt.Sprintf("%d/100", n)
}

// Label turns an identifier such as "best-practices" into "Best Practices".
func Label(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}

// Grade buckets an overall score the way the dashboard colors it.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "good"
	case score >= 50:
		return "needs improvement"
	default:
		return "poor"
	}
}
