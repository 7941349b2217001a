package calculator

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCurrency renders v as US dollars with grouping and two fraction
// digits: 1234.5 -> "$1,234.50". NaN and infinities render as "$0.00".
func FormatCurrency(v float64) string {
	v = Finite(v)

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	p := message.NewPrinter(language.AmericanEnglish)
	return sign + "$" + p.Sprintf("%.2f", v)
}
