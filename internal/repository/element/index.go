package element

import (
	"strconv"
	"strings"
)

var romanValues = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// FormatIndex renders a one-based position in the component's index style:
// "dec" gives 1, 2, 3; "roman" gives I, II, III; "char" gives a..z, aa, ab
// like spreadsheet columns. Unknown styles fall back to decimal.
func FormatIndex(indexType string, n int) string {
	if n < 1 {
		n = 1
	}
	switch indexType {
	case "roman":
		var b strings.Builder
		for _, rv := range romanValues {
			for n >= rv.value {
				b.WriteString(rv.symbol)
				n -= rv.value
			}
		}
		return b.String()
	case "char":
		var b []byte
		for n > 0 {
			n--
			b = append([]byte{byte('a' + n%26)}, b...)
			n /= 26
		}
		return string(b)
	default:
		return strconv.Itoa(n)
	}
}
