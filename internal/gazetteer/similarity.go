package gazetteer

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Ratio is the normalized Indel similarity of a and b in [0,100]:
// 100 * (1 - d/(|a|+|b|)) where d is the insert/delete edit distance
// over runes. Two empty strings are identical.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	d := total - 2*edlib.LCS(a, b)
	return 100 * (1 - float64(d)/float64(total))
}
