package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatFCFA renders an integer amount as "FCFA 20,000".
func FormatFCFA(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%sFCFA %s", sign, formatThousand(amount))
}

// ParseFCFA parses "FCFA 20,000", "20 000" or "20000" into an integer amount.
func ParseFCFA(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "fcfa")
	s = strings.TrimSuffix(s, "fcfa")
	replacer := strings.NewReplacer(".", "", ",", "", " ", "", "\u00a0", "")
	s = replacer.Replace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid amount")
	}
	return strconv.ParseInt(s, 10, 64)
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
