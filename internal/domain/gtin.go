package domain

// ValidGTIN reports whether s is a syntactically valid GTIN-13: exactly 13
// digits with a correct mod-10 check digit (weights alternate 1 and 3 from
// the leftmost digit).
func ValidGTIN(s string) bool {
	if len(s) != 13 {
		return false
	}

	var sum int
	for i := 0; i < 12; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}

	last := s[12]
	if last < '0' || last > '9' {
		return false
	}
	check := (10 - sum%10) % 10
	return int(last-'0') == check
}
