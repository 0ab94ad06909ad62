// Package isbn normalises ISBNs and converts between the 10 and 13 digit forms.
package isbn

import (
	"strconv"
	"strings"
)

// Normalize strips hyphens and spaces and upper-cases a trailing x
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteRune('X')
		case r == '-' || r == ' ':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// To13 converts an ISBN-10 to ISBN-13 by prepending 978 and computing the check digit.
// Returns an empty string if the input is not a valid ISBN-10.
func To13(isbn10 string) string {
	if len(isbn10) != 10 || !Valid10(isbn10) {
		return ""
	}
	base := "978" + isbn10[:9]
	return base + strconv.Itoa(check13(base))
}

// To10 converts a 978-prefixed ISBN-13 to ISBN-10.
// Returns an empty string if the input is not a convertible ISBN-13.
func To10(isbn13 string) string {
	if len(isbn13) != 13 || !strings.HasPrefix(isbn13, "978") {
		return ""
	}
	base := isbn13[3:12]
	sum := 0
	for i, c := range base {
		d, err := strconv.Atoi(string(c))
		if err != nil {
			return ""
		}
		sum += d * (10 - i)
	}
	check := (11 - sum%11) % 11
	if check == 10 {
		return base + "X"
	}
	return base + strconv.Itoa(check)
}

// Valid10 reports whether s is an ISBN-10 with a correct check digit
func Valid10(s string) bool {
	if len(s) != 10 {
		return false
	}
	sum := 0
	for i, c := range s {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c == 'X' && i == 9:
			d = 10
		default:
			return false
		}
		sum += d * (10 - i)
	}
	return sum%11 == 0
}

// Valid13 reports whether s is an ISBN-13 with a correct check digit
func Valid13(s string) bool {
	if len(s) != 13 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return check13(s[:12]) == int(s[12]-'0')
}

// Canonical returns the 13 digit form of s when it is a valid ISBN, and the
// normalised input otherwise.
func Canonical(s string) string {
	n := Normalize(s)
	if Valid13(n) {
		return n
	}
	if c := To13(n); c != "" {
		return c
	}
	return n
}

// Equivalent reports whether a and b name the same book
func Equivalent(a, b string) bool {
	ca, cb := Canonical(a), Canonical(b)
	return ca != "" && ca == cb
}

func check13(base string) int {
	sum := 0
	for i, c := range base {
		d := int(c - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return (10 - sum%10) % 10
}
