package common

import (
	"strconv"
	"strings"
)

// CompareVersion compares two dotted version strings segment by segment as
// integers and returns -1, 0 or 1. The shorter version is padded with zero
// segments, so "1.2" equals "1.2.0". Empty or non-numeric segments count as 0
// and a leading "v" is ignored.
func CompareVersion(a, b string) int {
	as := splitVersion(a)
	bs := splitVersion(b)

	n := max(len(as), len(bs))
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return 0
}

func splitVersion(v string) []int {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ".")
	segs := make([]int, len(parts))
	for i, p := range parts {
		segs[i] = leadingInt(strings.TrimSpace(p))
	}
	return segs
}

// leadingInt parses the digits at the start of s, so "3-beta" yields 3.
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
