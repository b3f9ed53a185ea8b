package service

import (
	"strconv"
	"strings"
)

// defaultBlockPattern is the documented fallback for absent or unparseable
// lesson patterns.
var defaultBlockPattern = []int{2}

// ParseBlockPattern parses a textual block-size pattern such as "2+2+1".
// Non-numeric pieces and zeros are dropped; if nothing usable remains the
// default pattern [2] is returned.
func ParseBlockPattern(raw string) []int {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})

	var pattern []int
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			continue
		}
		pattern = append(pattern, n)
	}
	if len(pattern) == 0 {
		return append([]int(nil), defaultBlockPattern...)
	}
	return pattern
}

// ExpandBlockPattern walks the pattern cyclically until totalHours are
// consumed: each step takes min(pattern[i%len], remaining), so the pattern
// repeats and the last piece is clipped, never the first.
//
//	[2,2,1], 5 -> [2,2,1]
//	[2,2,1], 7 -> [2,2,1,2]
//	[3],     7 -> [3,3,1]
func ExpandBlockPattern(pattern []int, totalHours int) []int {
	if totalHours <= 0 {
		return nil
	}
	usable := false
	for _, p := range pattern {
		if p > 0 {
			usable = true
			break
		}
	}
	if !usable {
		pattern = defaultBlockPattern
	}

	var durations []int
	remaining := totalHours
	for i := 0; remaining > 0; i++ {
		size := pattern[i%len(pattern)]
		if size <= 0 {
			continue
		}
		if size > remaining {
			size = remaining
		}
		durations = append(durations, size)
		remaining -= size
	}
	return durations
}
