package common

import "strings"

// FormatBar draws a bar of at most width blocks, scaled against highest.
// A non-zero count always gets at least one block.
func FormatBar(count, highest, width int) string {
	if count <= 0 || highest <= 0 || width <= 0 {
		return ""
	}
	n := count * width / highest
	if n == 0 {
		n = 1
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}
