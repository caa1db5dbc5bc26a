package models

import "fmt"

// AttemptsLabel renders a score as "3/6", or "X/6" when unsolved
func AttemptsLabel(attempts int, solved bool) string {
	if !solved {
		return fmt.Sprintf("X/%d", MaxAttempts)
	}
	return fmt.Sprintf("%d/%d", attempts, MaxAttempts)
}

// FormatDuration renders a completion time in milliseconds as M:SS
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
