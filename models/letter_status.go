package models

// LetterStatus classifies one guessed letter against the target word
type LetterStatus int

const (
	LetterAbsent LetterStatus = iota
	LetterPresent
	LetterCorrect
)

// String returns the lowercase name used in JSON payloads
func (s LetterStatus) String() string {
	switch s {
	case LetterCorrect:
		return "correct"
	case LetterPresent:
		return "present"
	default:
		return "absent"
	}
}

// MarshalText lets grids serialize as status names instead of integers
func (s LetterStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// GuessGrid is one row of statuses per guess, in submission order
type GuessGrid [][]LetterStatus
