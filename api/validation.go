package api

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"wordler/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidators adds the custom binding rules to gin's validator
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("fiveletters", validateFiveLetters); err != nil {
		return fmt.Errorf("failed to register fiveletters: %w", err)
	}
	return nil
}

// validateFiveLetters accepts a guess row of letters only, at most five of
// them. Empty and partial rows pass and are dropped before storage.
func validateFiveLetters(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if utf8.RuneCountInString(s) > models.WordLength {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
