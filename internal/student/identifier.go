package student

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

const MaxIDLength = 64

// NormalizeID trims the identifier and folds full-width and Arabic-Indic
// digits to ASCII so that keyboard layout does not change the lookup key.
func NormalizeID(raw string) (string, error) {
	id := strings.TrimSpace(width.Narrow.String(raw))
	id = strings.Map(foldDigit, id)

	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if len(id) > MaxIDLength {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidID, MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: contains control characters", ErrInvalidID)
		}
	}
	return id, nil
}

func foldDigit(r rune) rune {
	switch {
	case r >= '٠' && r <= '٩': // Arabic-Indic
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹': // Extended Arabic-Indic (Persian)
		return '0' + (r - '۰')
	}
	return r
}
