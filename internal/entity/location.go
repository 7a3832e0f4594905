package entity

import (
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
)

// columnLetters maps column indexes to the letters used in location codes.
var columnLetters = [BoardColumns]string{"A", "B", "C", "D", "E", "F"}

// EncodeLocation converts 0-based board coordinates into the server-facing
// location code, e.g. column 2 row 3 becomes "C4". Rows are 1-based on the wire.
func EncodeLocation(column, row int) (string, error) {
	if column < 0 || column >= BoardColumns {
		return "", fmt.Errorf("%w: %d", apperror.ErrInvalidColumn, column)
	}

	if row < 0 || row >= BoardRows {
		return "", fmt.Errorf("%w: %d", apperror.ErrInvalidRow, row)
	}

	return columnLetters[column] + strconv.Itoa(row+1), nil
}

// DecodeLocation converts a location code back into 0-based board coordinates,
// e.g. "C4" becomes column 2, row 3.
func DecodeLocation(code string) (int, int, error) {
	// Wire format is exactly one column letter and one row digit, "A1".."F7".
	if len(code) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", apperror.ErrInvalidLocationCode, code)
	}

	column := -1
	for i, letter := range columnLetters {
		if letter == code[:1] {
			column = i
			break
		}
	}

	if column == -1 {
		return 0, 0, fmt.Errorf("%w: %q", apperror.ErrInvalidLocationCode, code)
	}

	digit := code[1]
	if digit < '1' || digit > '0'+BoardRows {
		return 0, 0, fmt.Errorf("%w: %q", apperror.ErrInvalidLocationCode, code)
	}

	return column, int(digit - '1'), nil
}
