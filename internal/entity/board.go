package entity

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
)

const (
	BoardColumns = 6
	BoardRows    = 7

	ColorRed    = "RED"
	ColorYellow = "YELLOW"

	EmptyCell = ""
)

// Board is the local chip ledger for one game. It only tracks placement and
// per-column capacity; turn order and rules validation live on the server.
type Board struct {
	Cells    [BoardColumns][BoardRows]string `json:"cells"`
	NextFree [BoardColumns]int               `json:"next_free"`
}

func NewBoard() *Board {
	return &Board{}
}

// Drop places a chip in the column at the lowest free row and returns that row.
// Columns fill bottom-up, so the occupied cells of a column are always a
// contiguous prefix from row 0.
func (that *Board) Drop(column int, color string) (int, error) {
	if column < 0 || column >= BoardColumns {
		return 0, fmt.Errorf("%w: %d", apperror.ErrInvalidColumn, column)
	}

	row := that.NextFree[column]
	if row >= BoardRows {
		return 0, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	that.Cells[column][row] = color
	that.NextFree[column]++

	return row, nil
}

// Reset clears every cell and fill pointer, reopening all columns.
func (that *Board) Reset() {
	*that = Board{}
}

// ColumnOpen reports whether the column can still accept a chip.
func (that *Board) ColumnOpen(column int) bool {
	if column < 0 || column >= BoardColumns {
		return false
	}

	return that.NextFree[column] < BoardRows
}

func (that *Board) CellAt(column, row int) string {
	if column < 0 || column >= BoardColumns || row < 0 || row >= BoardRows {
		return EmptyCell
	}

	return that.Cells[column][row]
}

func (that *Board) IsEmpty() bool {
	for column := range that.NextFree {
		if that.NextFree[column] != 0 {
			return false
		}
	}

	return true
}

// OpponentColor returns the other player's color.
func OpponentColor(color string) string {
	if color == ColorRed {
		return ColorYellow
	}

	return ColorRed
}
