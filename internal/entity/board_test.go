package entity

import (
	"testing"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Drop(t *testing.T) {
	t.Run("Chips stack bottom-up in one column", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: three chips are dropped in the same column
		for turn, color := range []string{ColorRed, ColorYellow, ColorRed} {
			row, err := board.Drop(2, color)
			require.NoError(t, err)

			// Then: each chip lands one row above the previous
			assert.Equal(t, turn, row)
		}

		// And: the cells hold the colors in drop order with no gaps
		assert.Equal(t, ColorRed, board.CellAt(2, 0))
		assert.Equal(t, ColorYellow, board.CellAt(2, 1))
		assert.Equal(t, ColorRed, board.CellAt(2, 2))
		assert.Equal(t, EmptyCell, board.CellAt(2, 3))
		assert.Equal(t, 3, board.NextFree[2])
	})

	t.Run("Seventh drop closes the column and the eighth fails", func(t *testing.T) {
		// Given: a column filled with six chips
		board := NewBoard()
		for i := 0; i < BoardRows-1; i++ {
			_, err := board.Drop(0, ColorRed)
			require.NoError(t, err)
		}
		require.True(t, board.ColumnOpen(0))

		// When: the seventh chip is dropped
		row, err := board.Drop(0, ColorRed)
		require.NoError(t, err)
		assert.Equal(t, BoardRows-1, row)

		// Then: the column is closed
		assert.False(t, board.ColumnOpen(0))

		// And: an eighth drop fails with ErrColumnFull without changing state
		_, err = board.Drop(0, ColorYellow)
		require.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Equal(t, BoardRows, board.NextFree[0])
	})

	t.Run("Error on invalid column index", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: dropping outside the column range
		_, errLow := board.Drop(-1, ColorRed)
		_, errHigh := board.Drop(BoardColumns, ColorRed)

		// Then: both fail with ErrInvalidColumn
		assert.ErrorIs(t, errLow, apperror.ErrInvalidColumn)
		assert.ErrorIs(t, errHigh, apperror.ErrInvalidColumn)
	})

	t.Run("Filled cells are always a contiguous prefix", func(t *testing.T) {
		// Given: a board with a few chips in one column
		board := NewBoard()
		for i := 0; i < 4; i++ {
			_, err := board.Drop(5, ColorYellow)
			require.NoError(t, err)
		}

		// Then: rows below the fill pointer are occupied, rows above are empty
		for row := 0; row < BoardRows; row++ {
			if row < 4 {
				assert.NotEqual(t, EmptyCell, board.CellAt(5, row))
			} else {
				assert.Equal(t, EmptyCell, board.CellAt(5, row))
			}
		}
	})
}

func TestBoard_Reset(t *testing.T) {
	t.Run("Reset clears every cell and reopens every column", func(t *testing.T) {
		// Given: a board with a full column and scattered chips
		board := NewBoard()
		for i := 0; i < BoardRows; i++ {
			_, err := board.Drop(1, ColorRed)
			require.NoError(t, err)
		}
		_, err := board.Drop(4, ColorYellow)
		require.NoError(t, err)
		require.False(t, board.ColumnOpen(1))

		// When: the board is reset
		board.Reset()

		// Then: it is empty and all columns accept chips again
		assert.True(t, board.IsEmpty())
		for column := 0; column < BoardColumns; column++ {
			assert.True(t, board.ColumnOpen(column))
			assert.Equal(t, 0, board.NextFree[column])
		}
	})
}

func TestOpponentColor(t *testing.T) {
	assert.Equal(t, ColorYellow, OpponentColor(ColorRed))
	assert.Equal(t, ColorRed, OpponentColor(ColorYellow))
}
