package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsEmpty(t *testing.T) {
	p := New()
	assert.Equal(t, uint64(0), p.Current)
	assert.Equal(t, uint64(0), p.Mask)
	assert.Equal(t, 0, p.Ply)
}

func TestPlayTogglesSideAndFills(t *testing.T) {
	p := New()
	p = p.Play(3)
	assert.Equal(t, 1, p.Ply)
	// After one move Current holds the *other* side's bits (the side to
	// move flips before the stone lands), so Current is empty and Mask
	// holds exactly the bottom cell of column 3.
	assert.Equal(t, uint64(0), p.Current)
	assert.Equal(t, bottomMaskCol(3), p.Mask)
}

func TestCanPlayFullColumn(t *testing.T) {
	p := New()
	for i := 0; i < Height; i++ {
		require.True(t, p.CanPlay(0))
		p = p.Play(0)
	}
	assert.False(t, p.CanPlay(0))
}

func TestKeyInjectiveAcrossDistinctPositions(t *testing.T) {
	a := New().Play(0).Play(1)
	b := New().Play(1).Play(0)
	// Different move orders into different columns reach different board
	// states here (column 0 has one stone from each side's perspective vs
	// column 1), so keys must differ.
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestKeyEqualForIdenticalPositions(t *testing.T) {
	a := New().Play(2).Play(2).Play(2)
	b := New().Play(2).Play(2).Play(2)
	assert.Equal(t, a.Key(), b.Key())
}

func TestPopcountMaskMatchesPly(t *testing.T) {
	p := New()
	for _, col := range []int{3, 2, 4, 1, 5, 0, 6, 3, 2} {
		p = p.Play(col)
		assert.Equal(t, p.Ply, popcount(p.Mask))
		// Invariant: Current is always a subset of Mask.
		assert.Equal(t, uint64(0), p.Current&^p.Mask)
	}
}

func TestCanWinNextVerticalStack(t *testing.T) {
	p := New()
	// Stack three stones of the side to move in column 0, alternating the
	// opponent into column 1 so it never blocks.
	p = p.Play(0).Play(1).Play(0).Play(1).Play(0).Play(1)
	assert.True(t, p.CanWinNext())
	assert.True(t, p.IsWinningMove(0))
}

func TestWinningCellsAreAlwaysEmpty(t *testing.T) {
	p := New().Play(0).Play(1).Play(0).Play(1).Play(0)
	w := p.WinningCells()
	assert.Equal(t, uint64(0), w&p.Mask)
}

func TestNonLosingMovesEmptyOnDoubleThreat(t *testing.T) {
	// Construct a position (from the opponent's perspective after their
	// move) where two disjoint immediate threats exist for the opponent;
	// every move for the side to move must then lose.
	//
	// Columns 0 and 2 each hold a vertical triple of the opponent's
	// stones, so the top of each column is an immediate threat.
	p, err := FromBoardString(
		"......." +
			"......." +
			"......." +
			"o.o...." +
			"o.o...." +
			"o.o.x.x")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p.NonLosingMoves())
}

func TestWinningCellsDetectsHorizontalGap(t *testing.T) {
	// Side to move holds columns 0, 2, 3 on the bottom row with column 1
	// open: the only empty cell completing a four-in-a-row is column 1's
	// bottom cell. This is the gap case the left-right detector must catch
	// on its own (it sits between one stone to its left and two to its
	// right).
	p, err := FromBoardString(
		"......." +
			"......." +
			"......." +
			"......." +
			"......." +
			"x.xxo..")
	require.NoError(t, err)
	w := p.WinningCells()
	assert.NotEqual(t, uint64(0), w&bottomMaskCol(1))
}

func TestWinningCellsDetectsDiagonal(t *testing.T) {
	// Side-to-move stones on a rising diagonal at steps 0, 2, and 3, with
	// step 1 — the middle of the line, not an end — left empty. Mirrors
	// the horizontal gap case above: the detector must find this cell by
	// combining a stone two steps away with one three steps away, not just
	// by extending a run of three consecutive stones.
	p, err := FromBoardString(
		"......." +
			"......." +
			"...x..." +
			"..x...." +
			"......." +
			"x......")
	require.NoError(t, err)
	w := p.WinningCells()
	target := uint64(1) << uint(1+1*(Height+1))
	assert.NotEqual(t, uint64(0), w&target)
}

func TestOpponentWinningCellsMirrorsWinningCells(t *testing.T) {
	p, err := FromBoardString(
		"......." +
			"......." +
			"......." +
			"......." +
			"......." +
			"o.ooX..")
	require.NoError(t, err)
	assert.NotEqual(t, uint64(0), p.OpponentWinningCells()&bottomMaskCol(1))
}

func TestFromBoardStringRejectsWrongLength(t *testing.T) {
	_, err := FromBoardString("...")
	require.Error(t, err)
	var lenErr InvalidBoardStringLength
	require.ErrorAs(t, err, &lenErr)
}

func TestFromMovesRejectsFullColumn(t *testing.T) {
	moves := "1111111" // seven drops into column 1, but height is 6
	_, err := FromMoves(moves)
	require.Error(t, err)
}

func TestFromMovesRejectsWinningMove(t *testing.T) {
	// 1,2,1,2,1,2,1 drops four of player 1's stones into column 1.
	_, err := FromMoves("1212121")
	require.Error(t, err)
	var winErr InvalidWinningMove
	require.ErrorAs(t, err, &winErr)
}

func TestIsWonDetectsHorizontal(t *testing.T) {
	p, err := FromBoardString(
		"......." +
			"......." +
			"......." +
			"......." +
			"......." +
			"xxxx...")
	require.NoError(t, err)
	assert.True(t, p.IsWon())
}
