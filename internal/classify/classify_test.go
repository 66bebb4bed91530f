package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BassBess/generator2/internal/position"
	"github.com/BassBess/generator2/internal/solver"
)

func TestAnalyzeRejectsOutsidePlyWindow(t *testing.T) {
	s := solver.New()
	got := Analyze(s, position.New(), DefaultWindow)
	assert.False(t, got.Critical, "empty board is ply 0, below MinPly")
}

func TestAnalyzeRejectsImmediateWin(t *testing.T) {
	s := solver.New()
	p := position.New().Play(0).Play(1).Play(0).Play(1).Play(0).Play(1)
	// Force it into the window artificially by padding ply accounting is
	// not meaningful here; CanWinNext must reject regardless of window.
	w := Window{Min: 0, Max: position.BoardSize}
	require.True(t, p.CanWinNext())
	got := Analyze(s, p, w)
	assert.False(t, got.Critical)
}

func TestAnalyzeRejectsForcedLoss(t *testing.T) {
	s := solver.New()
	p, err := position.FromBoardString(
		"......." +
			"......." +
			"......." +
			"o.o...." +
			"o.o...." +
			"o.o.x.x")
	require.NoError(t, err)
	w := Window{Min: 0, Max: position.BoardSize}
	got := Analyze(s, p, w)
	assert.False(t, got.Critical)
}

func TestAnalyzeRejectsObviousWinInOne(t *testing.T) {
	s := solver.New()
	// Three of the mover's stones stacked in column 0 with an immediate
	// win available is rejected by the CanWinNext gate before the
	// obviousness test even runs; to exercise isObvious specifically we
	// need a position with exactly one winning move that happens to be a
	// win-in-one while CanWinNext is false for every *other* reason that
	// would've short-circuited first. CanWinNext already covers win-in-one
	// globally, so this case is dominated by TestAnalyzeRejectsImmediateWin
	// and is kept only to document that isObvious's win-in-one branch is
	// unreachable through Analyze by construction (CanWinNext always
	// catches it first) but still correct in isolation.
	p := position.New().Play(0).Play(1).Play(0).Play(1).Play(0).Play(1)
	require.True(t, p.IsWinningMove(0))
	assert.True(t, isObvious(p, 0))
}

func TestWindowContains(t *testing.T) {
	w := Window{Min: 15, Max: 28}
	assert.False(t, w.Contains(14))
	assert.True(t, w.Contains(15))
	assert.True(t, w.Contains(28))
	assert.False(t, w.Contains(29))
}
