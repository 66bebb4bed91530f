// Package classify decides whether a position is "critical": exactly one
// legal move wins, every other move loses or draws, and that winning move
// is not something an immediate-tactics checker would already find.
package classify

import (
	"github.com/BassBess/generator2/internal/position"
	"github.com/BassBess/generator2/internal/solver"
)

// Window is the inclusive ply range a position must fall in to be
// eligible for classification. The defaults (15, 28) match the reference
// database; a narrower or wider window trades database size for runtime.
type Window struct {
	Min, Max int
}

// DefaultWindow is the ply range used by the reference critical-positions
// database.
var DefaultWindow = Window{Min: 15, Max: 28}

// Contains reports whether ply falls within the window, inclusive.
func (w Window) Contains(ply int) bool {
	return ply >= w.Min && ply <= w.Max
}

// Result is the outcome of analyzing a position: Critical is true iff the
// position qualifies, in which case Column names the unique, non-obvious
// winning move.
type Result struct {
	Critical bool
	Column   int
}

// Analyze classifies p, using s to solve each legal reply. s's
// transposition table is shared across calls and is not cleared here —
// sibling calls within one enumeration benefit from each other's cached
// subtrees.
func Analyze(s *solver.Solver, p position.Position, w Window) Result {
	if !w.Contains(p.Ply) {
		return Result{}
	}
	if p.CanWinNext() {
		// Trivial: an immediate win needs no database entry.
		return Result{}
	}
	nonLosing := p.NonLosingMoves()
	if nonLosing == 0 {
		// Already lost: every move is equally bad, nothing to recommend.
		return Result{}
	}

	winners := 0
	winCol := -1
	for col := 0; col < position.Width; col++ {
		if !p.CanPlay(col) {
			continue
		}
		bit := p.MoveBit(col)
		if bit&nonLosing == 0 {
			// A losing move: never worth recommending, and per the
			// uniqueness test below it must not be the only win either.
			continue
		}
		child := p.Play(col)
		score := -s.Solve(child)
		if score > 0 {
			winners++
			winCol = col
		}
	}

	if winners != 1 {
		return Result{}
	}
	if isObvious(p, winCol) {
		return Result{}
	}
	return Result{Critical: true, Column: winCol}
}

// isObvious reports whether playing col is something an immediate-
// tactics checker would already find: a win-in-one, or a forced block of
// the opponent's own immediate win. Intentionally narrow — it does not
// reason about forced two-move sequences or even/odd threat control; the
// database exists precisely to cover what this check misses.
func isObvious(p position.Position, col int) bool {
	cell := p.MoveBit(col)
	if p.WinningCells()&cell != 0 {
		return true
	}
	if p.OpponentWinningCells()&cell != 0 {
		return true
	}
	return false
}
