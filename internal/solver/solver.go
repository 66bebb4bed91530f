// Package solver implements the weak Connect Four negamax search: it
// determines only the sign (and coarse magnitude, in plies-to-mate units)
// of a position's game-theoretic value, never a full distance-to-mate.
// That is enough for the classifier in package classify to rank the
// outcome of each candidate move.
package solver

import (
	"github.com/BassBess/generator2/internal/position"
	"github.com/BassBess/generator2/internal/ttable"
)

// columnOrder is the move order searched at every node: centre-first,
// because in Connect Four central columns participate in more winning
// lines and this ordering lets alpha-beta prune the most subtrees.
var columnOrder = [position.Width]int{3, 2, 4, 1, 5, 0, 6}

// drawPly is the ply count at or beyond which the board is full enough
// that no win is still reachable; positions at this depth are scored a
// draw without further search.
const drawPly = position.BoardSize - 2

// ttBoundThreshold separates the two packed-score encodings stored in the
// transposition table: a lower bound (fail-high) is packed above this
// value, an upper bound (fail-low) at or below it. See (*Solver).negamax.
const ttBoundThreshold = position.MaxScore - position.MinScore + 1

// Solver is a weak negamax searcher backed by its own transposition
// table. It is not safe for concurrent use.
//
// The table is intentionally never cleared between calls to Solve: the
// classifier calls Solve once per candidate move from the same parent
// position, and letting sibling subtrees share cache entries is a
// deliberate, specified optimization (see package ttable).
type Solver struct {
	tt *ttable.Table
}

// New returns a Solver with a freshly allocated transposition table.
func New() *Solver {
	return &Solver{tt: ttable.New()}
}

// Solve returns the game-theoretic score of p in plies-to-mate units:
// positive if the side to move wins with perfect play, negative if they
// lose, and zero for a draw. The magnitude is not a guarantee of the
// fastest mate, only of the correct sign — this is a weak solve.
//
// Solve performs null-window iterative deepening over the score axis:
// each probe negamax(p, med, med+1) only needs to answer "is the true
// score above or below med", which converges to the exact value far
// faster than a single full-window search would.
func (s *Solver) Solve(p position.Position) int {
	if p.CanWinNext() {
		return (position.BoardSize + 1 - p.Ply) / 2
	}

	min := -(position.BoardSize - p.Ply) / 2
	max := (position.BoardSize + 1 - p.Ply) / 2

	for min < max {
		med := min + (max-min)/2
		// Bias the probe toward zero: this halves the window on the side
		// that still straddles zero first, which empirically keeps the
		// search shallow for positions near the middle of the game.
		if med <= 0 && min/2 < med {
			med = min / 2
		} else if med >= 0 && max/2 > med {
			med = max / 2
		}

		r := s.negamax(p, med, med+1)
		if r <= med {
			max = r
		} else {
			min = r
		}
	}
	return min
}

// negamax returns a value for p that is exact only insofar as every call
// reachable from Solve uses a null window (beta == alpha+1): the result
// is always either <= the incoming alpha (fail-low) or >= the incoming
// beta (fail-high), never a genuinely interior score, which is exactly
// what the transposition table below packs.
func (s *Solver) negamax(p position.Position, alpha, beta int) int {
	if p.CanWinNext() {
		return (position.BoardSize + 1 - p.Ply) / 2
	}

	possible := p.NonLosingMoves()
	if possible == 0 {
		return -(position.BoardSize - p.Ply) / 2
	}
	if p.Ply >= drawPly {
		return 0
	}

	if v := -(position.BoardSize - 2 - p.Ply) / 2; alpha < v {
		alpha = v
		if alpha >= beta {
			return alpha
		}
	}
	if v := (position.BoardSize - 1 - p.Ply) / 2; beta > v {
		beta = v
		if alpha >= beta {
			return beta
		}
	}

	key := p.Key()
	if packed, ok := s.tt.Probe(key); ok {
		v := int(packed)
		if v > ttBoundThreshold {
			lo := v + 2*position.MinScore - position.MaxScore - 2
			if alpha < lo {
				alpha = lo
				if alpha >= beta {
					return alpha
				}
			}
		} else {
			hi := v + position.MinScore - 1
			if beta > hi {
				beta = hi
				if alpha >= beta {
					return beta
				}
			}
		}
	}

	for _, col := range orderedColumns(p, possible) {
		child := p.Play(col)
		score := -s.negamax(child, -beta, -alpha)
		if score >= beta {
			s.tt.Store(key, uint8(score+position.MaxScore-2*position.MinScore+2))
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	s.tt.Store(key, uint8(alpha-position.MinScore+1))
	return alpha
}

// orderedColumns returns the columns in possible, from columnOrder,
// sorted descending by the number of new threats they create for the
// mover. Ties keep columnOrder's relative order (insertion sort is
// stable here, matching the source's insertion-sort move sorter).
func orderedColumns(p position.Position, possible uint64) []int {
	cols := make([]int, 0, position.Width)
	scores := make([]int, 0, position.Width)

	for _, col := range columnOrder {
		bit := p.MoveBit(col)
		if bit&possible == 0 {
			continue
		}
		score := p.ThreatCount(bit)

		i := len(cols)
		cols = append(cols, col)
		scores = append(scores, score)
		for i > 0 && scores[i-1] < scores[i] {
			cols[i-1], cols[i] = cols[i], cols[i-1]
			scores[i-1], scores[i] = scores[i], scores[i-1]
			i--
		}
	}
	return cols
}
