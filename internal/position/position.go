// Package position implements the bitboard representation of a Connect
// Four position: move generation, legality, threat detection, and the
// position key used by the transposition table and the critical-positions
// database.
//
// A position is stored as two uint64 bitfields. The seven columns occupy
// seven 7-bit lanes within the word; within a lane, bits 0..5 are the rows
// bottom-to-top and bit 6 is a guard bit that must stay zero and separates
// columns so shift-based line detection cannot carry across a column
// boundary:
//
//	 6 13 20 27 34 41 48
//	---------------------
//	| 5 12 19 26 33 40 47 |
//	| 4 11 18 25 32 39 46 |
//	| 3 10 17 24 31 38 45 |
//	| 2  9 16 23 30 37 44 |
//	| 1  8 15 22 29 36 43 |
//	| 0  7 14 21 28 35 42 |
//	---------------------
package position

import "strings"

// Board dimensions. The implementation below assumes exactly these values
// in its shift constants; changing them requires re-deriving the line
// detectors in computeWinningCells.
const (
	Width     = 7
	Height    = 6
	BoardSize = Width * Height
	Center    = Width / 2

	// MinScore and MaxScore bound the game-theoretic score, expressed in
	// plies-to-mate units (see Solve in the solver package).
	MinScore = -(BoardSize)/2 + 3
	MaxScore = (BoardSize+1)/2 - 3
)

// Position is a Connect Four board state: the stones of the side to move
// (Current), all occupied cells (Mask), and the number of stones placed so
// far (Ply). The opponent's stones are Current^Mask.
//
// Position is a small value type by design — copy it freely; the enumerator
// passes copies to children rather than mutating and undoing a shared
// instance.
type Position struct {
	Current uint64
	Mask    uint64
	Ply     int
}

// New returns the empty starting position.
func New() Position {
	return Position{}
}

// FromBoardString parses a Position from a 42-character board description,
// read top-left to bottom-right, over the alphabet {'.', 'o', 'x'} ('x' is
// the side to move, 'o' is the opponent, '.' is empty). All other
// characters are ignored when counting the 42 required cells.
//
// The caller is responsible for passing a string that encodes a reachable,
// legal position; malformed but well-typed input (e.g. floating stones)
// is not detected here.
func FromBoardString(s string) (Position, error) {
	s = strings.ToLower(s)
	var cells []rune
	for _, c := range s {
		if c == '.' || c == 'o' || c == 'x' {
			cells = append(cells, c)
		}
	}
	if len(cells) != BoardSize {
		return Position{}, InvalidBoardStringLength{Actual: len(cells), Expected: BoardSize}
	}

	var current, mask uint64
	var ply int
	for i, c := range cells {
		if c == '.' {
			continue
		}
		row := Height - (i/Width) - 1
		col := i % Width
		bit := uint(row + col*(Height+1))

		mask |= uint64(1) << bit
		if c == 'x' {
			current |= uint64(1) << bit
		}
		ply++
	}
	return Position{Current: current, Mask: mask, Ply: ply}, nil
}

// FromMoves replays a sequence of 1-indexed column digits (as produced by
// the reference test-suite format) from the empty position, rejecting any
// move into a full column or a move that wins immediately (the classifier
// never needs to enumerate past a won position, so the parser enforces
// that a move sequence never does).
func FromMoves(moves string) (Position, error) {
	p := New()
	seen := false
	for i, c := range moves {
		if c < '0' || c > '9' {
			return Position{}, InvalidCharacter{Character: c, Index: i}
		}
		col := int(c-'0') - 1
		if col < 0 || col >= Width {
			return Position{}, InvalidColumn{Column: col, Index: i}
		}
		if !p.CanPlay(col) {
			return Position{}, InvalidFullColumnMove{Column: col, Index: i}
		}
		if p.IsWinningMove(col) {
			return Position{}, InvalidWinningMove{Column: col, Index: i}
		}
		p = p.Play(col)
		seen = true
	}
	if !seen {
		return Position{}, InvalidColumn{Column: -1}
	}
	return p, nil
}

// Key returns the 64-bit position fingerprint current+mask. This is
// injective over legal positions: for every column, Current and Mask
// together determine both its height and the owner of every stone in it.
func (p Position) Key() uint64 {
	return p.Current + p.Mask
}

// CanPlay reports whether column col has room for another stone.
func (p Position) CanPlay(col int) bool {
	return p.Mask&topMaskCol(col) == 0
}

// MoveBit returns the single bit where a stone dropped into col would
// land. It is only meaningful when CanPlay(col) is true.
func (p Position) MoveBit(col int) uint64 {
	return (p.Mask + bottomMaskCol(col)) & columnMask(col)
}

// Play returns the position after the side to move drops a stone into
// col. The receiver is left unmodified.
func (p Position) Play(col int) Position {
	p.Current ^= p.Mask
	p.Mask |= p.MoveBit(col)
	p.Ply++
	return p
}

// Possible returns the mask of cells a stone would land in for each
// column that still has room, regardless of whether playing there is
// wise.
func (p Position) Possible() uint64 {
	return (p.Mask + bottomMask) & boardMask
}

// WinningCells returns the set of empty cells that would complete a
// four-in-a-row for the side to move if played now.
func (p Position) WinningCells() uint64 {
	return computeWinningCells(p.Current, p.Mask)
}

// OpponentWinningCells returns the set of empty cells that would complete
// a four-in-a-row for the opponent if played now.
func (p Position) OpponentWinningCells() uint64 {
	return computeWinningCells(p.Current^p.Mask, p.Mask)
}

// CanWinNext reports whether the side to move has an immediate win
// available.
func (p Position) CanWinNext() bool {
	return p.WinningCells()&p.Possible() != 0
}

// IsWinningMove reports whether playing col completes a four-in-a-row for
// the side to move. col must be playable.
func (p Position) IsWinningMove(col int) bool {
	return p.WinningCells()&p.Possible()&columnMask(col) != 0
}

// NonLosingMoves returns the subset of Possible() that does not hand the
// opponent an immediate win on their next move. It returns 0 when every
// legal move loses, i.e. the opponent already has two or more disjoint
// immediate threats.
func (p Position) NonLosingMoves() uint64 {
	possible := p.Possible()
	oppWins := p.OpponentWinningCells()
	forced := possible & oppWins
	if forced != 0 {
		if forced&(forced-1) != 0 {
			// Two or more forced cells: the opponent wins regardless of
			// which one is played, so every move here loses.
			return 0
		}
		possible = forced
	}
	// Never play directly beneath a cell that would complete the
	// opponent's four-in-a-row: doing so hands them that winning cell on
	// the following move.
	return possible &^ (oppWins >> 1)
}

// ThreatCount returns the number of distinct winning cells the side to
// move would create by playing moveBit, used by the solver to order
// moves by how many new threats they open up.
func (p Position) ThreatCount(moveBit uint64) int {
	return popcount(computeWinningCells(p.Current|moveBit, p.Mask))
}

// IsWon reports whether either side already has a four-in-a-row on the
// board. It is used only by tests; the solver and enumerator never reach
// an already-won position because they stop at CanWinNext.
func (p Position) IsWon() bool {
	return hasFour(p.Current) || hasFour(p.Current^p.Mask)
}

func hasFour(bits uint64) bool {
	// Horizontal.
	m := bits & (bits >> (Height + 1))
	if m&(m>>(2*(Height+1))) != 0 {
		return true
	}
	// Diagonal "\".
	m = bits & (bits >> Height)
	if m&(m>>(2*Height)) != 0 {
		return true
	}
	// Diagonal "/".
	m = bits & (bits >> (Height + 2))
	if m&(m>>(2*(Height+2))) != 0 {
		return true
	}
	// Vertical.
	m = bits & (bits >> 1)
	if m&(m>>2) != 0 {
		return true
	}
	return false
}

// computeWinningCells returns, for a player occupying bits (within a board
// where mask is all occupied cells), every empty cell that would complete
// a four-in-a-row for that player — equivalently, the extension points of
// every open-ended three-in-a-row, including ones not yet reachable
// because of gravity.
func computeWinningCells(bits, mask uint64) uint64 {
	// Vertical.
	r := (bits << 1) & (bits << 2) & (bits << 3)

	// Horizontal.
	p := (bits << (Height + 1)) & (bits << (2 * (Height + 1)))
	r |= p & (bits << (3 * (Height + 1)))
	r |= p & (bits >> (Height + 1))
	p = (bits >> (2 * (Height + 1))) & (bits >> (Height + 1))
	r |= p & (bits << (Height + 1))
	r |= p & (bits >> (3 * (Height + 1)))

	// Diagonal "\" (top-left to bottom-right).
	p = (bits << Height) & (bits << (2 * Height))
	r |= p & (bits << (3 * Height))
	r |= p & (bits >> Height)
	p = (bits >> (2 * Height)) & (bits >> Height)
	r |= p & (bits << Height)
	r |= p & (bits >> (3 * Height))

	// Diagonal "/" (bottom-left to top-right).
	p = (bits << (Height + 2)) & (bits << (2 * (Height + 2)))
	r |= p & (bits << (3 * (Height + 2)))
	r |= p & (bits >> (Height + 2))
	p = (bits >> (2 * (Height + 2))) & (bits >> (Height + 2))
	r |= p & (bits << (Height + 2))
	r |= p & (bits >> (3 * (Height + 2)))

	return r & (boardMask ^ mask)
}

func popcount(x uint64) int {
	n := 0
	for x != 0 {
		x &= x - 1
		n++
	}
	return n
}

func topMaskCol(col int) uint64 {
	return uint64(1) << uint(Height-1+col*(Height+1))
}

func bottomMaskCol(col int) uint64 {
	return uint64(1) << uint(col*(Height+1))
}

func columnMask(col int) uint64 {
	return ((uint64(1) << Height) - 1) << uint(col*(Height+1))
}

var (
	bottomMask uint64
	boardMask  uint64
)

func init() {
	for c := 0; c < Width; c++ {
		bottomMask |= bottomMaskCol(c)
	}
	boardMask = bottomMask * ((1 << Height) - 1)
}
