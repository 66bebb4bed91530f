// Package enumerate performs the depth-first traversal of the reachable
// Connect Four game tree, invoking the classifier at every ply inside
// the configured window and collecting the critical entries it finds.
package enumerate

import (
	"github.com/BassBess/generator2/internal/classify"
	"github.com/BassBess/generator2/internal/position"
	"github.com/BassBess/generator2/internal/solver"
)

// Entry is one row of the eventual critical-positions database: the
// position's fingerprint and the column index of its unique non-obvious
// winning move.
type Entry struct {
	Key    uint64
	Column uint8
}

// Stats is a snapshot of enumeration progress, reported through
// OnProgress. It carries no format guarantee beyond this process; the
// spec is explicit that progress output is not machine-readable.
type Stats struct {
	Visited  uint64
	Critical uint64
}

// defaultReportEvery bounds how often OnProgress fires; reporting on
// every visited node would make logging itself the bottleneck across a
// multi-hour run.
const defaultReportEvery = 500_000

// Enumerator walks the game tree from the empty position and classifies
// every position that falls in its ply window.
//
// Entries are accumulated in memory for the whole run (per §5 of the
// design this traversal targets, the critical-entry buffer is process-
// scoped and grows by doubling); there is no checkpointing.
type Enumerator struct {
	solver *solver.Solver
	window classify.Window

	entries []Entry
	visited uint64

	reportEvery uint64
	onProgress  func(Stats)
}

// New returns an Enumerator that classifies positions in window w using
// s to solve candidate moves. s and w are typically solver.New() and
// classify.DefaultWindow.
func New(s *solver.Solver, w classify.Window) *Enumerator {
	return &Enumerator{
		solver:      s,
		window:      w,
		entries:     make([]Entry, 0, 1_000_000),
		reportEvery: defaultReportEvery,
	}
}

// OnProgress registers a callback invoked periodically during Run with a
// snapshot of progress so far. It is never called concurrently.
func (e *Enumerator) OnProgress(fn func(Stats)) {
	e.onProgress = fn
}

// Entries returns the critical entries discovered so far, in discovery
// order. The returned slice is owned by the Enumerator; callers must not
// hold onto it across another call to Run.
func (e *Enumerator) Entries() []Entry {
	return e.entries
}

// Stats returns the current progress snapshot.
func (e *Enumerator) Stats() Stats {
	return Stats{Visited: e.visited, Critical: uint64(len(e.entries))}
}

// Run traverses the reachable game tree from the empty position, down to
// the window's max ply.
func (e *Enumerator) Run() {
	e.visit(position.New())
}

// visit classifies p if it falls in the window, then recurses into every
// legal child unless p is at or past the window's max ply (no child would
// be inside the window) or the side to move already has an immediate win
// (the game is treated as decided there and its children are not visited).
func (e *Enumerator) visit(p position.Position) {
	e.visited++
	if e.onProgress != nil && e.visited%e.reportEvery == 0 {
		e.onProgress(e.Stats())
	}

	if e.window.Contains(p.Ply) {
		if res := classify.Analyze(e.solver, p, e.window); res.Critical {
			if len(e.entries) == cap(e.entries) && cap(e.entries) > 0 {
				grown := make([]Entry, len(e.entries), 2*cap(e.entries))
				copy(grown, e.entries)
				e.entries = grown
			}
			e.entries = append(e.entries, Entry{Key: p.Key(), Column: uint8(res.Column)})
		}
	}

	if p.Ply >= e.window.Max || p.CanWinNext() {
		return
	}

	for col := 0; col < position.Width; col++ {
		if p.CanPlay(col) {
			e.visit(p.Play(col))
		}
	}
}
