package enumerate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BassBess/generator2/internal/classify"
	"github.com/BassBess/generator2/internal/position"
	"github.com/BassBess/generator2/internal/solver"
)

// A shallow window keeps this test fast (at most 1+7+49+343+2401 nodes)
// while still exercising the DFS shape: classification at every eligible
// ply and pruning at MaxPly. No position this shallow has an immediate
// win, so the immediate-win prune is not reached here.
func TestRunShallowWindowEntriesHaveValidColumns(t *testing.T) {
	w := classify.Window{Min: 2, Max: 4}
	e := New(solver.New(), w)
	e.Run()

	require.NotZero(t, e.Stats().Visited)
	for _, ent := range e.Entries() {
		_ = ent // key/column presence is enough; ply is not recoverable
		// from a key alone, so this test leans on Analyze's own window
		// check (covered directly in package classify) and instead
		// checks that entries are internally consistent.
		assert.LessOrEqual(t, int(ent.Column), position.Width-1)
	}
}

func TestRunVisitsMoreNodesThanItClassifies(t *testing.T) {
	w := classify.Window{Min: 2, Max: 3}
	e := New(solver.New(), w)
	e.Run()
	assert.Greater(t, e.Stats().Visited, e.Stats().Critical)
}

func TestOnProgressNotCalledForTinyRuns(t *testing.T) {
	w := classify.Window{Min: 0, Max: 1}
	calls := 0
	e := New(solver.New(), w)
	e.OnProgress(func(Stats) { calls++ })
	e.Run()
	// defaultReportEvery is far larger than the handful of nodes reached
	// by a two-ply window, so the callback should never fire.
	assert.Equal(t, 0, calls)
}
