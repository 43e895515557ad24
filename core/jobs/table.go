// Package jobs tracks the external processes the shell has launched.
package jobs

import (
	"sort"
	"sync"

	"github.com/josephlewis42/mercury/core/cmderr"
)

// Process is a started job.
type Process interface {
	// Pid gets the OS process ID.
	Pid() int
	// Kill sends a forced termination signal.
	Kill() error
	// Wait blocks until the process exits.
	Wait() error
}

// Table is the set of jobs believed to be running.
//
// The table is advisory: it never polls liveness, so a process that exited on
// its own stays listed until it's killed or the table is cleared.
type Table struct {
	mu    sync.Mutex
	procs map[int]Process
}

// NewTable creates an empty job table.
func NewTable() *Table {
	return &Table{
		procs: make(map[int]Process),
	}
}

// Add tracks a process. Pids are unique because the OS says so.
func (t *Table) Add(proc Process) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.procs[proc.Pid()] = proc
}

// Contains reports whether pid is tracked.
func (t *Table) Contains(pid int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.procs[pid]
	return ok
}

// Len gets the number of tracked jobs.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.procs)
}

// Pids lists the tracked process IDs in ascending order.
func (t *Table) Pids() []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.pidsLocked()
}

func (t *Table) pidsLocked() []int {
	out := make([]int, 0, len(t.procs))
	for pid := range t.procs {
		out = append(out, pid)
	}
	sort.Ints(out)
	return out
}

// Kill force terminates a tracked job and forgets it.
//
// Returns cmderr.InvalidPID without touching the table if pid isn't tracked.
// Failing to signal a job that already exited isn't an error.
func (t *Table) Kill(pid int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	proc, ok := t.procs[pid]
	if !ok {
		return cmderr.InvalidPID
	}

	_ = proc.Kill()
	delete(t.procs, pid)
	return nil
}

// KillAll force terminates every tracked job, empties the table and returns
// the pids that were tracked.
func (t *Table) KillAll() []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	pids := t.pidsLocked()
	for _, pid := range pids {
		_ = t.procs[pid].Kill()
	}
	t.procs = make(map[int]Process)
	return pids
}
