// Package jobstest provides in-memory processes for testing job control
// without touching the OS.
package jobstest

import (
	"os/exec"
	"sync"
	"syscall"

	"github.com/josephlewis42/mercury/core/jobs"
)

// ErrNotFound is what a Starter returns for programs in Missing.
var ErrNotFound = &exec.Error{Name: "missing", Err: exec.ErrNotFound}

// ErrFork is what a Starter returns for programs in Unforkable.
var ErrFork = syscall.EAGAIN

// Process is a fake job that runs until it's killed.
type Process struct {
	pid int

	mu     sync.Mutex
	killed int
	done   chan struct{}
}

var _ jobs.Process = (*Process)(nil)

// NewProcess creates a running fake process.
func NewProcess(pid int) *Process {
	return &Process{pid: pid, done: make(chan struct{})}
}

func (p *Process) Pid() int {
	return p.pid
}

// Kill marks the process as killed, killing it again is harmless.
func (p *Process) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.killed == 0 {
		close(p.done)
	}
	p.killed++
	return nil
}

// Killed reports whether Kill was called.
func (p *Process) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.killed > 0
}

// Wait blocks until the process is killed.
func (p *Process) Wait() error {
	<-p.done
	return nil
}

// Starter hands out fake processes with increasing pids.
type Starter struct {
	// NextPid is the pid of the next started process, 1000 if unset.
	NextPid int
	// Missing holds program names that fail as if not on the PATH.
	Missing map[string]bool
	// Unforkable holds program names that fail as if the OS refused to fork.
	Unforkable map[string]bool

	mu      sync.Mutex
	started [][]string
	procs   map[int]*Process
}

var _ jobs.Starter = (*Starter)(nil)

// NewStarter creates a Starter that fails for the given missing programs.
func NewStarter(missing ...string) *Starter {
	s := &Starter{Missing: make(map[string]bool)}
	for _, name := range missing {
		s.Missing[name] = true
	}
	return s
}

func (s *Starter) Start(argv []string) (jobs.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started = append(s.started, append([]string(nil), argv...))

	switch {
	case s.Missing[argv[0]]:
		return nil, ErrNotFound
	case s.Unforkable[argv[0]]:
		return nil, ErrFork
	}

	if s.NextPid == 0 {
		s.NextPid = 1000
	}
	if s.procs == nil {
		s.procs = make(map[int]*Process)
	}

	proc := NewProcess(s.NextPid)
	s.procs[proc.pid] = proc
	s.NextPid++
	return proc, nil
}

// Started lists every argv passed to Start, including failed ones.
func (s *Starter) Started() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([][]string(nil), s.started...)
}

// Process gets a previously started process by pid.
func (s *Starter) Process(pid int) *Process {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.procs[pid]
}

// NewLauncher creates a table and a launcher backed by a fake Starter.
// Priority changes are collected into the returned map.
func NewLauncher(starter *Starter) (*jobs.Launcher, map[int]int) {
	var mu sync.Mutex
	priorities := make(map[int]int)

	launcher := jobs.NewLauncher(jobs.NewTable(), starter)
	launcher.SetPriority = func(pid, priority int) error {
		mu.Lock()
		defer mu.Unlock()
		priorities[pid] = priority
		return nil
	}
	return launcher, priorities
}
