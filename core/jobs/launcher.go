package jobs

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os/exec"
	"sync"

	"github.com/josephlewis42/mercury/core/cmderr"
	"github.com/josephlewis42/mercury/core/logger"
	"golang.org/x/sys/unix"
)

// Conjunction separates independent launches on one line.
const Conjunction = "&&"

// ErrClosed is why launches fail after Close, they report cmderr.ForkError.
var ErrClosed = errors.New("launcher is closed")

// Request describes a single process to launch.
type Request struct {
	// Argv holds the program name followed by its arguments.
	Argv []string
	// Priority is the scheduling niceness to apply, 0 leaves it alone.
	Priority int
}

// Starter creates OS processes for the Launcher.
type Starter interface {
	Start(argv []string) (Process, error)
}

// ExecStarter starts real processes with os/exec. The child inherits the
// given standard streams.
type ExecStarter struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var _ Starter = (*ExecStarter)(nil)

// Start resolves argv[0] on the PATH and runs it without waiting.
func (e *ExecStarter) Start(argv []string) (Process, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

// Kill sends SIGKILL. Once the process has been reaped this returns
// os.ErrProcessDone instead of signalling a recycled pid.
func (p *execProcess) Kill() error {
	return p.cmd.Process.Kill()
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

// Launcher creates processes and records them in a Table.
type Launcher struct {
	Table   *Table
	Starter Starter

	// SetPriority changes the niceness of a running process.
	SetPriority func(pid, priority int) error

	// Logger gets debug output, it may be nil.
	Logger *log.Logger
	// Events gets job lifecycle events, it may be nil.
	Events *logger.SessionLogger

	// mu is held from process creation until the process is in the table.
	mu     sync.Mutex
	closed bool
}

// NewLauncher creates a launcher that adds to table.
func NewLauncher(table *Table, starter Starter) *Launcher {
	return &Launcher{
		Table:       table,
		Starter:     starter,
		SetPriority: setPriority,
	}
}

func setPriority(pid, priority int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, pid, priority)
}

func (l *Launcher) debugf(format string, a ...interface{}) {
	if l.Logger != nil {
		l.Logger.Printf(format, a...)
	}
}

// Launch starts a single process and tracks it.
//
// Failures are cmderr.InvalidProcessInput when the program can't be found or
// run, and cmderr.ForkError when the OS couldn't create a process at all.
// Priority is applied after the job is tracked; failing to set it doesn't
// fail the launch.
func (l *Launcher) Launch(req Request) (int, error) {
	if len(req.Argv) == 0 || req.Argv[0] == "" {
		l.recordFailure(req, cmderr.InvalidProcessInput)
		return 0, cmderr.InvalidProcessInput
	}

	proc, err := l.startTracked(req.Argv)
	if err != nil {
		l.debugf("couldn't start %q: %v", req.Argv[0], err)
		code := classifyStartError(err)
		l.recordFailure(req, code)
		return 0, code
	}

	pid := proc.Pid()

	if req.Priority != 0 && l.SetPriority != nil {
		if err := l.SetPriority(pid, req.Priority); err != nil {
			l.debugf("couldn't set priority of %d to %d: %v", pid, req.Priority, err)
		}
	}

	l.Events.Record(logger.EventLaunch, logger.Fields{
		"pid":      pid,
		"argv":     logger.StringList(req.Argv),
		"priority": req.Priority,
	})

	go l.reap(pid, proc)
	return pid, nil
}

// startTracked creates the process and adds it to the table as one step, so
// Close never observes a process that exists but isn't tracked.
func (l *Launcher) startTracked(argv []string) (Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}

	proc, err := l.Starter.Start(argv)
	if err != nil {
		return nil, err
	}
	l.Table.Add(proc)
	return proc, nil
}

// Close waits for a launch in progress to be tracked, then refuses every
// later launch with cmderr.ForkError. Call it before draining the table for
// good.
func (l *Launcher) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
}

// reap collects the exit status so finished children don't linger. The table
// isn't touched.
func (l *Launcher) reap(pid int, proc Process) {
	err := proc.Wait()

	status := ""
	if err != nil {
		status = err.Error()
	}
	l.debugf("job %d exited: %v", pid, err)
	l.Events.Record(logger.EventExited, logger.Fields{
		"pid":    pid,
		"status": status,
	})
}

func (l *Launcher) recordFailure(req Request, code cmderr.Code) {
	l.Events.Record(logger.EventLaunchFailed, logger.Fields{
		"argv":  logger.StringList(req.Argv),
		"error": code.String(),
	})
}

// LaunchAll splits tokens on the conjunction and launches each group left to
// right. The first failure stops processing and is returned.
func (l *Launcher) LaunchAll(tokens []string) error {
	for _, argv := range SplitConjunction(tokens) {
		if _, err := l.Launch(Request{Argv: argv}); err != nil {
			return err
		}
	}
	return nil
}

// SplitConjunction partitions tokens into groups separated by "&&". Empty
// groups are kept so a dangling conjunction fails to launch.
func SplitConjunction(tokens []string) [][]string {
	var groups [][]string
	current := []string{}
	for _, tok := range tokens {
		if tok == Conjunction {
			groups = append(groups, current)
			current = []string{}
			continue
		}
		current = append(current, tok)
	}
	return append(groups, current)
}

func classifyStartError(err error) cmderr.Code {
	var execErr *exec.Error
	switch {
	case errors.As(err, &execErr),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, unix.ENOEXEC),
		errors.Is(err, unix.EISDIR),
		errors.Is(err, unix.ENOTDIR):
		return cmderr.InvalidProcessInput
	default:
		return cmderr.ForkError
	}
}
