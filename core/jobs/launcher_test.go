package jobs_test

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/josephlewis42/mercury/core/cmderr"
	"github.com/josephlewis42/mercury/core/jobs"
	"github.com/josephlewis42/mercury/core/jobs/jobstest"
	"github.com/josephlewis42/mercury/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitConjunction(t *testing.T) {
	cases := map[string]struct {
		tokens   []string
		expected [][]string
	}{
		"single":   {[]string{"sleep", "1"}, [][]string{{"sleep", "1"}}},
		"two":      {[]string{"true", "&&", "false"}, [][]string{{"true"}, {"false"}}},
		"three":    {strings.Split("a 1 && b && c 3", " "), [][]string{{"a", "1"}, {"b"}, {"c", "3"}}},
		"leading":  {[]string{"&&", "ls"}, [][]string{{}, {"ls"}}},
		"trailing": {[]string{"ls", "&&"}, [][]string{{"ls"}, {}}},
		"glued":    {[]string{"ls&&pwd"}, [][]string{{"ls&&pwd"}}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, jobs.SplitConjunction(tc.tokens))
		})
	}
}

func TestLauncher_Launch(t *testing.T) {
	starter := jobstest.NewStarter()
	launcher, priorities := jobstest.NewLauncher(starter)

	pid, err := launcher.Launch(jobs.Request{Argv: []string{"sleep", "100"}})

	require.Nil(t, err)
	assert.Equal(t, []int{pid}, launcher.Table.Pids())
	assert.Equal(t, [][]string{{"sleep", "100"}}, starter.Started())
	assert.Empty(t, priorities, "neutral priority shouldn't be applied")
}

func TestLauncher_Launch_priority(t *testing.T) {
	launcher, priorities := jobstest.NewLauncher(jobstest.NewStarter())

	pid, err := launcher.Launch(jobs.Request{Argv: []string{"yes"}, Priority: 10})

	require.Nil(t, err)
	assert.Equal(t, 10, priorities[pid])
}

func TestLauncher_Launch_priorityFailureIgnored(t *testing.T) {
	launcher := jobs.NewLauncher(jobs.NewTable(), jobstest.NewStarter())
	launcher.SetPriority = func(pid, priority int) error {
		return errors.New("permission denied")
	}

	pid, err := launcher.Launch(jobs.Request{Argv: []string{"yes"}, Priority: -20})

	assert.Nil(t, err)
	assert.True(t, launcher.Table.Contains(pid))
}

func TestLauncher_Launch_failures(t *testing.T) {
	cases := map[string]struct {
		argv     []string
		expected cmderr.Code
	}{
		"missing":    {[]string{"missing"}, cmderr.InvalidProcessInput},
		"unforkable": {[]string{"fork-bomb"}, cmderr.ForkError},
		"empty-argv": {[]string{}, cmderr.InvalidProcessInput},
		"empty-name": {[]string{"", "arg"}, cmderr.InvalidProcessInput},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			starter := jobstest.NewStarter("missing")
			starter.Unforkable = map[string]bool{"fork-bomb": true}
			launcher, _ := jobstest.NewLauncher(starter)

			_, err := launcher.Launch(jobs.Request{Argv: tc.argv})

			assert.Equal(t, tc.expected, err)
			assert.Equal(t, 0, launcher.Table.Len())
		})
	}
}

func TestLauncher_LaunchAll(t *testing.T) {
	starter := jobstest.NewStarter()
	launcher, _ := jobstest.NewLauncher(starter)

	err := launcher.LaunchAll(strings.Split("true && false && true", " "))

	require.Nil(t, err)
	assert.Equal(t, [][]string{{"true"}, {"false"}, {"true"}}, starter.Started())
	assert.Equal(t, 3, launcher.Table.Len())
}

func TestLauncher_LaunchAll_single(t *testing.T) {
	starter := jobstest.NewStarter()
	launcher, _ := jobstest.NewLauncher(starter)

	require.Nil(t, launcher.LaunchAll([]string{"sleep", "100"}))

	assert.Len(t, starter.Started(), 1)
	assert.Equal(t, 1, launcher.Table.Len())
}

func TestLauncher_LaunchAll_stopsOnFailure(t *testing.T) {
	starter := jobstest.NewStarter("missing")
	launcher, _ := jobstest.NewLauncher(starter)

	err := launcher.LaunchAll(strings.Split("true && missing && never", " "))

	assert.Equal(t, cmderr.InvalidProcessInput, err)
	assert.Equal(t, [][]string{{"true"}, {"missing"}}, starter.Started())
	assert.Equal(t, 1, launcher.Table.Len())
}

func TestLauncher_LaunchAll_firstFails(t *testing.T) {
	starter := jobstest.NewStarter("missing")
	launcher, _ := jobstest.NewLauncher(starter)

	err := launcher.LaunchAll([]string{"missing", "&&", "true"})

	assert.Equal(t, cmderr.InvalidProcessInput, err)
	assert.Equal(t, [][]string{{"missing"}}, starter.Started())
	assert.Equal(t, 0, launcher.Table.Len())
}

func TestLauncher_Close(t *testing.T) {
	starter := jobstest.NewStarter()
	launcher, _ := jobstest.NewLauncher(starter)
	pid, err := launcher.Launch(jobs.Request{Argv: []string{"sleep", "100"}})
	require.Nil(t, err)

	launcher.Close()

	_, err = launcher.Launch(jobs.Request{Argv: []string{"sleep", "200"}})
	assert.Equal(t, cmderr.ForkError, err)
	assert.Equal(t, cmderr.ForkError, launcher.LaunchAll([]string{"true"}))
	assert.Len(t, starter.Started(), 1)
	assert.Equal(t, []int{pid}, launcher.Table.Pids(), "tracked jobs are left for the caller to kill")
}

// lockedBuffer is written by the reaper goroutines and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLauncher_events(t *testing.T) {
	var buf lockedBuffer
	starter := jobstest.NewStarter("missing")
	launcher, _ := jobstest.NewLauncher(starter)
	launcher.Events = logger.NewJsonLinesLogRecorder(&buf).NewSession()

	pid, err := launcher.Launch(jobs.Request{Argv: []string{"sleep", "1"}})
	require.Nil(t, err)
	_, err = launcher.Launch(jobs.Request{Argv: []string{"missing"}})
	require.NotNil(t, err)

	// Killing the fake lets the reaper record the exit.
	require.Nil(t, launcher.Table.Kill(pid))
	assert.Eventually(t, func() bool {
		return strings.Count(buf.String(), "\n") == 3
	}, time.Second, 10*time.Millisecond)

	var report logger.Report
	require.Nil(t, logger.ReadJSONLinesLog(strings.NewReader(buf.String()), report.Update))
	assert.Equal(t, 1, report.Launches.Started.Get("sleep"))
	assert.Equal(t, 1, report.Launches.Failed.Get("missing", "INVALID_PROCESS_INPUT"))
	assert.Equal(t, 1, report.Events.Get(logger.EventExited))
}

func lookPathOrSkip(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}
}

func TestExecStarter_sleepAndKill(t *testing.T) {
	lookPathOrSkip(t, "sleep")

	launcher := jobs.NewLauncher(jobs.NewTable(), &jobs.ExecStarter{})

	pid, err := launcher.Launch(jobs.Request{Argv: []string{"sleep", "100"}})
	require.Nil(t, err)
	assert.Greater(t, pid, 0)
	assert.Equal(t, []int{pid}, launcher.Table.Pids())

	assert.Nil(t, launcher.Table.Kill(pid))
	assert.Equal(t, 0, launcher.Table.Len())
}

func TestExecStarter_exitCodeIrrelevant(t *testing.T) {
	lookPathOrSkip(t, "true", "false")

	launcher := jobs.NewLauncher(jobs.NewTable(), &jobs.ExecStarter{})

	err := launcher.LaunchAll(strings.Split("true && false && true", " "))

	assert.Nil(t, err)
	assert.Equal(t, 3, launcher.Table.Len())

	// Killing jobs that already exited isn't an error.
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, launcher.Table.KillAll(), 3)
}

func TestExecStarter_notFound(t *testing.T) {
	launcher := jobs.NewLauncher(jobs.NewTable(), &jobs.ExecStarter{})

	_, err := launcher.Launch(jobs.Request{Argv: []string{"mercury-no-such-program-xyz"}})
	assert.Equal(t, cmderr.InvalidProcessInput, err)

	_, err = launcher.Launch(jobs.Request{Argv: []string{"/does/not/exist"}})
	assert.Equal(t, cmderr.InvalidProcessInput, err)

	assert.Equal(t, 0, launcher.Table.Len())
}
