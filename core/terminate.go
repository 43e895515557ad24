package core

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/josephlewis42/mercury/commands"
	"github.com/josephlewis42/mercury/core/logger"
)

const farewell = "M E R C I F U L"

// Terminate kills every tracked job and exits with the configured status.
//
// Only the first call does anything, later calls block until it's done. A
// launch already creating a process is allowed to finish so its job is
// killed too, later launches are refused.
func (s *Shell) Terminate() {
	s.terminateOnce.Do(func() {
		s.session.Launcher.Close()

		pids := s.session.Jobs.Pids()
		_ = commands.Killall(s.session, nil)

		s.session.Events.Record(logger.EventTerminate, logger.Fields{
			"pids":        logger.IntList(pids),
			"exit_status": s.exitStatus,
		})

		out := s.session.Stdout
		fmt.Fprintln(out, s.session.Color.Sprintf(commands.ColorRed, "%s", farewell))

		if s.exit != nil {
			s.exit(s.exitStatus)
		}
	})
}

// WatchInterrupts starts a goroutine that runs Terminate when the process
// receives an interrupt. The watcher stops when ctx is done.
func (s *Shell) WatchInterrupts(ctx context.Context) {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)

	go func() {
		defer signal.Stop(interrupts)
		s.watch(ctx, interrupts)
	}()
}

func (s *Shell) watch(ctx context.Context, interrupts <-chan os.Signal) {
	select {
	case sig := <-interrupts:
		s.logger.Printf("got signal %q, terminating", sig)
		s.Terminate()
	case <-ctx.Done():
	}
}
