package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"mywork/internal/config"
	"mywork/internal/exitcode"
	"mywork/internal/output"
	"mywork/internal/retriever"
	"mywork/internal/service"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command: it refreshes on a timer and prints
// every snapshot until interrupted.
type WatchCmd struct {
	interval time.Duration
	count    int
}

// SetInterval sets the refresh interval (for testing).
func (c *WatchCmd) SetInterval(d time.Duration) {
	c.interval = d
}

// SetCount sets how many snapshots to print before exiting (for testing).
func (c *WatchCmd) SetCount(n int) {
	c.count = n
}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Refresh and print work items periodically" }
func (c *WatchCmd) Usage() string {
	return "mywork watch [common flags] [--interval <duration>] [--count <n>]"
}
func (c *WatchCmd) NeedsAuth() bool { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.interval, "interval", 0, "")
	fs.IntVar(&c.count, "count", 0, "")
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	interval := c.interval
	if interval == 0 {
		interval = cfg.Settings.PollInterval
	}
	if interval <= 0 {
		fmt.Fprintf(errOut, "error: invalid interval: %s\n", interval)
		return exitcode.UserError
	}
	if c.count < 0 {
		fmt.Fprintf(errOut, "error: invalid count: %d\n", c.count)
		return exitcode.UserError
	}

	r := retriever.New(src, cfg.Logger)

	// Events are handed from the worker to this goroutine; stop releases a
	// handler that is still trying to deliver after we stopped reading.
	events := make(chan fetchResult)
	stop := make(chan struct{})
	r.OnWorkitemsReady(func(rs *service.ResultSet) {
		select {
		case events <- fetchResult{rs: rs}:
		case <-stop:
		}
	})
	r.OnFetchError(func(err error) {
		select {
		case events <- fetchResult{err: err}:
		case <-stop:
		}
	})

	defer func() {
		close(stop)
		r.Shutdown()
		<-r.Done()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.RequestFetch()

	var seen int
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			return exitcode.Success

		case <-ticker.C:
			r.RequestFetch()

		case ev := <-events:
			seen++
			lastErr = ev.err
			if ev.err != nil {
				reportFetchError(errOut, ev.err)
			} else {
				output.FormatSnapshotHeader(out, time.Now(), ev.rs)
				if !output.FormatResultSet(out, ev.rs) && !cfg.Quiet {
					fmt.Fprintln(out, output.EmptyMessage)
				}
			}

			if c.count > 0 && seen >= c.count {
				if lastErr != nil {
					return exitCodeFor(lastErr)
				}
				return exitcode.Success
			}
		}
	}
}

func exitCodeFor(err error) int {
	return reportFetchError(io.Discard, err)
}
