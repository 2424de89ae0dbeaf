package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mywork/internal/config"
	"mywork/internal/exitcode"
	"mywork/internal/retriever"
	"mywork/internal/service"
)

type fetchResult struct {
	rs  *service.ResultSet
	err error
}

// fetchOnce runs a single retriever cycle and waits for its event.
func fetchOnce(ctx context.Context, cfg *config.Config, src service.Source) (*service.ResultSet, error) {
	r := retriever.New(src, cfg.Logger)

	// One cycle publishes exactly one event, so a single slot never blocks the worker.
	results := make(chan fetchResult, 1)
	r.OnWorkitemsReady(func(rs *service.ResultSet) {
		results <- fetchResult{rs: rs}
	})
	r.OnFetchError(func(err error) {
		results <- fetchResult{err: err}
	})

	r.RequestFetch()

	select {
	case res := <-results:
		// The cycle has published, so the worker is idle and exits at once.
		r.Shutdown()
		<-r.Done()
		return res.rs, res.err
	case <-ctx.Done():
		r.Shutdown()
		return nil, ctx.Err()
	}
}

// reportFetchError prints err and returns the matching exit code.
func reportFetchError(errOut io.Writer, err error) int {
	var authErr *service.AuthError
	switch {
	case errors.As(err, &authErr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
