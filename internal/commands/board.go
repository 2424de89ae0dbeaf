package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mywork/internal/config"
	"mywork/internal/exitcode"
	"mywork/internal/retriever"
	"mywork/internal/service"
	"mywork/internal/tui"
)

func init() {
	Register(&BoardCmd{})
}

// BoardCmd implements the board command, an interactive view that refreshes
// in the background.
type BoardCmd struct {
	// options are appended to the program options (for testing).
	options []tea.ProgramOption
}

func (c *BoardCmd) Name() string      { return "board" }
func (c *BoardCmd) Aliases() []string { return []string{"ui"} }
func (c *BoardCmd) Synopsis() string  { return "Interactive work item board" }
func (c *BoardCmd) Usage() string     { return "mywork board [common flags]" }
func (c *BoardCmd) NeedsAuth() bool   { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	r := retriever.New(src, cfg.Logger)
	defer r.Shutdown()

	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	}, c.options...)
	p := tea.NewProgram(tui.New(r, cfg.Settings.PollInterval), opts...)

	// Callbacks run on the worker goroutine; Send hands them to the UI loop.
	r.OnWorkitemsReady(func(rs *service.ResultSet) {
		p.Send(tui.WorkitemsMsg{ResultSet: rs, At: time.Now()})
	})
	r.OnFetchError(func(err error) {
		p.Send(tui.FetchErrorMsg{Err: err, At: time.Now()})
	})

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
