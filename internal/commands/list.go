package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"mywork/internal/config"
	"mywork/internal/exitcode"
	"mywork/internal/output"
	"mywork/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `mywork` (no args) and `mywork list`.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List your stories and tasks" }
func (c *ListCmd) Usage() string     { return "mywork list [common flags]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	rs, err := fetchOnce(ctx, cfg, src)
	if err != nil {
		return reportFetchError(errOut, err)
	}

	if !output.FormatResultSet(out, rs) && !cfg.Quiet {
		fmt.Fprintln(out, output.EmptyMessage)
	}
	return exitcode.Success
}
