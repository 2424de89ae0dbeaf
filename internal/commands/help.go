package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"mywork/internal/config"
	"mywork/internal/exitcode"
	"mywork/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "mywork help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-10s %s\n", cmd.Name(), cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  mywork                                  List your stories and tasks
  mywork list [common flags]              Same as above
  mywork watch [common flags] [--interval <duration>] [--count <n>]
                                          Refresh and print periodically
  mywork board [common flags]             Interactive board
  mywork login [common flags]
  mywork logout [common flags] [--revoke]
  mywork help
  mywork version [--verbose]

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Settings (config.yaml in the config directory, or MYWORK_* environment):
  log_level        debug, info, warn or error (default warn)
  poll_interval    refresh interval for watch and board (default 1m)
  api_timeout      timeout for each remote query (default 10s)
`
