package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime"

	"mywork/internal/config"
	"mywork/internal/exitcode"
	"mywork/internal/service"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd implements the version command.
type VersionCmd struct {
	verbose bool
}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "mywork version [--verbose]" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "verbose", false, "")
}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "mywork %s\n", Version)
	if c.verbose {
		fmt.Fprintf(out, "go:            %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "config dir:    %s\n", cfg.Dir)
		fmt.Fprintf(out, "poll interval: %s\n", cfg.Settings.PollInterval)
		fmt.Fprintf(out, "api timeout:   %s\n", cfg.Settings.APITimeout)
	}
	return exitcode.Success
}
