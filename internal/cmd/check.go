package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/NotToDisturb/VersionUtils/internal/cmdtypes"
	"github.com/NotToDisturb/VersionUtils/internal/cmdutil"
	"github.com/NotToDisturb/VersionUtils/internal/detector"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

type checkOpts struct {
	interval time.Duration
	sliding  bool
	watch    bool
}

// NewCheckCmd creates the check command.
func NewCheckCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var opts checkOpts

	c := &cobra.Command{
		Use:   "check",
		Short: "Wait for a new build to go live",
		Long: `Poll the manifest feeds until the latest manifest changes.

The first successful poll records the current manifest. The command exits
when a different manifest replaces it, printing the new manifest and its
version. Failed polls are logged and polling continues.

Examples:
  # Poll every 10 seconds (config: check.interval)
  vutil check

  # Keep reporting new builds until interrupted
  vutil check --watch --interval 30s`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runCheck(c, cfg, &opts)
		},
	}

	c.Flags().DurationVar(&opts.interval, "interval", 0, "Time between polls (default: from config)")
	c.Flags().BoolVar(&opts.sliding, "sliding", false, "Measure the interval from the end of each poll")
	c.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Keep polling after a new build is found")

	return c
}

func runCheck(c *cobra.Command, cfg *cmdtypes.GlobalConfig, opts *checkOpts) error {
	conf, err := cfg.Validated()
	if err != nil {
		return cmdutil.Fail("invalid configuration", err)
	}

	interval := conf.Check.Interval
	if c.Flags().Changed("interval") {
		interval = opts.interval
	}
	if interval <= 0 {
		return cmdutil.Fail("invalid interval", fmt.Errorf("--interval must be positive, got %s", interval))
	}
	sliding := conf.Check.Sliding || opts.sliding
	watch := conf.Check.Watch || opts.watch

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := cmdutil.NewResolver(conf, cmdutil.NewFetcher(conf))
	out := c.OutOrStdout()

	det := &detector.Detector{
		Provider:  resolver,
		Interval:  interval,
		Scheduler: detector.IntervalScheduler{Sliding: sliding},
		Watch:     watch,
		OnChange: func(ev detector.Event) {
			line := "new manifest " + output.StyleNoun.Render(ev.ManifestID)
			if ev.Version != nil {
				line += fmt.Sprintf(" (%s %s)", output.BranchStyle(ev.Version.Branch).Render(ev.Version.Branch), ev.Version.Version)
			}
			fmt.Fprintln(out, output.FormatCheckmark(line))
		},
	}

	output.Info("checking for new manifests", "interval", interval, "sliding", sliding, "watch", watch)

	if _, err := det.Run(ctx); err != nil && !errors.Is(err, detector.ErrStopped) {
		return cmdutil.Fail("manifest check failed", err)
	}
	return nil
}
