package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atikulmunna/weft/internal/collector"
	"github.com/atikulmunna/weft/internal/output"
	"github.com/atikulmunna/weft/internal/parser"
	"github.com/atikulmunna/weft/internal/stream"
	"github.com/atikulmunna/weft/internal/transport"
)

var (
	commandFlag string
	timeoutFlag time.Duration
	workersFlag int
)

var collectCmd = &cobra.Command{
	Use:   "collect [hosts...]",
	Short: "Run the log command on each host and merge the results",
	Long: `Collect runs the configured command on every listed host ("local"
runs it on this machine, anything else is an SSH address), parses each
capture against the scheme, and prints one merged timeline.

Examples:
  weft collect local
  weft collect web1.example.net web2.example.net
  weft collect local db1 --include timeout --exclude healthcheck`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVar(&commandFlag, "command", "", "command to run on each host (overrides config)")
	collectCmd.Flags().DurationVar(&timeoutFlag, "timeout", transport.DefaultTimeout, "per-host invocation timeout")
	collectCmd.Flags().IntVar(&workersFlag, "workers", 4, "maximum concurrent host invocations")
}

func runCollect(cmd *cobra.Command, args []string) error {
	log := newLogger()

	compiled, policy, err := loadScheme()
	if err != nil {
		// Misconfigured deployment, not unusual data. Fail immediately.
		return err
	}

	name, cmdArgs, err := resolveCommand()
	if err != nil {
		return err
	}

	hosts := args
	if len(hosts) == 0 {
		hosts = viper.GetStringSlice("hosts")
	}
	if len(hosts) == 0 {
		return fmt.Errorf("no hosts given (pass them as arguments or set 'hosts' in the config)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeoutFlag)
	defer cancel()

	jobs := make([]collector.Job, 0, len(hosts))
	for _, h := range hosts {
		jobs = append(jobs, collector.Job{Host: h, Runner: runnerFor(h)})
	}

	coll := collector.New(compiled, policy, name, cmdArgs, workersFlag, log)
	merged, summary := coll.Collect(ctx, jobs)

	if err := render(merged.Filter(excludeTerms, includeTerms)); err != nil {
		return err
	}
	reportSummary(log, summary)

	if summary.Succeeded == 0 && summary.Failed > 0 {
		return fmt.Errorf("all %d sources failed", summary.Failed)
	}
	return nil
}

// runnerFor picks the transport for a host label. "local" (or "-") runs
// on this machine; anything else is an SSH address.
func runnerFor(host string) collector.Runner {
	if host == "local" || host == "-" {
		return transport.Local{}
	}
	return transport.Remote{
		Addr:           host,
		User:           viper.GetString("ssh.user"),
		KnownHostsFile: viper.GetString("ssh.known_hosts"),
		IdentityFile:   viper.GetString("ssh.identity_file"),
		Timeout:        timeoutFlag,
	}
}

// loadScheme reads the scheme block from configuration and compiles it.
func loadScheme() (*parser.CompiledScheme, parser.UnmatchedPolicy, error) {
	var scheme parser.Scheme
	if err := viper.UnmarshalKey("scheme", &scheme); err != nil {
		return nil, 0, fmt.Errorf("reading scheme config: %w", err)
	}
	compiled, err := parser.Compile(scheme)
	if err != nil {
		return nil, 0, err
	}
	policy, err := parser.ParsePolicy(unmatched)
	if err != nil {
		return nil, 0, err
	}
	return compiled, policy, nil
}

// resolveCommand returns the executable name and argument list, from
// the --command flag or the config file. The flag form is split on
// whitespace; arguments that need embedded spaces belong in the config
// file's command/args keys.
func resolveCommand() (string, []string, error) {
	if commandFlag != "" {
		parts := strings.Fields(commandFlag)
		return parts[0], parts[1:], nil
	}
	name := viper.GetString("command")
	if name == "" {
		return "", nil, fmt.Errorf("no command configured (use --command or set 'command' in the config)")
	}
	return name, viper.GetStringSlice("args"), nil
}

// render streams every record of s through the renderer picked by
// --output.
func render(s *stream.Stream) error {
	var renderer output.Renderer
	switch strings.ToLower(outputFmt) {
	case "json":
		renderer = output.NewJSONRenderer(os.Stdout)
	default:
		renderer = output.NewTextRenderer(os.Stdout)
	}

	for {
		record, ok := s.Next()
		if !ok {
			return nil
		}
		if err := renderer.Render(record); err != nil {
			return err
		}
	}
}

// reportSummary prints per-source and per-record outcome counts instead
// of failing hard on bad input.
func reportSummary(log zerolog.Logger, summary collector.Summary) {
	for _, fault := range summary.Faults {
		log.Warn().Str("host", fault.Host).Err(fault.Err).Msg("source not collected")
	}
	log.Info().
		Int("sources_ok", summary.Succeeded).
		Int("sources_failed", summary.Failed).
		Int("parsed", summary.Parsed).
		Int("dropped", summary.Dropped).
		Int("continuations", summary.Continuations).
		Msg("collection finished")
}
