package cmd

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/atikulmunna/weft/internal/parser"
	"github.com/atikulmunna/weft/internal/stream"
	"github.com/atikulmunna/weft/internal/transport"
)

var readCmd = &cobra.Command{
	Use:   "read <glob>...",
	Short: "Parse already-captured log files and merge them",
	Long: `Read parses one or more previously captured log files (glob patterns
are supported, including recursive ** patterns), merges them into one
timeline, and prints the result.

Examples:
  weft read /var/log/capture/web1.log
  weft read "/var/log/capture/**/*.log" --include ERROR`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	log := newLogger()

	compiled, policy, err := loadScheme()
	if err != nil {
		return err
	}

	paths, err := expandGlobs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}

	merged := stream.New(nil)
	var stats parser.Stats
	read := 0
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Str("file", path).Err(err).Msg("file not read, skipping")
			continue
		}
		read++
		records, s := compiled.Assemble(transport.Decode(raw), policy, log.With().Str("file", path).Logger())
		stats.Parsed += s.Parsed
		stats.Dropped += s.Dropped
		stats.Continuations += s.Continuations
		merged = stream.Merge(merged, stream.New(records))
	}

	if err := render(merged.Filter(excludeTerms, includeTerms)); err != nil {
		return err
	}
	log.Info().
		Int("files", read).
		Int("parsed", stats.Parsed).
		Int("dropped", stats.Dropped).
		Int("continuations", stats.Continuations).
		Msg("read finished")
	return nil
}

// expandGlobs resolves each pattern, supporting recursive ** matches.
func expandGlobs(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}
