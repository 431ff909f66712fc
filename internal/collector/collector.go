// Package collector runs one command invocation per host, parses each
// capture, and merges the per-host chronologies into one timeline.
package collector

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/atikulmunna/weft/internal/model"
	"github.com/atikulmunna/weft/internal/parser"
	"github.com/atikulmunna/weft/internal/stream"
)

// Runner is the subset of the transport layer we use: run a named
// executable somewhere and hand back its captured stdout.
type Runner interface {
	Run(ctx context.Context, name string, args []string) (string, error)
}

// Job names one source: a host label plus the runner that reaches it.
type Job struct {
	Host   string
	Runner Runner
}

// Fault records a source that could not be collected.
type Fault struct {
	Host string
	Err  error
}

// Summary reports per-source and per-record outcomes of one collection.
type Summary struct {
	Succeeded     int
	Failed        int
	Faults        []Fault
	Parsed        int
	Dropped       int
	Continuations int
}

// Collector fans a command out to every job and assembles the results.
type Collector struct {
	scheme  *parser.CompiledScheme
	policy  parser.UnmatchedPolicy
	command string
	args    []string
	workers int
	log     zerolog.Logger
}

// New creates a Collector. workers bounds the number of concurrent
// invocations; it is clamped to the job count at collection time.
func New(scheme *parser.CompiledScheme, policy parser.UnmatchedPolicy, command string, args []string, workers int, log zerolog.Logger) *Collector {
	if workers <= 0 {
		workers = 1
	}
	return &Collector{
		scheme:  scheme,
		policy:  policy,
		command: command,
		args:    args,
		workers: workers,
		log:     log,
	}
}

type result struct {
	host    string
	records []model.LogRecord
	stats   parser.Stats
	err     error
}

// Collect runs the command on every job, parses each capture, and
// merges all per-host streams into one. Every invocation is joined
// before the merge. A failing source contributes an empty stream plus a
// recorded fault; it never aborts the batch.
func (c *Collector) Collect(ctx context.Context, jobs []Job) (*stream.Stream, Summary) {
	workers := c.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobChan := make(chan Job, len(jobs))
	resultChan := make(chan result, len(jobs))

	for _, j := range jobs {
		jobChan <- j
	}
	close(jobChan)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				resultChan <- c.collectOne(ctx, job)
			}
		}()
	}
	wg.Wait()
	close(resultChan)

	merged := stream.New(nil)
	var summary Summary
	for res := range resultChan {
		if res.err != nil {
			summary.Failed++
			summary.Faults = append(summary.Faults, Fault{Host: res.host, Err: res.err})
			c.log.Warn().Str("host", res.host).Err(res.err).Msg("source failed, substituting empty stream")
			continue
		}
		summary.Succeeded++
		summary.Parsed += res.stats.Parsed
		summary.Dropped += res.stats.Dropped
		summary.Continuations += res.stats.Continuations
		merged = stream.Merge(merged, stream.New(res.records))
	}

	return merged, summary
}

func (c *Collector) collectOne(ctx context.Context, job Job) result {
	text, err := job.Runner.Run(ctx, c.command, c.args)
	if err != nil {
		return result{host: job.Host, err: err}
	}
	log := c.log.With().Str("host", job.Host).Logger()
	records, stats := c.scheme.Assemble(text, c.policy, log)
	return result{host: job.Host, records: records, stats: stats}
}
