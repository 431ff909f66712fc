package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/atikulmunna/weft/internal/model"
	"github.com/atikulmunna/weft/internal/parser"
)

func testScheme(t *testing.T) *parser.CompiledScheme {
	t.Helper()
	compiled, err := parser.Compile(parser.Scheme{
		DateTime:        `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`,
		Host:            `\w+`,
		Service:         `\w+`,
		Message:         `.*`,
		WholeLine:       "{d} {h} {s}: {m}",
		Delimiter:       `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`,
		TimestampFormat: "%Y-%m-%d %H:%M:%S",
	})
	if err != nil {
		t.Fatal(err)
	}
	return compiled
}

type fakeRunner struct {
	text string
	err  error
}

func (f fakeRunner) Run(ctx context.Context, name string, args []string) (string, error) {
	return f.text, f.err
}

const hostAText = "2024-01-01 00:00:01 hostA sshd: accepted\n" +
	"2024-01-01 00:00:03 hostA sshd: session opened\n" +
	"2024-01-01 00:00:05 hostA sshd: session closed\n"

const hostBText = "2024-01-01 00:00:02 hostB nginx: GET /\n" +
	"2024-01-01 00:00:03 hostB nginx: GET /health\n" +
	"2024-01-01 00:00:04 hostB nginx: POST /login\n"

func TestCollectMergesHostsChronologically(t *testing.T) {
	c := New(testScheme(t), parser.PolicyDrop, "journalctl", nil, 4, zerolog.Nop())

	merged, summary := c.Collect(context.Background(), []Job{
		{Host: "hostA", Runner: fakeRunner{text: hostAText}},
		{Host: "hostB", Runner: fakeRunner{text: hostBText}},
	})

	if summary.Succeeded != 2 || summary.Failed != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.Parsed != 6 {
		t.Errorf("expected 6 parsed records, got %d", summary.Parsed)
	}
	if merged.Len() != 6 {
		t.Fatalf("expected 6 merged records, got %d", merged.Len())
	}

	records := merged.Records()
	for i := 1; i < len(records); i++ {
		if model.Less(records[i], records[i-1]) {
			t.Errorf("merged timeline out of order at %d: %+v before %+v", i, records[i-1], records[i])
		}
	}

	// Same-second entries from both hosts tie-break by hostname.
	if records[2].Hostname != "hostA" || records[3].Hostname != "hostB" {
		t.Errorf("expected hostname tie-break at 00:00:03, got %s then %s", records[2].Hostname, records[3].Hostname)
	}
}

func TestCollectFailingSourceDoesNotAbort(t *testing.T) {
	c := New(testScheme(t), parser.PolicyDrop, "journalctl", nil, 2, zerolog.Nop())

	merged, summary := c.Collect(context.Background(), []Job{
		{Host: "hostA", Runner: fakeRunner{text: hostAText}},
		{Host: "down.example.net", Runner: fakeRunner{err: errors.New("connection refused")}},
	})

	if summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(summary.Faults) != 1 || summary.Faults[0].Host != "down.example.net" {
		t.Fatalf("expected recorded fault for the failing host, got %+v", summary.Faults)
	}
	if merged.Len() != 3 {
		t.Errorf("expected the healthy host's 3 records, got %d", merged.Len())
	}
}

func TestCollectNoJobs(t *testing.T) {
	c := New(testScheme(t), parser.PolicyDrop, "journalctl", nil, 4, zerolog.Nop())

	merged, summary := c.Collect(context.Background(), nil)
	if merged.Len() != 0 {
		t.Errorf("expected empty stream, got %d records", merged.Len())
	}
	if summary.Succeeded != 0 || summary.Failed != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestCollectCountsDropped(t *testing.T) {
	c := New(testScheme(t), parser.PolicyWarn, "journalctl", nil, 1, zerolog.Nop())

	text := "-- boot marker --\n" + hostAText
	_, summary := c.Collect(context.Background(), []Job{
		{Host: "hostA", Runner: fakeRunner{text: text}},
	})

	if summary.Parsed != 3 || summary.Dropped != 1 {
		t.Errorf("expected 3 parsed and 1 dropped, got %+v", summary)
	}
}
