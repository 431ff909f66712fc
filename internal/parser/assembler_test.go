package parser

import (
	"testing"

	"github.com/rs/zerolog"
)

const threeEntries = "2024-01-01 00:00:01 hostA svcA: boot ok\n" +
	"2024-01-01 00:00:02 hostA svcB: listening\n" +
	"2024-01-01 00:00:03 hostA svcA: ready\n"

func TestAssembleWellFormed(t *testing.T) {
	compiled, err := Compile(testScheme())
	if err != nil {
		t.Fatal(err)
	}

	records, stats := compiled.Assemble(threeEntries, PolicyDrop, zerolog.Nop())
	if stats.Parsed != 3 || stats.Dropped != 0 {
		t.Fatalf("expected 3 parsed, 0 dropped, got %+v", stats)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Timestamp != int64(1704067201)*1_000_000 {
		t.Errorf("unexpected timestamp %d", first.Timestamp)
	}
	if first.Hostname != "hostA" || first.Service != "svcA" || first.Message != "boot ok" {
		t.Errorf("unexpected record %+v", first)
	}
}

func TestAssembleDropPolicy(t *testing.T) {
	compiled, err := Compile(testScheme())
	if err != nil {
		t.Fatal(err)
	}

	text := "no timestamp here\n" + threeEntries
	records, stats := compiled.Assemble(text, PolicyDrop, zerolog.Nop())
	if len(records) != 3 {
		t.Errorf("expected unmatched candidate to be dropped, got %d records", len(records))
	}
	if stats.Dropped != 1 {
		t.Errorf("expected 1 dropped, got %d", stats.Dropped)
	}
}

func TestAssembleAppendPolicy(t *testing.T) {
	compiled, err := Compile(testScheme())
	if err != nil {
		t.Fatal(err)
	}

	// The second entry's timestamp is well-shaped but not a real date,
	// so extraction succeeds and timestamp parsing fails.
	text := "2024-01-01 00:00:01 hostA svcA: panic\n" +
		"2024-01-99 00:00:00 hostA svcA: stack frame 1\n"
	records, stats := compiled.Assemble(text, PolicyAppend, zerolog.Nop())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if stats.Continuations != 1 {
		t.Errorf("expected 1 continuation, got %d", stats.Continuations)
	}
	want := "panic\n2024-01-99 00:00:00 hostA svcA: stack frame 1\n"
	if records[0].Message != want {
		t.Errorf("expected continuation appended to message:\nwant %q\ngot  %q", want, records[0].Message)
	}
}

func TestAssembleAppendWithoutPreviousRecord(t *testing.T) {
	compiled, err := Compile(testScheme())
	if err != nil {
		t.Fatal(err)
	}

	records, stats := compiled.Assemble("orphan line with nothing to join\n", PolicyAppend, zerolog.Nop())
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
	if stats.Dropped != 1 {
		t.Errorf("expected orphan to count as dropped, got %+v", stats)
	}
}

func TestAssembleWarnPolicyKeepsGoing(t *testing.T) {
	compiled, err := Compile(testScheme())
	if err != nil {
		t.Fatal(err)
	}

	// A malformed entry in the middle must not abort the batch.
	text := "2024-01-01 00:00:01 hostA svcA: first\n" +
		"2024-01-99 00:00:00 hostA svcA: bad date\n" +
		"2024-01-01 00:00:03 hostA svcA: last\n"
	records, stats := compiled.Assemble(text, PolicyWarn, zerolog.Nop())
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if stats.Parsed != 2 || stats.Dropped != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if records[1].Message != "last" {
		t.Errorf("expected processing to continue past the bad entry, got %+v", records[1])
	}
}

func TestParsePolicy(t *testing.T) {
	for name, want := range map[string]UnmatchedPolicy{
		"drop":   PolicyDrop,
		"warn":   PolicyWarn,
		"append": PolicyAppend,
	} {
		got, err := ParsePolicy(name)
		if err != nil {
			t.Errorf("ParsePolicy(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParsePolicy("bogus"); err == nil {
		t.Error("expected error for unknown policy name")
	}
}
