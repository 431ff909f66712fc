package transport

import (
	"context"
	"errors"
	"testing"
)

func TestLocalRun(t *testing.T) {
	out, err := Local{}.Run(context.Background(), "echo", []string{"hello", "weft"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello weft\n" {
		t.Errorf("expected 'hello weft\\n', got %q", out)
	}
}

func TestLocalRunMissingExecutable(t *testing.T) {
	_, err := Local{}.Run(context.Background(), "/no/such/binary", nil)

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.Op != "exec" {
		t.Errorf("expected op 'exec', got %q", terr.Op)
	}
}

func TestLocalRunNonZeroExit(t *testing.T) {
	_, err := Local{}.Run(context.Background(), "false", nil)

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError for non-zero exit, got %v", err)
	}
}

func TestDecodeReplacesInvalidBytes(t *testing.T) {
	got := Decode([]byte{0xff, 'o', 'k'})
	if got != "�ok" {
		t.Errorf("expected lossy substitution, got %q", got)
	}
}

func TestDecodeValidText(t *testing.T) {
	if got := Decode([]byte("plain text")); got != "plain text" {
		t.Errorf("expected text unchanged, got %q", got)
	}
}

func TestCommandLineQuoting(t *testing.T) {
	got := commandLine("journalctl", []string{"-u", "my service", "--since", "1 hour ago"})
	want := "journalctl -u 'my service' --since '1 hour ago'"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestShellQuotePlainArg(t *testing.T) {
	if got := shellQuote("abc-123"); got != "abc-123" {
		t.Errorf("expected plain arg untouched, got %q", got)
	}
}

func TestRemoteRejectsMissingKnownHosts(t *testing.T) {
	r := Remote{Addr: "example.invalid", User: "root", KnownHostsFile: "/no/such/known_hosts"}

	_, err := r.Run(context.Background(), "true", nil)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.Op != "config" {
		t.Errorf("expected op 'config', got %q", terr.Op)
	}
}
