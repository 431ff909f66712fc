package transport

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// DefaultTimeout bounds both the SSH dial and the remote command run
// when the caller's context carries no deadline of its own.
const DefaultTimeout = 30 * time.Second

// Remote runs executables on another host over SSH. Host keys are
// verified strictly against the known-hosts file; an unknown or
// mismatched key fails the connection rather than falling back to
// trust-on-first-use.
type Remote struct {
	Addr           string // host or host:port
	User           string
	KnownHostsFile string // defaults to ~/.ssh/known_hosts
	IdentityFile   string // empty means use the SSH agent
	Timeout        time.Duration
}

// Run executes the named program on the remote host and captures its
// stdout. The session is closed after the capture. Handshake,
// authentication, and mid-session I/O failures are TransportErrors.
func (r Remote) Run(ctx context.Context, name string, args []string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg, err := r.clientConfig(timeout)
	if err != nil {
		return "", err
	}

	addr := r.Addr
	if !strings.Contains(addr, ":") {
		addr = net.JoinHostPort(addr, "22")
	}

	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return "", &TransportError{Op: "dial", Target: addr, Err: err}
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", &TransportError{Op: "session", Target: addr, Err: err}
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(commandLine(name, args)) }()

	select {
	case <-ctx.Done():
		client.Close()
		return "", &TransportError{Op: "run", Target: addr, Err: ctx.Err()}
	case err := <-done:
		if err != nil {
			if msg := firstLine(stderr.String()); msg != "" {
				err = fmt.Errorf("%w: %s", err, msg)
			}
			return "", &TransportError{Op: "run", Target: addr, Err: err}
		}
	}

	return Decode(stdout.Bytes()), nil
}

func (r Remote) clientConfig(timeout time.Duration) (*ssh.ClientConfig, error) {
	knownHosts := r.KnownHostsFile
	if knownHosts == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, &TransportError{Op: "config", Target: r.Addr, Err: err}
		}
		knownHosts = filepath.Join(home, ".ssh", "known_hosts")
	}
	hostKeyCallback, err := knownhosts.New(knownHosts)
	if err != nil {
		return nil, &TransportError{Op: "config", Target: r.Addr, Err: err}
	}

	auth, err := r.authMethod()
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		User:            r.User,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}, nil
}

func (r Remote) authMethod() (ssh.AuthMethod, error) {
	if r.IdentityFile != "" {
		key, err := os.ReadFile(r.IdentityFile)
		if err != nil {
			return nil, &TransportError{Op: "auth", Target: r.Addr, Err: err}
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, &TransportError{Op: "auth", Target: r.Addr, Err: err}
		}
		return ssh.PublicKeys(signer), nil
	}

	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, &TransportError{Op: "auth", Target: r.Addr, Err: fmt.Errorf("no identity file configured and SSH_AUTH_SOCK is unset")}
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, &TransportError{Op: "auth", Target: r.Addr, Err: err}
	}
	return ssh.PublicKeysCallback(agent.NewClient(conn).Signers), nil
}

// commandLine assembles the remote command string, quoting arguments
// that the remote shell would otherwise split.
func commandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$&|;<>()*?[]#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
