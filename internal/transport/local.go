package transport

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Local runs executables on the machine weft itself runs on.
type Local struct{}

// Run executes the named program and captures its stdout. A launch
// failure or non-zero exit is a TransportError with a stderr excerpt
// attached.
func (Local) Run(ctx context.Context, name string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := firstLine(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", &TransportError{Op: "exec", Target: name, Err: err}
	}
	return Decode(stdout.Bytes()), nil
}
