// Package scorer runs the external scoring executable and normalizes its
// failure modes.
package scorer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/okian/mindcheck/internal/domain/classify"
)

// DefaultTimeout bounds one scoring run.
const DefaultTimeout = 5 * time.Second

// pipeGrace bounds how long a finished run may linger on output pipes held
// open by children the scorer forked. Without it, Wait blocks until every
// inheritor of stdout exits, which breaks the wall-clock bound.
const pipeGrace = 500 * time.Millisecond

// Option applies a configuration option to the ExecScorer.
type Option func(*ExecScorer)

// WithTimeout overrides the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *ExecScorer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// ExecScorer implements scoring.Scorer by spawning the configured
// executable once per call with the answers as arguments. The executable
// prints the total score on stdout and diagnostics on stderr.
type ExecScorer struct {
	command string
	timeout time.Duration
}

// New creates an ExecScorer for the given executable path.
func New(command string, opts ...Option) *ExecScorer {
	s := &ExecScorer{
		command: command,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score runs the executable and parses its output. The run is bounded by
// the configured timeout plus a short pipe grace; before Score returns, the
// scorer's whole process group is killed, so neither the scorer nor anything
// it forked survives any exit path.
func (s *ExecScorer) Score(ctx context.Context, answers []int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := make([]string, len(answers))
	for i, a := range answers {
		args[i] = strconv.Itoa(a)
	}

	cmd := exec.CommandContext(ctx, s.command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// The scorer gets its own process group so that a kill reaches any
	// children it forked; killing only the direct child would leave a
	// forked inheritor of stdout blocking Wait and running as an orphan.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = pipeGrace

	err := cmd.Run()
	if cmd.Process != nil {
		// Reap anything left in the scorer's group, on every exit path.
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	// A scorer that exited successfully may still surface an error from Run
	// when a forked child held the output pipe open past the deadline or the
	// pipe grace. The scorer itself finished, so its captured output stands.
	scorerExitedOK := cmd.ProcessState != nil && cmd.ProcessState.Success()

	switch {
	case scorerExitedOK:
	case ctx.Err() == context.DeadlineExceeded:
		return 0, fmt.Errorf("%w after %s", ErrTimeout, s.timeout)
	case err != nil:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			diag := strings.TrimSpace(stderr.String())
			if diag == "" {
				diag = "scorer reported no diagnostic"
			}
			return 0, fmt.Errorf("%w: exit code %d: %s", ErrProcessFailure, exitErr.ExitCode(), diag)
		}
		return 0, fmt.Errorf("%w: %v", ErrProcessFailure, err)
	}

	out := strings.TrimSpace(stdout.String())
	total, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedOutput, out)
	}

	// Out-of-range output is a defect in the scorer and is surfaced as an
	// error here, unlike the classifier which clamps its own input.
	if total < classify.MinTotal || total > classify.MaxTotal {
		return 0, fmt.Errorf("%w: %d not in %d-%d", ErrOutOfRange, total, classify.MinTotal, classify.MaxTotal)
	}
	return total, nil
}
