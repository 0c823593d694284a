// Package git runs the git commands backing changed-filter.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/brady-zip/changed-filter/internal/log"
)

// LookupPath is used to find executables in PATH. It's exposed as a package
// variable so tests can mock it and avoid depending on system binaries
// being installed.
var LookupPath = exec.LookPath

// Sentinel errors for the two environment failures the tool can name.
var (
	// ErrNotARepository means the directory (and none of its ancestors)
	// is under version control.
	ErrNotARepository = errors.New("not a git repository")

	// ErrGitNotFound means the git binary is not resolvable on PATH.
	ErrGitNotFound = errors.New("git executable not found in PATH")
)

// ProcessError reports a git subprocess that exited non-zero for any
// reason other than "not a repository". Stderr carries the captured
// diagnostics.
type ProcessError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" {
		return fmt.Sprintf("git %s: exit %d", strings.Join(e.Args, " "), e.ExitCode)
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), detail)
}

// Runner executes git subcommands against a working directory. It holds no
// state; every call shells out fresh so results are always current as of
// invocation time.
type Runner struct{}

// NewRunner constructs a Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// run executes `git args...` with cwd as the working directory and returns
// captured stdout. Failures map onto the error taxonomy: ErrGitNotFound
// when the binary is missing, *ProcessError for non-zero exits.
func (r *Runner) run(ctx context.Context, cwd string, args ...string) (string, error) {
	log.Printf("run: git %s (cwd=%s)", strings.Join(args, " "), cwd)

	if _, err := LookupPath("git"); err != nil {
		log.Printf("error: %v", ErrGitNotFound)
		return "", ErrGitNotFound
	}

	// #nosec G204 -- arguments come from internal logic, never user shell input
	cmd := exec.CommandContext(ctx, "git", args...)
	if cwd != "" {
		cmd.Dir = cwd
	}

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr := &ProcessError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stderr:   string(exitErr.Stderr),
			}
			log.Printf("error: %v", perr)
			return "", perr
		}
		log.Printf("error: git %s: %v", strings.Join(args, " "), err)
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return string(output), nil
}

// ResolveRepoRoot returns the top-level directory of the repository that
// contains dir. Any non-zero exit of the rev-parse query is exactly the
// "not a repository" condition.
func (r *Runner) ResolveRepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := r.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		var perr *ProcessError
		if errors.As(err, &perr) {
			return "", fmt.Errorf("%w: %s", ErrNotARepository, dir)
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ReadStatus returns the raw porcelain status output for the repository
// rooted at root, verbatim. An empty result means a clean tree.
func (r *Runner) ReadStatus(ctx context.Context, root string) (string, error) {
	return r.run(ctx, root, "status", "--porcelain")
}

// CommonDir resolves the git common directory for the repository, used by
// the auto-refresh watcher. Returns "" when it cannot be determined.
func (r *Runner) CommonDir(ctx context.Context, root string) string {
	out, err := r.run(ctx, root, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
