package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGitNotFound(t *testing.T) {
	orig := LookupPath
	LookupPath = func(string) (string, error) {
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { LookupPath = orig })

	r := NewRunner()
	_, err := r.ReadStatus(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrGitNotFound)

	_, err = r.ResolveRepoRoot(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrGitNotFound)
	assert.NotErrorIs(t, err, ErrNotARepository)
}

func TestProcessErrorMessage(t *testing.T) {
	withStderr := &ProcessError{
		Args:     []string{"status", "--porcelain"},
		ExitCode: 128,
		Stderr:   "fatal: this operation must be run in a work tree\n",
	}
	assert.Equal(t, "git status --porcelain: fatal: this operation must be run in a work tree", withStderr.Error())

	silent := &ProcessError{Args: []string{"status"}, ExitCode: 1}
	assert.Equal(t, "git status: exit 1", silent.Error())
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "test")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func TestResolveRepoRootOutsideRepository(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	// Make sure no parent repository leaks into the test.
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	r := NewRunner()
	_, err := r.ResolveRepoRoot(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNotARepository)
}

func TestResolveRepoRootFromSubdirectory(t *testing.T) {
	requireGit(t)

	repo := initRepo(t)
	sub := filepath.Join(repo, "deep", "nested")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	r := NewRunner()
	root, err := r.ResolveRepoRoot(context.Background(), sub)
	require.NoError(t, err)

	wantRoot, _ := filepath.EvalSymlinks(repo)
	gotRoot, _ := filepath.EvalSymlinks(root)
	assert.Equal(t, wantRoot, gotRoot)
}

func TestReadStatusCleanAndDirty(t *testing.T) {
	requireGit(t)

	repo := initRepo(t)
	r := NewRunner()

	raw, err := r.ReadStatus(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, raw)

	require.NoError(t, os.WriteFile(filepath.Join(repo, "c.txt"), []byte("x\n"), 0o600))
	raw, err = r.ReadStatus(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, "?? c.txt\n", raw)

	// Two reads with no intervening change are identical.
	again, err := r.ReadStatus(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestReadStatusProcessFailure(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	r := NewRunner()
	_, err := r.ReadStatus(context.Background(), dir)
	require.Error(t, err)

	var perr *ProcessError
	require.True(t, errors.As(err, &perr))
	assert.NotZero(t, perr.ExitCode)
	assert.NotEmpty(t, perr.Stderr)
}

func TestCommonDir(t *testing.T) {
	requireGit(t)

	repo := initRepo(t)
	r := NewRunner()

	common := r.CommonDir(context.Background(), repo)
	require.NotEmpty(t, common)
	assert.True(t, filepath.IsAbs(common))

	info, err := os.Stat(common)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
