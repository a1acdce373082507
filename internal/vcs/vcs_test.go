package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", root}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	return root
}

func writeAndCommit(t *testing.T, root, path, content, msg string) {
	t.Helper()
	full := filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	cmd := exec.Command("git", "-C", root, "add", path)
	require.NoError(t, cmd.Run())
	cmd = exec.Command("git", "-C", root, "commit", "-q", "-m", msg)
	require.NoError(t, cmd.Run())
}

func TestEnsureRepo_RejectsNonGitDirectory(t *testing.T) {
	g := New()
	err := g.EnsureRepo(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestEnsureRepo_AcceptsGitDirectory(t *testing.T) {
	g := New()
	root := initRepo(t)
	assert.NoError(t, g.EnsureRepo(context.Background(), root))
}

func TestChangedFiles_DetectsModifiedAddedAndDeleted(t *testing.T) {
	root := initRepo(t)
	writeAndCommit(t, root, "keep.go", "package x\nfunc Keep() {}\n", "base")
	writeAndCommit(t, root, "gone.go", "package x\nfunc Gone() {}\n", "base2")

	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.go"), []byte("package x\nfunc Keep() { _ = 1 }\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(root, "gone.go")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "new.go"), []byte("package x\nfunc New() {}\n"), 0o644))
	addCmd := exec.Command("git", "-C", root, "add", "-A")
	require.NoError(t, addCmd.Run())
	commitCmd := exec.Command("git", "-C", root, "commit", "-q", "-m", "change")
	require.NoError(t, commitCmd.Run())

	g := New()
	changed, err := g.ChangedFiles(context.Background(), root, "HEAD~1")
	require.NoError(t, err)

	byPath := map[string]Status{}
	for _, c := range changed {
		byPath[c.Path] = c.Status
	}
	assert.Equal(t, StatusModified, byPath["keep.go"])
	assert.Equal(t, StatusDeleted, byPath["gone.go"])
	assert.Equal(t, StatusAdded, byPath["new.go"])
}

func TestStagedFiles_FallsBackToUnstagedWhenIndexClean(t *testing.T) {
	root := initRepo(t)
	writeAndCommit(t, root, "a.go", "package x\n", "base")
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package x\nvar y = 1\n"), 0o644))

	g := New()
	changed, label, err := g.StagedFiles(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "HEAD (unstaged)", label)
	require.Len(t, changed, 1)
	assert.Equal(t, "a.go", changed[0].Path)
}

func TestStagedFiles_PrefersStagedOverUnstaged(t *testing.T) {
	root := initRepo(t)
	writeAndCommit(t, root, "a.go", "package x\n", "base")
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package x\nvar y = 1\n"), 0o644))
	addCmd := exec.Command("git", "-C", root, "add", "a.go")
	require.NoError(t, addCmd.Run())

	g := New()
	changed, label, err := g.StagedFiles(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "HEAD (staged)", label)
	require.Len(t, changed, 1)
}

func TestOldBytes_ReadsContentAtRef(t *testing.T) {
	root := initRepo(t)
	writeAndCommit(t, root, "a.go", "package x\nfunc A() {}\n", "base")

	g := New()
	content, err := g.OldBytes(context.Background(), root, "HEAD", "a.go")
	require.NoError(t, err)
	assert.Equal(t, "package x\nfunc A() {}\n", string(content))
}

func TestWorkingTreeBytes_ReadsFromDisk(t *testing.T) {
	root := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package x\n"), 0o644))

	g := New()
	content, err := g.WorkingTreeBytes(root, "a.go")
	require.NoError(t, err)
	assert.Equal(t, "package x\n", string(content))
}

func TestParseNameStatusNUL_SkipsEmptyTrailer(t *testing.T) {
	raw := "M\x00a.go\x00A\x00b.go\x00"
	changed := parseNameStatusNUL(raw)
	require.Len(t, changed, 2)
	assert.Equal(t, ChangedPath{Path: "a.go", Status: StatusModified}, changed[0])
	assert.Equal(t, ChangedPath{Path: "b.go", Status: StatusAdded}, changed[1])
}
