package gitsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/matryer/is"
)

// initRepo creates a repository in a temp dir with one commit holding files.
func initRepo(t *testing.T, files map[string]string) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	commitFiles(t, dir, repo, files)
	return dir, repo
}

func commitFiles(t *testing.T, dir string, repo *git.Repository, files map[string]string) {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatal(err)
		}
	}
	_, err = wt.Commit("add cards", &git.CommitOptions{
		Author: &object.Signature{Name: "leitnerbox", Email: "cards@example.org", When: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSyncClonesThenPulls(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	src, repo := initRepo(t, map[string]string{"cards.csv": "front,back\nHund,dog\n"})
	dst := filepath.Join(t.TempDir(), "clone")

	is.NoErr(Sync(ctx, "file://"+src, dst, nil))
	data, err := os.ReadFile(filepath.Join(dst, "cards.csv"))
	is.NoErr(err)
	is.Equal(string(data), "front,back\nHund,dog\n")

	// nothing new upstream
	is.NoErr(Sync(ctx, "file://"+src, dst, nil))

	commitFiles(t, src, repo, map[string]string{"more.csv": "front,back\nKatze,cat\n"})
	is.NoErr(Sync(ctx, "file://"+src, dst, nil))
	data, err = os.ReadFile(filepath.Join(dst, "more.csv"))
	is.NoErr(err)
	is.Equal(string(data), "front,back\nKatze,cat\n")
}

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
	}{
		{"https", "https://github.com/conorfennell/cards.git", filepath.Join("repos", "github.com", "conorfennell", "cards")},
		{"https without suffix", "https://example.org/decks/german", filepath.Join("repos", "example.org", "decks", "german")},
		{"scp style", "git@github.com:conorfennell/cards.git", filepath.Join("repos", "github.com", "conorfennell", "cards")},
		{"ssh with port", "ssh://git@example.org:2222/decks.git", filepath.Join("repos", "example.org", "decks")},
		{"local file", "file:///srv/git/cards.git", filepath.Join("repos", "local", "srv", "git", "cards")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			got, err := LocalPath("repos", tc.url)
			is.NoErr(err)
			is.Equal(got, tc.expected)
		})
	}
}

func TestLocalPathRejectsGarbage(t *testing.T) {
	is := is.New(t)
	_, err := LocalPath("repos", "not a url")
	is.True(err != nil)
}
