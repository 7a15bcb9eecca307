// Package gitmeta resolves per-document git history metadata.
//
// When the documentation source lives inside a git repository, each compiled
// document carries the sha and date of the last commit touching its source
// file. Outside a repository the resolver degrades to a no-op.
package gitmeta

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// FileMeta is the history metadata for one source file.
type FileMeta struct {
	Commit       string
	LastModified time.Time
}

// Resolver looks up commit metadata for files under one repository root.
type Resolver struct {
	repo *git.Repository
	root string
}

// NewResolver opens the repository containing dir, walking upward to find
// the .git directory. Returns (nil, nil) when dir is not inside a repository;
// callers treat a nil resolver as "no git metadata".
func NewResolver(dir string) (*Resolver, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("repository worktree: %w", err)
	}

	return &Resolver{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Lookup returns the latest commit touching path. ok is false when the file
// has no committed history yet (new or uncommitted files).
func (r *Resolver) Lookup(path string) (meta FileMeta, ok bool, err error) {
	if r == nil {
		return FileMeta{}, false, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return FileMeta{}, false, fmt.Errorf("absolute path for %s: %w", path, err)
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return FileMeta{}, false, fmt.Errorf("%s is outside repository %s", path, r.root)
	}
	rel = filepath.ToSlash(rel)

	iter, err := r.repo.Log(&git.LogOptions{
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return FileMeta{}, false, fmt.Errorf("git log for %s: %w", rel, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		// No history for this file.
		return FileMeta{}, false, nil
	}
	return commitMeta(commit), true, nil
}

func commitMeta(c *object.Commit) FileMeta {
	return FileMeta{
		Commit:       c.Hash.String(),
		LastModified: c.Author.When.UTC(),
	}
}
