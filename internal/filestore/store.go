// Package filestore is the client for the remote file hosting service that
// backs every record. It exposes whole-file read, write, delete and list,
// with content hashes for optimistic concurrency. Backends: GitHub contents
// API, an S3-compatible bucket, and an in-memory map for tests.
//
// Failures are returned as errors wrapping common.ErrorNotFound or
// common.ErrorConflict where the backend reports those conditions; nothing
// panics across this boundary.
package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/flatcms/internal/common"
)

type EntryKind string

const (
	KindFile EntryKind = "file"
	KindDir  EntryKind = "dir"
)

// File is a fetched file together with the hash that authorises changing it.
type File struct {
	Path    string
	Content string
	Hash    string
}

// Entry is one immediate child returned by List.
type Entry struct {
	Name string
	Path string
	Kind EntryKind
}

type Store interface {
	// Read fetches path. A missing file yields common.ErrorNotFound.
	Read(ctx context.Context, path string) (*File, error)

	// Write creates path or overwrites it, resolving the current hash itself.
	Write(ctx context.Context, path, content, message string) error

	// WriteIfMatch writes only if the stored hash still equals hash; an empty
	// hash means the file must not exist yet. Otherwise common.ErrorConflict.
	WriteIfMatch(ctx context.Context, path, content, message, hash string) error

	// Remove deletes path. A missing file yields common.ErrorNotFound.
	Remove(ctx context.Context, path, message string) error

	// List returns the immediate children of prefix. A missing directory is
	// an empty listing.
	List(ctx context.Context, prefix string) ([]Entry, error)
}

const (
	BackendGitHub = "github"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	GitHub  GitHubConfig
	S3      S3Config
}

// New builds the backend named in opts.
func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendGitHub:
		return NewGitHubStore(opts.GitHub)
	case BackendS3:
		return NewS3Store(ctx, opts.S3)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown file store backend %q", opts.Backend)
	}
}

func notFound(op, path string) error {
	return fmt.Errorf("%s %s: %w", op, path, common.ErrorNotFound)
}

func conflict(op, path string) error {
	return fmt.Errorf("%s %s: %w", op, path, common.ErrorConflict)
}

func cleanPrefix(prefix string) string {
	return strings.Trim(prefix, "/")
}

func childPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
