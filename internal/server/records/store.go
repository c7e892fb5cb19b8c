// Package records maps application records onto markdown files in the
// remote file store. Each record kind owns one directory; a record with key
// k lives at <dir>/<k>.md as front matter plus body.
//
// The file store offers only whole-file operations guarded by content
// hashes, so the store emulates record semantics on top of it: existence
// checks before create, read-modify-write with the observed hash on update,
// and listing by fetching every file in the directory. Conflicting
// concurrent writers get common.ErrorConflict; nothing is retried.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/flatcms/internal/common"
	"github.com/dmitrijs2005/flatcms/internal/filestore"
	"github.com/dmitrijs2005/flatcms/internal/frontmatter"
	"github.com/dmitrijs2005/flatcms/internal/logging"
	"golang.org/x/sync/errgroup"
)

const DefaultExt = ".md"

// Kind describes how one record type is stored.
type Kind[T any] struct {
	Name string
	Dir  string
	Ext  string

	Encode func(rec T) (frontmatter.Metadata, string)
	Decode func(key string, meta frontmatter.Metadata, body string) (T, error)
}

type options struct {
	concurrency int
}

type Option func(*options)

// WithConcurrency bounds the parallel fetches ListAll issues. Values below
// one mean sequential fetching.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

type Store[T any] struct {
	files       filestore.Store
	kind        Kind[T]
	logger      logging.Logger
	concurrency int
}

func NewStore[T any](files filestore.Store, kind Kind[T], logger logging.Logger, opts ...Option) *Store[T] {
	o := options{concurrency: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	if kind.Ext == "" {
		kind.Ext = DefaultExt
	}
	return &Store[T]{
		files:       files,
		kind:        kind,
		logger:      logger.With("module", "records", "kind", kind.Name),
		concurrency: o.concurrency,
	}
}

// Path returns the file path holding key.
func (s *Store[T]) Path(key string) string {
	return s.kind.Dir + "/" + key + s.kind.Ext
}

// Exists reports whether key has a file. Store failures other than absence
// are returned rather than read as "missing".
func (s *Store[T]) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.files.Read(ctx, s.Path(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrorNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Get fetches and decodes key. Absence is common.ErrorNotFound; a file that
// cannot be decoded is common.ErrorCorrupt.
func (s *Store[T]) Get(ctx context.Context, key string) (T, error) {
	rec, _, err := s.get(ctx, key)
	return rec, err
}

func (s *Store[T]) get(ctx context.Context, key string) (T, string, error) {
	var zero T

	f, err := s.files.Read(ctx, s.Path(key))
	if err != nil {
		return zero, "", err
	}

	rec, err := s.decode(key, f.Content)
	if err != nil {
		return zero, f.Hash, err
	}
	return rec, f.Hash, nil
}

func (s *Store[T]) decode(key, content string) (T, error) {
	var zero T

	meta, body, err := frontmatter.Parse(content)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w: %v", s.kind.Name, key, common.ErrorCorrupt, err)
	}
	rec, err := s.kind.Decode(key, meta, body)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w: %v", s.kind.Name, key, common.ErrorCorrupt, err)
	}
	return rec, nil
}

func (s *Store[T]) encode(rec T) string {
	meta, body := s.kind.Encode(rec)
	return frontmatter.Serialize(meta, body)
}

// Create stores rec under key. An existing file is never overwritten: the
// existence check fails fast, and the write itself is conditional on the
// file still being absent.
func (s *Store[T]) Create(ctx context.Context, key string, rec T, message string) error {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s %s: %w", s.kind.Name, key, common.ErrorConflict)
	}

	if err := s.files.WriteIfMatch(ctx, s.Path(key), s.encode(rec), message, ""); err != nil {
		return err
	}

	s.logger.Debug(ctx, "record created", "key", key)
	return nil
}

// Update reads key, passes the decoded record to merge (nil when the file is
// absent or undecodable) and writes the result using the hash observed by
// the read. A concurrent change in between yields common.ErrorConflict.
func (s *Store[T]) Update(ctx context.Context, key string, merge func(existing *T) T, message string) (T, error) {
	var zero T

	var existing *T
	rec, hash, err := s.get(ctx, key)
	switch {
	case err == nil:
		existing = &rec
	case errors.Is(err, common.ErrorNotFound):
	case errors.Is(err, common.ErrorCorrupt):
		s.logger.Warn(ctx, "overwriting undecodable record", "key", key, "error", err)
	default:
		return zero, err
	}

	updated := merge(existing)
	if err := s.files.WriteIfMatch(ctx, s.Path(key), s.encode(updated), message, hash); err != nil {
		return zero, err
	}

	s.logger.Debug(ctx, "record updated", "key", key)
	return updated, nil
}

// Delete removes key. Absence is common.ErrorNotFound.
func (s *Store[T]) Delete(ctx context.Context, key string, message string) error {
	if err := s.files.Remove(ctx, s.Path(key), message); err != nil {
		return err
	}
	s.logger.Debug(ctx, "record deleted", "key", key)
	return nil
}

// Keys lists the record keys present in the kind's directory.
func (s *Store[T]) Keys(ctx context.Context) ([]string, error) {
	entries, err := s.files.List(ctx, s.kind.Dir)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind != filestore.KindFile || !strings.HasSuffix(e.Name, s.kind.Ext) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name, s.kind.Ext))
	}
	return keys, nil
}

// ListAll fetches and decodes every record of the kind, one remote read per
// file. Records that cannot be read or decoded are skipped. The result
// follows the directory listing order.
func (s *Store[T]) ListAll(ctx context.Context) ([]T, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}

	fetched := make([]*T, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			rec, _, err := s.get(gctx, key)
			if err != nil {
				s.logger.Warn(gctx, "skipping record", "key", key, "error", err)
				return nil
			}
			fetched[i] = &rec
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(fetched))
	for _, rec := range fetched {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// Tally counts records by the label classify assigns them.
type Tally struct {
	Total  int
	Counts map[string]int
}

// Tally aggregates over ListAll; undecodable records are not counted.
func (s *Store[T]) Tally(ctx context.Context, classify func(T) string) (Tally, error) {
	recs, err := s.ListAll(ctx)
	if err != nil {
		return Tally{}, err
	}

	t := Tally{Total: len(recs), Counts: make(map[string]int)}
	for _, rec := range recs {
		t.Counts[classify(rec)]++
	}
	return t, nil
}
