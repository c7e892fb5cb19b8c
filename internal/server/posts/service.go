package posts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dmitrijs2005/flatcms/internal/common"
	"github.com/dmitrijs2005/flatcms/internal/logging"
	"github.com/dmitrijs2005/flatcms/internal/server/records"
)

type Stats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
}

type Service struct {
	repo   Repository
	md     goldmark.Markdown
	logger logging.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger: logger.With("module", "posts"),
		now:    time.Now,
	}
}

func byPublishedDesc(a, b Post) int {
	return b.PublishedAt.Compare(a.PublishedAt)
}

// List returns one page of posts, newest publishedAt first.
func (s *Service) List(ctx context.Context, page, limit int) (records.Page[Post], error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "listing posts failed", "error", err)
		return records.Page[Post]{}, common.ErrorInternal
	}
	return records.Paginate(all, byPublishedDesc, page, limit), nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	t, err := s.repo.Tally(ctx, func(p Post) string { return p.Status })
	if err != nil {
		s.logger.Error(ctx, "post stats failed", "error", err)
		return Stats{}, common.ErrorInternal
	}
	return Stats{
		Total:     t.Total,
		Published: t.Counts[StatusPublished],
		Draft:     t.Counts[StatusDraft],
	}, nil
}

func (s *Service) Get(ctx context.Context, key string) (Post, error) {
	if !slug.IsValid(key) {
		return Post{}, common.ErrorNotFound
	}

	p, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Post{}, common.ErrorNotFound
		}
		s.logger.Error(ctx, "reading post failed", "slug", key, "error", err)
		return Post{}, common.ErrorInternal
	}
	return p, nil
}

// Save creates a post when key is empty, deriving the slug from the title,
// and otherwise overwrites the post stored under key. The author is the
// acting user on creation and is kept on later saves; publishedAt is kept
// unless the input supplies one. It returns the slug written.
func (s *Service) Save(ctx context.Context, key string, in Input, actor string) (string, error) {
	if err := in.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	if key == "" {
		return s.create(ctx, in, actor)
	}

	if !slug.IsValid(key) {
		return "", fmt.Errorf("%w: invalid slug %q", common.ErrorValidation, key)
	}

	now := s.now().UTC()
	_, err := s.repo.Update(ctx, key, func(existing *Post) Post {
		p := build(key, in, actor, now)
		if existing != nil {
			p.Author = existing.Author
			if in.PublishedAt == "" {
				p.PublishedAt = existing.PublishedAt
			}
		}
		return p
	}, "Update blog: "+in.Title)
	if err != nil {
		return "", s.writeError(ctx, "updating post failed", key, err)
	}

	s.logger.Info(ctx, "post updated", "slug", key, "actor", actor)
	return key, nil
}

func (s *Service) create(ctx context.Context, in Input, actor string) (string, error) {
	key, err := slug.Normalize(in.Title)
	if err != nil || key == "" {
		return "", fmt.Errorf("%w: title %q does not yield a slug", common.ErrorValidation, in.Title)
	}

	p := build(key, in, actor, s.now().UTC())
	if err := s.repo.Create(ctx, key, p, "Add new blog: "+in.Title); err != nil {
		return "", s.writeError(ctx, "creating post failed", key, err)
	}

	s.logger.Info(ctx, "post created", "slug", key, "actor", actor)
	return key, nil
}

func (s *Service) writeError(ctx context.Context, msg, key string, err error) error {
	if errors.Is(err, common.ErrorConflict) {
		return common.ErrorConflict
	}
	s.logger.Error(ctx, msg, "slug", key, "error", err)
	return common.ErrorInternal
}

func build(key string, in Input, actor string, now time.Time) Post {
	p := Post{
		Slug:        key,
		Title:       in.Title,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		Author:      actor,
		PublishedAt: now,
		UpdatedAt:   now,
		Tags:        in.Tags,
		Featured:    in.Featured,
		Status:      in.Status,
	}
	if t, ok := records.ParseTime(in.PublishedAt); ok {
		p.PublishedAt = t
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Status == "" {
		p.Status = StatusPublished
	}
	return p
}

func (s *Service) Delete(ctx context.Context, key, actor string) error {
	if !slug.IsValid(key) {
		return common.ErrorNotFound
	}

	if err := s.repo.Delete(ctx, key, "Delete blog: "+key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "deleting post failed", "slug", key, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "post deleted", "slug", key, "actor", actor)
	return nil
}

// RenderHTML converts the post body from markdown to HTML.
func (s *Service) RenderHTML(p Post) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(p.Content), &buf); err != nil {
		return "", fmt.Errorf("render %s: %w", p.Slug, err)
	}
	return buf.String(), nil
}
