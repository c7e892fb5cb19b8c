package posts

import (
	"context"

	"github.com/dmitrijs2005/flatcms/internal/server/records"
)

// Repository is the subset of records.Store[Post] the service needs.
type Repository interface {
	Get(ctx context.Context, key string) (Post, error)
	Create(ctx context.Context, key string, p Post, message string) error
	Update(ctx context.Context, key string, merge func(existing *Post) Post, message string) (Post, error)
	Delete(ctx context.Context, key string, message string) error
	ListAll(ctx context.Context) ([]Post, error)
	Tally(ctx context.Context, classify func(Post) string) (records.Tally, error)
}
