package users

import (
	"context"
)

// Repository is the subset of records.Store[User] the service needs.
type Repository interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (User, error)
	Create(ctx context.Context, key string, u User, message string) error
	Update(ctx context.Context, key string, merge func(existing *User) User, message string) (User, error)
}
