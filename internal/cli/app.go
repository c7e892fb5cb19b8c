// Package cli implements flatcms-admin, an operator tool that works directly
// against the configured file store: it creates accounts (including admins,
// which the public signup never produces) and inspects the blog content.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/flatcms/internal/filestore"
	"github.com/dmitrijs2005/flatcms/internal/logging"
	"github.com/dmitrijs2005/flatcms/internal/server"
	"github.com/dmitrijs2005/flatcms/internal/server/config"
	"github.com/dmitrijs2005/flatcms/internal/server/posts"
	"github.com/dmitrijs2005/flatcms/internal/server/records"
	"github.com/dmitrijs2005/flatcms/internal/server/users"
)

var ErrUnknownCommand = errors.New("unknown command")

type AccountService interface {
	CreateUser(ctx context.Context, email, password, role string) (users.User, error)
}

type PostService interface {
	List(ctx context.Context, page, limit int) (records.Page[posts.Post], error)
	Stats(ctx context.Context) (posts.Stats, error)
}

type App struct {
	users AccountService
	posts PostService
	out   io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	files, err := filestore.New(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("file store init error: %w", err)
	}

	us, ps := server.Services(cfg, files, logger)
	return &App{users: us, posts: ps, out: os.Stdout}, nil
}

// Run executes the command named by args[0] with the remaining arguments.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "useradd":
		return a.userAdd(ctx, rest)
	case "stats":
		return a.stats(ctx)
	case "list":
		return a.list(ctx, rest)
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `Usage: flatcms-admin [config flags] <command> [command flags]

Commands:
  useradd -email <email> [-role user|admin]   create an account (password is prompted)
  stats                                       count posts by status
  list [-page N] [-limit N]                   list posts, newest first
  help                                        show this message`)
}
