package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/flatcms/internal/common"
	"github.com/dmitrijs2005/flatcms/internal/filestore"
	"github.com/dmitrijs2005/flatcms/internal/logging"
	"github.com/dmitrijs2005/flatcms/internal/server"
	"github.com/dmitrijs2005/flatcms/internal/server/auth"
	"github.com/dmitrijs2005/flatcms/internal/server/config"
	"github.com/dmitrijs2005/flatcms/internal/server/posts"
	"github.com/dmitrijs2005/flatcms/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPasswords makes readPassword return the given entries in order.
func stubPasswords(t *testing.T, entries ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) {
		if len(entries) == 0 {
			return nil, errors.New("no more input")
		}
		next := entries[0]
		entries = entries[1:]
		return []byte(next), nil
	}
}

type fixture struct {
	app   *App
	out   *bytes.Buffer
	users *users.Service
	posts *posts.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = 4

	us, ps := server.Services(cfg, filestore.NewMemoryStore(), logging.Nop{})
	out := &bytes.Buffer{}
	return fixture{app: &App{users: us, posts: ps, out: out}, out: out, users: us, posts: ps}
}

func TestUserAdd_CreatesAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stubPasswords(t, "s3cret", "s3cret")

	require.NoError(t, f.app.Run(ctx, []string{"useradd", "-email", "root@b.com", "-role", "admin"}))
	assert.Contains(t, f.out.String(), "created admin account root@b.com (users/root_b_com.md)")

	session, err := f.users.Login(ctx, "root@b.com", "s3cret")
	require.NoError(t, err)

	claims, err := auth.ParseToken(session.Token, []byte(config.DefaultSecretKey))
	require.NoError(t, err)
	assert.Equal(t, users.RoleAdmin, claims.Role)
}

func TestUserAdd_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing email", func(t *testing.T) {
		f := newFixture(t)
		assert.Error(t, f.app.Run(ctx, []string{"useradd"}))
	})

	t.Run("password mismatch", func(t *testing.T) {
		f := newFixture(t)
		stubPasswords(t, "one", "two")
		assert.ErrorIs(t, f.app.Run(ctx, []string{"useradd", "-email", "a@b.com"}), ErrPasswordMismatch)
	})

	t.Run("terminal failure", func(t *testing.T) {
		f := newFixture(t)
		stubPasswords(t)
		assert.Error(t, f.app.Run(ctx, []string{"useradd", "-email", "a@b.com"}))
	})

	t.Run("bad role", func(t *testing.T) {
		f := newFixture(t)
		stubPasswords(t, "pw", "pw")
		err := f.app.Run(ctx, []string{"useradd", "-email", "a@b.com", "-role", "root"})
		assert.ErrorIs(t, err, common.ErrorValidation)
	})

	t.Run("duplicate", func(t *testing.T) {
		f := newFixture(t)
		stubPasswords(t, "pw", "pw", "pw", "pw")
		require.NoError(t, f.app.Run(ctx, []string{"useradd", "-email", "a@b.com"}))
		err := f.app.Run(ctx, []string{"useradd", "-email", "a@b.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})
}

func TestStatsAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, in := range []posts.Input{
		{Title: "Older", PublishedAt: "2024-01-01T00:00:00Z"},
		{Title: "Newer", PublishedAt: "2024-02-01T00:00:00Z", Status: posts.StatusDraft},
	} {
		_, err := f.posts.Save(ctx, "", in, "a@b.com")
		require.NoError(t, err)
	}

	require.NoError(t, f.app.Run(ctx, []string{"stats"}))
	assert.Equal(t, "total: 2\npublished: 1\ndraft: 1\n", f.out.String())

	f.out.Reset()
	require.NoError(t, f.app.Run(ctx, []string{"list", "-limit", "1"}))
	output := f.out.String()
	assert.Contains(t, output, "SLUG")
	assert.Contains(t, output, "newer")
	assert.NotContains(t, output, "older")
	assert.Contains(t, output, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Format(dateLayout))
	assert.Contains(t, output, "page 1 of 2, 2 posts")
}

func TestRun_UsageAndUnknown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.app.Run(ctx, nil))
	assert.Contains(t, f.out.String(), "Usage:")

	assert.ErrorIs(t, f.app.Run(ctx, []string{"frobnicate"}), ErrUnknownCommand)
}
