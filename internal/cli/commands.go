package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/flatcms/internal/common"
	"github.com/dmitrijs2005/flatcms/internal/flagx"
	"github.com/dmitrijs2005/flatcms/internal/server/records"
	"github.com/dmitrijs2005/flatcms/internal/server/users"
)

const dateLayout = "2006-01-02"

// commandFlags parses the subset of args a command owns; config flags
// interleaved with them are left to the config loader.
func commandFlags(name string, args []string, owned []string, define func(fs *flag.FlagSet)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	define(fs)
	return fs.Parse(flagx.FilterArgs(args, owned))
}

func (a *App) userAdd(ctx context.Context, args []string) error {
	var email, role string
	err := commandFlags("useradd", args, []string{"-email", "-role"}, func(fs *flag.FlagSet) {
		fs.StringVar(&email, "email", "", "account email")
		fs.StringVar(&role, "role", users.RoleUser, "account role (user or admin)")
	})
	if err != nil {
		return err
	}
	if email == "" {
		return errors.New("useradd: -email is required")
	}

	password, err := GetNewPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	u, err := a.users.CreateUser(ctx, email, string(password), role)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return fmt.Errorf("useradd: account %s already exists", email)
		}
		return fmt.Errorf("useradd: %w", err)
	}

	fmt.Fprintf(a.out, "created %s account %s (users/%s.md)\n", u.Role, u.Email, users.NormalizeEmail(u.Email))
	return nil
}

func (a *App) stats(ctx context.Context) error {
	s, err := a.posts.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	fmt.Fprintf(a.out, "total: %d\npublished: %d\ndraft: %d\n", s.Total, s.Published, s.Draft)
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	page, limit := records.DefaultPage, records.DefaultLimit
	err := commandFlags("list", args, []string{"-page", "-limit"}, func(fs *flag.FlagSet) {
		fs.IntVar(&page, "page", page, "page number")
		fs.IntVar(&limit, "limit", limit, "posts per page")
	})
	if err != nil {
		return err
	}

	result, err := a.posts.List(ctx, page, limit)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tSTATUS\tPUBLISHED\tAUTHOR\tTITLE")
	for _, p := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Slug, p.Status, p.PublishedAt.Format(dateLayout), p.Author, p.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	pg := result.Pagination
	fmt.Fprintf(a.out, "page %d of %d, %d posts\n", pg.Page, pg.TotalPages, pg.Total)
	return nil
}
