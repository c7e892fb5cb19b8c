package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/flatcms/internal/frontmatter"
	"github.com/dmitrijs2005/flatcms/internal/server/records"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
	LastLogin time.Time

	// Profile is the markdown body of the user's file. It is generated on
	// creation and carried over untouched on later writes.
	Profile string
}

// NormalizeEmail maps an email to its file key by replacing every
// character outside [A-Za-z0-9] with an underscore.
func NormalizeEmail(email string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, email)
}

// Kind stores users as users/<normalized email>.md.
var Kind = records.Kind[User]{
	Name:   "users",
	Dir:    "users",
	Encode: encodeUser,
	Decode: decodeUser,
}

func encodeUser(u User) (frontmatter.Metadata, string) {
	var m frontmatter.Metadata
	m.Set("email", u.Email)
	m.Set("password", u.Password)
	m.Set("role", u.Role)
	m.Set("createdAt", records.FormatTime(u.CreatedAt))
	m.Set("lastLogin", records.FormatTime(u.LastLogin))
	return m, u.Profile
}

func decodeUser(_ string, m frontmatter.Metadata, body string) (User, error) {
	u := User{
		Email:    m.String("email"),
		Password: m.String("password"),
		Role:     m.String("role"),
		Profile:  body,
	}
	if u.Email == "" {
		return User{}, errors.New("email missing")
	}
	if u.Password == "" {
		return User{}, errors.New("password hash missing")
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.CreatedAt, _ = records.ParseTime(m.String("createdAt"))
	u.LastLogin, _ = records.ParseTime(m.String("lastLogin"))
	return u, nil
}

func profile(u User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# User Profile: %s\n\n", u.Email)
	b.WriteString("## Account Information\n")
	fmt.Fprintf(&b, "- **Email**: %s\n", u.Email)
	fmt.Fprintf(&b, "- **Role**: %s\n", u.Role)
	fmt.Fprintf(&b, "- **Created**: %s\n", records.FormatTime(u.CreatedAt))
	b.WriteString("\n## Account Details\n")
	b.WriteString("Account managed by flatcms. The front matter above is the source of truth.\n")
	return b.String()
}
