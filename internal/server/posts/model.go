package posts

import (
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/flatcms/internal/frontmatter"
	"github.com/dmitrijs2005/flatcms/internal/server/records"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

const (
	defaultTitle  = "Untitled"
	defaultAuthor = "Unknown"
	excerptRunes  = 150
)

type Post struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"publishedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Tags        []string  `json:"tags"`
	Featured    bool      `json:"featured"`
	Status      string    `json:"status"`
}

// Kind stores posts as blogs/<slug>.md.
var Kind = records.Kind[Post]{
	Name:   "blogs",
	Dir:    "blogs",
	Encode: encodePost,
	Decode: decodePost,
}

func encodePost(p Post) (frontmatter.Metadata, string) {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	var m frontmatter.Metadata
	m.Set("title", p.Title)
	m.Set("excerpt", p.Excerpt)
	m.Set("author", p.Author)
	m.Set("publishedAt", records.FormatTime(p.PublishedAt))
	m.Set("updatedAt", records.FormatTime(p.UpdatedAt))
	m.Set("tags", tags)
	m.Set("featured", p.Featured)
	m.Set("status", p.Status)
	m.Set("slug", p.Slug)
	return m, p.Content
}

// decodePost never rejects a parsed file; missing fields take defaults. The
// file key wins over the embedded slug.
func decodePost(key string, m frontmatter.Metadata, body string) (Post, error) {
	p := Post{
		Slug:     key,
		Title:    m.String("title"),
		Excerpt:  m.String("excerpt"),
		Content:  body,
		Author:   m.String("author"),
		Tags:     m.Strings("tags"),
		Featured: m.Bool("featured"),
		Status:   m.String("status"),
	}

	if p.Title == "" {
		p.Title = defaultTitle
	}
	if p.Excerpt == "" {
		p.Excerpt = excerpt(body)
	}
	if p.Author == "" {
		p.Author = defaultAuthor
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Status == "" {
		p.Status = StatusPublished
	}

	p.UpdatedAt, _ = records.ParseTime(m.String("updatedAt"))
	var ok bool
	if p.PublishedAt, ok = records.ParseTime(m.String("publishedAt")); !ok {
		p.PublishedAt = p.UpdatedAt
	}

	return p, nil
}

// excerpt is the first 150 characters of body followed by an ellipsis.
func excerpt(body string) string {
	if utf8.RuneCountInString(body) <= excerptRunes {
		return body + "..."
	}
	runes := []rune(body)
	return string(runes[:excerptRunes]) + "..."
}
