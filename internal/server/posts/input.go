package posts

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Input is the client-supplied part of a post. Author, slug and updatedAt
// are never taken from it.
type Input struct {
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	PublishedAt string   `json:"publishedAt"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	Status      string   `json:"status"`
}

func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Status, validation.In(StatusDraft, StatusPublished)),
		validation.Field(&in.PublishedAt, validation.Date(time.RFC3339)),
	)
}
