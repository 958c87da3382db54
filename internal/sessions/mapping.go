package sessions

import (
	"net/url"

	"github.com/atelier-studio/provenance/pkg/query"
	"github.com/atelier-studio/provenance/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "sessions", "s").
	Project("id", "ID").
	Project("owner", "Owner").
	Project("title", "Title").
	Project("description", "Description").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for session queries.
// Nil fields are ignored. Owner and Status use exact matching;
// Title uses case-insensitive contains matching.
type Filters struct {
	Owner  *string `json:"owner,omitempty"`
	Status *string `json:"status,omitempty"`
	Title  *string `json:"title,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Owner", f.Owner).
		WhereEquals("Status", f.Status).
		WhereContains("Title", f.Title)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if o := values.Get("owner"); o != "" {
		f.Owner = &o
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	return f
}

func scanSession(s repository.Scanner) (Session, error) {
	var sess Session
	err := s.Scan(
		&sess.ID,
		&sess.Owner,
		&sess.Title,
		&sess.Description,
		&sess.Status,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	return sess, err
}

func scanPhoto(s repository.Scanner) (Photo, error) {
	var p Photo
	err := s.Scan(
		&p.ID,
		&p.SessionID,
		&p.Filename,
		&p.Description,
		&p.SizeBytes,
		&p.URL,
		&p.StorageKey,
		&p.Step,
		&p.Width,
		&p.Height,
		&p.UploadedAt,
	)
	return p, err
}
