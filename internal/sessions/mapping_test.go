package sessions

import (
	"net/url"
	"strings"
	"testing"

	"github.com/atelier-studio/provenance/pkg/query"
)

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantOwner  string
		wantStatus string
		wantTitle  string
	}{
		{name: "empty query", query: ""},
		{name: "owner only", query: "owner=mira", wantOwner: "mira"},
		{
			name:       "all filters",
			query:      "owner=mira&status=active&title=vase",
			wantOwner:  "mira",
			wantStatus: "active",
			wantTitle:  "vase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}

			f := FiltersFromQuery(values)

			checkFilter(t, "owner", f.Owner, tt.wantOwner)
			checkFilter(t, "status", f.Status, tt.wantStatus)
			checkFilter(t, "title", f.Title, tt.wantTitle)
		})
	}
}

func checkFilter(t *testing.T, name string, got *string, want string) {
	t.Helper()
	if want == "" {
		if got != nil {
			t.Errorf("%s = %q, want nil", name, *got)
		}
		return
	}
	if got == nil || *got != want {
		t.Errorf("%s = %v, want %q", name, got, want)
	}
}

func TestFiltersApply(t *testing.T) {
	owner := "mira"
	status := "active"

	sql, args := Filters{Owner: &owner, Status: &status}.
		Apply(query.NewBuilder(projection)).
		Build()

	if !strings.Contains(sql, "s.owner = $1") || !strings.Contains(sql, "s.status = $2") {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want 2", args)
	}
}

func TestFiltersApplyEmptyAddsNoConditions(t *testing.T) {
	sql, args := Filters{}.Apply(query.NewBuilder(projection)).Build()

	if strings.Contains(sql, "WHERE") {
		t.Errorf("sql = %q, want no WHERE clause", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}
