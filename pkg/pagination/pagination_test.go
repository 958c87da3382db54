package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/atelier-studio/provenance/pkg/pagination"
)

var cfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{
			name:         "zero values get defaults",
			req:          pagination.PageRequest{},
			wantPage:     1,
			wantPageSize: 20,
		},
		{
			name:         "negative page clamped",
			req:          pagination.PageRequest{Page: -5, PageSize: 10},
			wantPage:     1,
			wantPageSize: 10,
		},
		{
			name:         "oversized page size capped",
			req:          pagination.PageRequest{Page: 2, PageSize: 500},
			wantPage:     2,
			wantPageSize: 100,
		},
		{
			name:         "valid values unchanged",
			req:          pagination.PageRequest{Page: 3, PageSize: 50},
			wantPage:     3,
			wantPageSize: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(cfg)
			if tt.req.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", tt.req.Page, tt.wantPage)
			}
			if tt.req.PageSize != tt.wantPageSize {
				t.Errorf("page_size = %d, want %d", tt.req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 3, PageSize: 25}
	if got := req.Offset(); got != 50 {
		t.Errorf("offset = %d, want 50", got)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "10")
	values.Set("search", "raku")
	values.Set("sort", "Title,-CreatedAt")

	req := pagination.PageRequestFromQuery(values, cfg)

	if req.Page != 2 || req.PageSize != 10 {
		t.Errorf("page = %d/%d, want 2/10", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "raku" {
		t.Errorf("search = %v, want raku", req.Search)
	}
	if len(req.Sort) != 2 {
		t.Fatalf("sort fields = %d, want 2", len(req.Sort))
	}
	if req.Sort[0].Field != "Title" || req.Sort[0].Descending {
		t.Errorf("sort[0] = %+v", req.Sort[0])
	}
	if req.Sort[1].Field != "CreatedAt" || !req.Sort[1].Descending {
		t.Errorf("sort[1] = %+v", req.Sort[1])
	}
}

func TestSortFieldsUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "string format", input: `{"sort": "Title,-CreatedAt"}`, want: 2},
		{name: "array format", input: `{"sort": [{"Field": "Title", "Descending": true}]}`, want: 1},
		{name: "absent", input: `{}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req pagination.PageRequest
			if err := json.Unmarshal([]byte(tt.input), &req); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if len(req.Sort) != tt.want {
				t.Errorf("sort fields = %d, want %d", len(req.Sort), tt.want)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{name: "exact pages", total: 100, pageSize: 20, wantTotalPages: 5},
		{name: "partial last page", total: 101, pageSize: 20, wantTotalPages: 6},
		{name: "empty result still one page", total: 0, pageSize: 20, wantTotalPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{}, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("total pages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
		})
	}
}

func TestNewPageResultNilData(t *testing.T) {
	result := pagination.NewPageResult[string](nil, 0, 1, 20)
	if result.Data == nil {
		t.Error("nil data not normalized to empty slice")
	}
}
