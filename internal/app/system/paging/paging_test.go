package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/paging"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/cards", 1, paging.DefaultLimit},
		{"explicit", "/cards?page=3&limit=25", 3, 25},
		{"zero page falls back", "/cards?page=0", 1, paging.DefaultLimit},
		{"negative limit falls back", "/cards?limit=-5", 1, paging.DefaultLimit},
		{"non-numeric falls back", "/cards?page=abc&limit=xyz", 1, paging.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := paging.Parse(r)
			if p.Page != tt.wantPage {
				t.Errorf("page: got %d, want %d", p.Page, tt.wantPage)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("limit: got %d, want %d", p.Limit, tt.wantLimit)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	p := paging.Page{Page: 3, Limit: 10}
	if got := p.Skip(); got != 20 {
		t.Errorf("skip: got %d, want 20", got)
	}
	if got := p.Limit64(); got != 10 {
		t.Errorf("limit64: got %d, want 10", got)
	}
}

func TestParsePos(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   float64
		wantOK bool
	}{
		{"missing", "/lists/x/position", 0, false},
		{"valid integer", "/lists/x/position?pos=1024", 1024, true},
		{"valid fraction", "/lists/x/position?pos=1536.5", 1536.5, true},
		{"zero is valid", "/lists/x/position?pos=0", 0, true},
		{"negative rejected", "/lists/x/position?pos=-1", 0, false},
		{"NaN rejected", "/lists/x/position?pos=NaN", 0, false},
		{"oversized rejected", "/lists/x/position?pos=1e20", 0, false},
		{"non-numeric rejected", "/lists/x/position?pos=top", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			got, ok := paging.ParsePos(r)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("pos: got %v, want %v", got, tt.want)
			}
		})
	}
}
