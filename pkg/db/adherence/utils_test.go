package adherence

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalCount int64
		limit      int64
		want       int64
	}{
		{name: "exact", totalCount: 10, limit: 10, want: 1},
		{name: "two pages", totalCount: 10, limit: 5, want: 2},
		{name: "partial last page", totalCount: 10, limit: 3, want: 4},
		{name: "zero limit", totalCount: 10, limit: 0, want: 0},
		{name: "empty", totalCount: 0, limit: 10, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getTotalPages(tt.totalCount, tt.limit); got != tt.want {
				t.Errorf("getTotalPages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrepPaginationInfos(t *testing.T) {
	tests := []struct {
		name       string
		totalCount int64
		page       int64
		limit      int64
		want       PaginationInfos
	}{
		{name: "first page", totalCount: 25, page: 1, limit: 10, want: PaginationInfos{TotalCount: 25, CurrentPage: 1, TotalPages: 3, PageSize: 10}},
		{name: "page beyond last", totalCount: 25, page: 7, limit: 10, want: PaginationInfos{TotalCount: 25, CurrentPage: 3, TotalPages: 3, PageSize: 10}},
		{name: "no results", totalCount: 0, page: 2, limit: 10, want: PaginationInfos{TotalCount: 0, CurrentPage: 1, TotalPages: 0, PageSize: 10}},
		{name: "default page size", totalCount: 120, page: 0, limit: 0, want: PaginationInfos{TotalCount: 120, CurrentPage: 1, TotalPages: 3, PageSize: DEFAULT_ADHERENCE_REPORT_PAGE_SIZE}},
		{name: "capped page size", totalCount: 1200, page: 1, limit: 10000, want: PaginationInfos{TotalCount: 1200, CurrentPage: 1, TotalPages: 3, PageSize: MAX_ADHERENCE_REPORT_PAGE_SIZE}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prepPaginationInfos(tt.totalCount, tt.page, tt.limit)
			if *got != tt.want {
				t.Errorf("prepPaginationInfos() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestReportSearchFilter(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if f := reportSearchFilter("", ""); len(f) != 0 {
			t.Errorf("expected empty filter, got %v", f)
		}
	})

	t.Run("label is escaped", func(t *testing.T) {
		f := reportSearchFilter("burst1 2 / Week (3)", "")
		re, ok := f["searchableLabels"].(primitive.Regex)
		if !ok {
			t.Fatalf("unexpected filter: %v", f)
		}
		if re.Pattern != `burst1 2 / Week \(3\)` || re.Options != "i" {
			t.Errorf("unexpected regex: %+v", re)
		}
	})

	t.Run("with progression", func(t *testing.T) {
		f := reportSearchFilter("", "in_progress")
		if f["progression"] != "in_progress" {
			t.Errorf("unexpected filter: %v", f)
		}
	})
}
