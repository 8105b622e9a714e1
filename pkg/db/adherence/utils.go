package adherence

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func getTotalPages(totalCount int64, limit int64) int64 {
	if limit == 0 {
		return 0
	}
	return (totalCount + limit - 1) / limit
}

func prepPaginationInfos(totalCount int64, page int64, limit int64) *PaginationInfos {
	if limit < 1 {
		limit = DEFAULT_ADHERENCE_REPORT_PAGE_SIZE
	}
	if limit > MAX_ADHERENCE_REPORT_PAGE_SIZE {
		limit = MAX_ADHERENCE_REPORT_PAGE_SIZE
	}

	totalPages := getTotalPages(totalCount, limit)
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	return &PaginationInfos{
		TotalCount:  totalCount,
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    limit,
	}
}

// reportSearchFilter matches reports whose current week contains a row with the label fragment.
func reportSearchFilter(label string, progression string) bson.M {
	filter := bson.M{}
	if label != "" {
		filter["searchableLabels"] = primitive.Regex{Pattern: regexp.QuoteMeta(label), Options: "i"}
	}
	if progression != "" {
		filter["progression"] = progression
	}
	return filter
}
