package apihelpers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PaginatedQuery struct {
	Page  int64
	Limit int64
}

// ParsePaginatedQueryFromCtx reads page (default 1) and limit (default defaultLimit) from the query.
func ParsePaginatedQueryFromCtx(c *gin.Context, defaultLimit int64) (*PaginatedQuery, error) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, errors.New("page must be positive")
	}

	limit := defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.ParseInt(limitStr, 10, 64)
		if err != nil {
			return nil, err
		}
		if limit < 1 {
			return nil, errors.New("limit must be positive")
		}
	}

	return &PaginatedQuery{
		Page:  page,
		Limit: limit,
	}, nil
}
