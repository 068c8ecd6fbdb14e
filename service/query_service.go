package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wanderlog/dao"
	"wanderlog/internal/apperr"
	"wanderlog/internal/auth"
	"wanderlog/model"

	"github.com/go-redis/redis/v8"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	popularTopN     = 6

	popularCacheKey = "wl:popular_destinations"
	popularCacheTTL = 5 * time.Minute
)

// ReviewPage is one page of the review queue plus pagination metadata.
type ReviewPage struct {
	Items      []model.Note `json:"items"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalItems int64        `json:"total_items"`
	TotalPages int64        `json:"total_pages"`
}

// QueryService is the read-side facade: public feed, review queue and the
// Redis-cached destination aggregation.
type QueryService struct {
	queries *dao.QueryDAO
	rdb     *redis.Client
}

// NewQueryService 创建一个新的 QueryService 实例。rdb 可为 nil（测试环境），
// 此时聚合结果不走缓存。
func NewQueryService(queries *dao.QueryDAO, rdb *redis.Client) *QueryService {
	return &QueryService{queries: queries, rdb: rdb}
}

// ListPublished returns approved, non-deleted notes for anonymous browsing.
func (s *QueryService) ListPublished(limit, offset int) ([]model.Note, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	notes, err := s.queries.ListPublished(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return notes, nil
}

// ListForReview returns the review queue page for auditors and admins.
func (s *QueryService) ListForReview(p auth.Principal, status *model.NoteStatus, search string, page, pageSize int) (*ReviewPage, error) {
	if !p.Role.CanReview() {
		return nil, fmt.Errorf("%w: reviewer role required", apperr.ErrForbidden)
	}
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, *status)
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.queries.ListForReview(status, search, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	return &ReviewPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// PopularDestinations returns the top locations among approved notes. The
// result is cached briefly in Redis; cache failures fall through to the DB.
func (s *QueryService) PopularDestinations(ctx context.Context) ([]dao.DestinationCount, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, popularCacheKey).Result(); err == nil {
			var dests []dao.DestinationCount
			if json.Unmarshal([]byte(cached), &dests) == nil {
				return dests, nil
			}
		}
	}

	dests, err := s.queries.PopularDestinations(popularTopN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}

	if s.rdb != nil {
		if data, err := json.Marshal(dests); err == nil {
			_ = s.rdb.Set(ctx, popularCacheKey, data, popularCacheTTL).Err()
		}
	}
	return dests, nil
}
