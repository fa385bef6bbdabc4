package synclog

import "context"

// ListResult is a page of sync log entries.
type ListResult struct {
	Entries    []Entry `json:"entries"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}

// Service defines the interface for sync log business logic
type Service interface {
	Record(ctx context.Context, entry *Entry) error
	Latest(ctx context.Context) (*Entry, error)
	List(ctx context.Context, page, limit int) (*ListResult, error)
}

type service struct {
	repo Repository
}

// NewService creates a new sync log service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, entry *Entry) error {
	return s.repo.Record(ctx, entry)
}

func (s *service) Latest(ctx context.Context) (*Entry, error) {
	return s.repo.Latest(ctx)
}

func (s *service) List(ctx context.Context, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, total, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &ListResult{
		Entries:    entries,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
