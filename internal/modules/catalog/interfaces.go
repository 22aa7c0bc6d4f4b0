package catalog

import (
	"context"

	"functionhall/internal/domain"
)

// HallSearcher resolves a free text query to hall ids, best match first.
type HallSearcher interface {
	SearchIDs(ctx context.Context, query string, limit int) ([]int64, error)
}

type HallIndexer interface {
	IndexHall(ctx context.Context, h *domain.Hall) error
	DeleteHall(ctx context.Context, id int64) error
}

// SearchIndex is both sides of the Elasticsearch mirror.
type SearchIndex interface {
	HallSearcher
	HallIndexer
}
