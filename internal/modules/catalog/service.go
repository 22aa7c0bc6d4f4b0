package catalog

import (
	"context"
	"errors"

	"functionhall/internal/domain"
	"functionhall/internal/logger"
	"functionhall/internal/pkg/apperr"
	"functionhall/internal/pkg/utils"
	"functionhall/internal/pkg/validator"
	"functionhall/internal/repository"

	"gorm.io/gorm"
)

const (
	searchCandidates = 500
	reindexBatch     = 100
)

type Service struct {
	db    *gorm.DB
	halls *repository.HallRepository
	index SearchIndex
}

// NewService wires catalog reads. index is optional; without it text search
// falls back to SQL LIKE matching.
func NewService(db *gorm.DB, index SearchIndex) *Service {
	return &Service{db: db, halls: repository.NewHallRepository(db), index: index}
}

// Search lists approved halls matching p.
func (s *Service) Search(ctx context.Context, p SearchParams, page repository.Page) ([]domain.Hall, int64, error) {
	if !repository.ValidHallSort(p.Sort) {
		return nil, 0, apperr.Validation("sort must be one of: price_asc, price_desc, capacity_asc, capacity_desc")
	}
	f := repository.HallFilter{
		Query:       p.Query,
		Location:    p.Location,
		Name:        p.Name,
		MinCapacity: p.Guests,
		Sort:        p.Sort,
		Page:        page,
	}
	if p.Date != "" {
		day, err := domain.ParseEventDate(p.Date)
		if err != nil {
			return nil, 0, apperr.Validation("date must be YYYY-MM-DD")
		}
		f.AvailableOn = day
	}

	if f.Query != "" && s.index != nil {
		ids, err := s.index.SearchIDs(ctx, f.Query, searchCandidates)
		if err != nil {
			logger.WithContext(ctx).Warn("search index unavailable, using database search", "error", err)
		} else {
			f.IDs = ids
			f.Query = ""
		}
	}
	return s.halls.Search(ctx, f)
}

// ListAll is the admin view, unapproved halls included.
func (s *Service) ListAll(ctx context.Context, page repository.Page) ([]domain.Hall, int64, error) {
	return s.halls.Search(ctx, repository.HallFilter{IncludeUnapproved: true, Page: page})
}

// GetHall returns an approved hall with photos, packages and rooms.
func (s *Service) GetHall(ctx context.Context, id int64) (*domain.Hall, error) {
	h, err := s.halls.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.ApprovalStatus != domain.ApprovalApproved {
		return nil, apperr.NotFound("hall not found")
	}
	return h, nil
}

func (s *Service) ListPackages(ctx context.Context, hallID int64) ([]domain.Package, error) {
	if _, err := s.GetHall(ctx, hallID); err != nil {
		return nil, err
	}
	return s.halls.ListPackages(ctx, hallID)
}

func (s *Service) VendorHalls(ctx context.Context, vendorID int64) ([]domain.Hall, error) {
	return s.halls.ListByVendor(ctx, vendorID)
}

// CreateHall adds an admin-owned hall directly, skipping the change request queue.
func (s *Service) CreateHall(ctx context.Context, p domain.HallProposal) (*domain.Hall, error) {
	p.Photos = utils.NormalizePhotos(p.Photos)
	if err := validator.Struct(p); err != nil {
		return nil, err
	}

	hall := p.Hall(nil)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.halls.WithTx(tx).CreateGraph(ctx, hall)
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("hall created by admin", "hall_id", hall.ID)
	s.reindexOne(ctx, hall.ID)
	return hall, nil
}

// DeletePhoto removes one photo from a hall.
func (s *Service) DeletePhoto(ctx context.Context, hallID, photoID int64) error {
	if err := s.halls.DeletePhoto(ctx, hallID, photoID); err != nil {
		return err
	}
	s.reindexOne(ctx, hallID)
	return nil
}

// Reindex rebuilds the search documents of every approved hall.
func (s *Service) Reindex(ctx context.Context) (*ReindexResult, error) {
	if s.index == nil {
		return nil, apperr.Validation("search index is not configured")
	}

	res := &ReindexResult{}
	var after int64
	for {
		batch, err := s.halls.ListApproved(ctx, after, reindexBatch)
		if err != nil {
			return res, err
		}
		for i := range batch {
			if err := s.index.IndexHall(ctx, &batch[i]); err != nil {
				res.Failed++
				logger.WithContext(ctx).Warn("reindex hall failed", "hall_id", batch[i].ID, "error", err)
				continue
			}
			res.Indexed++
		}
		if len(batch) < reindexBatch {
			return res, nil
		}
		after = batch[len(batch)-1].ID
	}
}

func (s *Service) reindexOne(ctx context.Context, hallID int64) {
	if s.index == nil {
		return
	}
	h, err := s.halls.GetDetail(ctx, hallID)
	if errors.Is(err, apperr.ErrNotFound) {
		err = s.index.DeleteHall(ctx, hallID)
	} else if err == nil {
		err = s.index.IndexHall(ctx, h)
	}
	if err != nil {
		logger.WithContext(ctx).Warn("search index sync failed", "hall_id", hallID, "error", err)
	}
}
