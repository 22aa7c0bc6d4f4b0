package repository

import (
	"context"
	"strings"

	"functionhall/internal/domain"
	"functionhall/internal/pkg/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HallFilter struct {
	Query       string
	IDs         []int64
	Location    string
	Name        string
	MinCapacity int
	AvailableOn string
	Sort        string
	// IncludeUnapproved lists halls regardless of approval status.
	IncludeUnapproved bool
	Page
}

var hallSorts = map[string]string{
	"price_asc":     "price_per_day ASC",
	"price_desc":    "price_per_day DESC",
	"capacity_asc":  "capacity ASC",
	"capacity_desc": "capacity DESC",
}

func ValidHallSort(s string) bool {
	_, ok := hallSorts[s]
	return s == "" || ok
}

type HallRepository struct {
	db *gorm.DB
}

func NewHallRepository(db *gorm.DB) *HallRepository {
	return &HallRepository{db: db}
}

func (r *HallRepository) WithTx(tx *gorm.DB) *HallRepository {
	return &HallRepository{db: tx}
}

func (r *HallRepository) GetByID(ctx context.Context, id int64) (*domain.Hall, error) {
	var h domain.Hall
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, notFound(err, "hall not found")
	}
	return &h, nil
}

// GetByIDForUpdate loads and row-locks a hall inside a transaction.
func (r *HallRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Hall, error) {
	var h domain.Hall
	if err := forUpdate(r.db.WithContext(ctx)).First(&h, id).Error; err != nil {
		return nil, notFound(err, "hall not found")
	}
	return &h, nil
}

// GetDetail loads a hall with every child collection.
func (r *HallRepository) GetDetail(ctx context.Context, id int64) (*domain.Hall, error) {
	var h domain.Hall
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Packages", func(db *gorm.DB) *gorm.DB { return db.Order("price") }).
		Preload("FunctionalRooms").
		Preload("GuestRooms").
		First(&h, id).Error
	if err != nil {
		return nil, notFound(err, "hall not found")
	}
	return &h, nil
}

// CreateGraph inserts the hall first to obtain its id, then each child collection.
func (r *HallRepository) CreateGraph(ctx context.Context, h *domain.Hall) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(h).Error; err != nil {
		return err
	}

	for i := range h.Photos {
		h.Photos[i].HallID = h.ID
	}
	for i := range h.Packages {
		h.Packages[i].HallID = h.ID
	}
	for i := range h.FunctionalRooms {
		h.FunctionalRooms[i].HallID = h.ID
	}
	for i := range h.GuestRooms {
		h.GuestRooms[i].HallID = h.ID
	}

	if len(h.Photos) > 0 {
		if err := db.Create(&h.Photos).Error; err != nil {
			return err
		}
	}
	if len(h.Packages) > 0 {
		if err := db.Create(&h.Packages).Error; err != nil {
			return err
		}
	}
	if len(h.FunctionalRooms) > 0 {
		if err := db.Create(&h.FunctionalRooms).Error; err != nil {
			return err
		}
	}
	if len(h.GuestRooms) > 0 {
		if err := db.Create(&h.GuestRooms).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateFields overwrites every scalar of the hall, zero values included.
func (r *HallRepository) UpdateFields(ctx context.Context, id int64, f domain.HallFields) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Hall{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":              f.Name,
			"owner_name":        f.OwnerName,
			"location":          f.Location,
			"capacity":          f.Capacity,
			"contact_number":    f.ContactNumber,
			"price_per_day":     f.PricePerDay,
			"description":       f.Description,
			"function_type":     f.FunctionType,
			"has_dining_hall":   f.HasDiningHall,
			"has_kitchen":       f.HasKitchen,
			"has_stage":         f.HasStage,
			"has_basic_rooms":   f.HasBasicRooms,
			"basic_rooms_count": f.BasicRoomsCount,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("hall not found")
	}
	return nil
}

func (r *HallRepository) AddPhotos(ctx context.Context, hallID int64, urls []string) ([]domain.HallPhoto, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	photos := make([]domain.HallPhoto, 0, len(urls))
	for _, u := range urls {
		photos = append(photos, domain.HallPhoto{HallID: hallID, URL: u})
	}
	if err := r.db.WithContext(ctx).Create(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *HallRepository) DeletePhoto(ctx context.Context, hallID, photoID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND hall_id = ?", photoID, hallID).
		Delete(&domain.HallPhoto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("photo not found")
	}
	return nil
}

// DeleteGraph removes the hall and every child row.
func (r *HallRepository) DeleteGraph(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	for _, child := range []any{&domain.HallPhoto{}, &domain.Package{}, &domain.FunctionalRoom{}, &domain.GuestRoom{}} {
		if err := db.Where("hall_id = ?", id).Delete(child).Error; err != nil {
			return err
		}
	}

	res := db.Delete(&domain.Hall{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("hall not found")
	}
	return nil
}

func (r *HallRepository) Search(ctx context.Context, f HallFilter) ([]domain.Hall, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Hall{})

	if !f.IncludeUnapproved {
		q = q.Where("approval_status = ?", domain.ApprovalApproved)
	}
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return []domain.Hall{}, 0, nil
		}
		q = q.Where("id IN ?", f.IDs)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	if s := strings.TrimSpace(f.Location); s != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if s := strings.TrimSpace(f.Name); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.MinCapacity > 0 {
		q = q.Where("capacity >= ?", f.MinCapacity)
	}
	if f.AvailableOn != "" {
		booked := r.db.Model(&domain.Booking{}).
			Select("hall_id").
			Where("event_date = ? AND status IN ?", f.AvailableOn, domain.ActiveBookingStatuses)
		q = q.Where("id NOT IN (?)", booked)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := hallSorts[f.Sort]
	if !ok {
		order = "id DESC"
	}

	var out []domain.Hall
	err := f.Page.apply(q.Order(order)).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Find(&out).Error
	return out, total, err
}

func (r *HallRepository) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Hall, error) {
	var out []domain.Hall
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("id DESC").
		Preload("Photos").
		Preload("Packages").
		Find(&out).Error
	return out, err
}

// ListApproved streams approved halls with details in id order.
func (r *HallRepository) ListApproved(ctx context.Context, afterID int64, limit int) ([]domain.Hall, error) {
	var out []domain.Hall
	err := r.db.WithContext(ctx).
		Where("approval_status = ? AND id > ?", domain.ApprovalApproved, afterID).
		Order("id").
		Limit(limit).
		Preload("Packages").
		Find(&out).Error
	return out, err
}

func (r *HallRepository) ListPackages(ctx context.Context, hallID int64) ([]domain.Package, error) {
	var out []domain.Package
	err := r.db.WithContext(ctx).Where("hall_id = ?", hallID).Order("price").Find(&out).Error
	return out, err
}

func (r *HallRepository) GetPackage(ctx context.Context, id int64) (*domain.Package, error) {
	var p domain.Package
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "package not found")
	}
	return &p, nil
}

func (r *HallRepository) Count(ctx context.Context, status domain.ApprovalStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Hall{}).Where("approval_status = ?", status).Count(&n).Error
	return n, err
}
