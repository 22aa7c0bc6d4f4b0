package catalog

import (
	"context"
	"errors"
	"testing"

	"functionhall/internal/domain"
	"functionhall/internal/pkg/apperr"
	"functionhall/internal/repository"
	"functionhall/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeIndex struct {
	ids     []int64
	err     error
	indexed []int64
	deleted []int64
}

func (f *fakeIndex) SearchIDs(ctx context.Context, query string, limit int) ([]int64, error) {
	return f.ids, f.err
}

func (f *fakeIndex) IndexHall(ctx context.Context, h *domain.Hall) error {
	f.indexed = append(f.indexed, h.ID)
	return nil
}

func (f *fakeIndex) DeleteHall(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func seedHalls(t *testing.T, db *gorm.DB) (*domain.Hall, *domain.Hall, *domain.Hall) {
	t.Helper()
	small := testutil.CreateHall(t, db, nil, 10000)
	big := testutil.CreateHall(t, db, nil, 40000)
	require.NoError(t, db.Model(big).Updates(map[string]any{"capacity": 1200, "location": "Vijayawada"}).Error)
	hidden := testutil.CreateHall(t, db, nil, 5000)
	require.NoError(t, db.Model(hidden).Updates(map[string]any{"approval_status": domain.ApprovalPending, "is_approved": false}).Error)
	return small, big, hidden
}

func ids(halls []domain.Hall) []int64 {
	out := make([]int64, len(halls))
	for i, h := range halls {
		out[i] = h.ID
	}
	return out
}

func TestSearch_Filters(t *testing.T) {
	db := testutil.NewDB(t)
	small, big, _ := seedHalls(t, db)
	svc := NewService(db, nil)
	ctx := context.Background()

	halls, total, err := svc.Search(ctx, SearchParams{Sort: "price_asc"}, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []int64{small.ID, big.ID}, ids(halls))

	halls, _, err = svc.Search(ctx, SearchParams{Guests: 500}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, []int64{big.ID}, ids(halls))

	halls, _, err = svc.Search(ctx, SearchParams{Query: "vijaya"}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, []int64{big.ID}, ids(halls))

	_, _, err = svc.Search(ctx, SearchParams{Sort: "random"}, repository.Page{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, _, err = svc.Search(ctx, SearchParams{Date: "tomorrow"}, repository.Page{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSearch_DateExcludesBookedHalls(t *testing.T) {
	db := testutil.NewDB(t)
	small, big, _ := seedHalls(t, db)
	customer := testutil.CreateCustomer(t, db, domain.ApprovalApproved)
	require.NoError(t, db.Create(&domain.Booking{
		CustomerID: customer.ID, HallID: small.ID, EventDate: "2026-11-11", Status: domain.BookingConfirmed, TotalAmount: 1,
	}).Error)
	require.NoError(t, db.Create(&domain.Booking{
		CustomerID: customer.ID, HallID: big.ID, EventDate: "2026-11-11", Status: domain.BookingCancelled, TotalAmount: 1,
	}).Error)

	halls, _, err := NewService(db, nil).Search(context.Background(), SearchParams{Date: "2026-11-11"}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, []int64{big.ID}, ids(halls))
}

func TestSearch_UsesIndexAndFallsBack(t *testing.T) {
	db := testutil.NewDB(t)
	small, big, hidden := seedHalls(t, db)
	ctx := context.Background()

	index := &fakeIndex{ids: []int64{small.ID, hidden.ID}}
	halls, _, err := NewService(db, index).Search(ctx, SearchParams{Query: "anything"}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, []int64{small.ID}, ids(halls))

	index = &fakeIndex{err: errors.New("es down")}
	halls, _, err = NewService(db, index).Search(ctx, SearchParams{Query: "vijayawada"}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, []int64{big.ID}, ids(halls))
}

func TestGetHall_HidesUnapproved(t *testing.T) {
	db := testutil.NewDB(t)
	small, _, hidden := seedHalls(t, db)
	svc := NewService(db, nil)

	_, err := svc.GetHall(context.Background(), small.ID)
	assert.NoError(t, err)
	_, err = svc.GetHall(context.Background(), hidden.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.ListPackages(context.Background(), hidden.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateHall_AdminDirect(t *testing.T) {
	db := testutil.NewDB(t)
	index := &fakeIndex{}
	svc := NewService(db, index)

	p := domain.HallProposal{
		HallFields: domain.HallFields{Name: "Admin Hall", OwnerName: "Admin", Location: "Guntur", Capacity: 100, ContactNumber: "1", PricePerDay: 9000},
		Photos:     []string{" /static/uploads/a.jpg ", "/static/uploads/a.jpg"},
		Packages:   []domain.PackageProposal{{PackageName: "Basic", Price: 1000}},
	}
	hall, err := svc.CreateHall(context.Background(), p)
	require.NoError(t, err)
	assert.Nil(t, hall.VendorID)
	assert.Equal(t, domain.ApprovalApproved, hall.ApprovalStatus)
	assert.Equal(t, []int64{hall.ID}, index.indexed)
	assert.Equal(t, int64(1), testutil.Count(t, db, &domain.HallPhoto{}))
	assert.Equal(t, int64(1), testutil.Count(t, db, &domain.Package{}))

	p.PricePerDay = 0
	_, err = svc.CreateHall(context.Background(), p)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDeletePhoto(t *testing.T) {
	db := testutil.NewDB(t)
	hall := testutil.CreateHall(t, db, nil, 1000)
	photo := domain.HallPhoto{HallID: hall.ID, URL: "/static/uploads/x.jpg"}
	require.NoError(t, db.Create(&photo).Error)
	svc := NewService(db, nil)

	other := testutil.CreateHall(t, db, nil, 1000)
	assert.ErrorIs(t, svc.DeletePhoto(context.Background(), other.ID, photo.ID), apperr.ErrNotFound)

	require.NoError(t, svc.DeletePhoto(context.Background(), hall.ID, photo.ID))
	assert.Zero(t, testutil.Count(t, db, &domain.HallPhoto{}))
}

func TestReindex(t *testing.T) {
	db := testutil.NewDB(t)
	seedHalls(t, db)
	index := &fakeIndex{}

	res, err := NewService(db, index).Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Indexed)
	assert.Len(t, index.indexed, 2)

	_, err = NewService(db, nil).Reindex(context.Background())
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
