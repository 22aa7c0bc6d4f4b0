package admin

import (
	"context"
	"testing"

	"functionhall/internal/domain"
	"functionhall/internal/notification"
	"functionhall/internal/pkg/apperr"
	"functionhall/internal/repository"
	"functionhall/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	msgs []notification.Message
}

func (r *recordingNotifier) Notify(ctx context.Context, msg notification.Message) error {
	r.msgs = append(r.msgs, msg)
	return nil
}

func TestVendorModeration(t *testing.T) {
	db := testutil.NewDB(t)
	notifs := &recordingNotifier{}
	svc := NewService(db, notifs)
	ctx := context.Background()
	v := testutil.CreateVendor(t, db, false)

	got, err := svc.ApproveVendor(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
	assert.True(t, got.CanMutateCatalog())

	got, err = svc.RejectVendor(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, got.IsApproved)

	require.Len(t, notifs.msgs, 2)
	assert.Equal(t, notification.TypeVendorApproved, notifs.msgs[0].Type)
	assert.Equal(t, notification.TypeVendorRejected, notifs.msgs[1].Type)
	assert.Equal(t, v.Phone, notifs.msgs[0].To)

	admin := testutil.CreateAdmin(t, db)
	_, err = svc.RejectVendor(ctx, admin.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.ApproveVendor(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestVendorList_FiltersByApproval(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, nil)
	testutil.CreateVendor(t, db, false)
	testutil.CreateVendor(t, db, true)

	no := false
	vendors, total, err := svc.ListVendors(context.Background(), &no, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.False(t, vendors[0].IsApproved)
}

func TestCustomerModeration_KeepsFlagsInStep(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, nil)
	ctx := context.Background()
	c := testutil.CreateCustomer(t, db, domain.ApprovalPending)

	got, err := svc.ApproveCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, got.ApprovalStatus)
	assert.True(t, got.IsApproved)

	got, err = svc.RejectCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalRejected, got.ApprovalStatus)
	assert.False(t, got.IsApproved)

	_, _, err = svc.ListCustomers(ctx, "banned", repository.Page{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetStatistics(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, nil)
	testutil.CreateVendor(t, db, false)
	testutil.CreateCustomer(t, db, domain.ApprovalPending)
	c := testutil.CreateCustomer(t, db, domain.ApprovalApproved)
	h := testutil.CreateHall(t, db, nil, 1000)
	require.NoError(t, db.Create(&domain.Booking{CustomerID: c.ID, HallID: h.ID, EventDate: "2026-01-01", Status: domain.BookingConfirmed, TotalAmount: 1000}).Error)

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PendingVendors)
	assert.Equal(t, int64(1), stats.PendingCustomers)
	assert.Equal(t, int64(1), stats.ApprovedCustomers)
	assert.Equal(t, int64(1), stats.ApprovedHalls)
	assert.Equal(t, int64(1), stats.BookingsByStatus["Confirmed"])
	assert.Equal(t, int64(0), stats.BookingsByStatus["Pending"])
}
