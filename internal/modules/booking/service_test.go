package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"functionhall/internal/domain"
	"functionhall/internal/notification"
	"functionhall/internal/pkg/apperr"
	"functionhall/internal/repository"
	"functionhall/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, msg notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func ofType(t string) any {
	return mock.MatchedBy(func(msg notification.Message) bool { return msg.Type == t })
}

type recordingFeed struct {
	mu     sync.Mutex
	events []string
}

func (f *recordingFeed) Publish(eventType string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	notifs   *MockNotifier
	feed     *recordingFeed
	vendor   *domain.Vendor
	customer *domain.Customer
	hall     *domain.Hall
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		notifs:   &MockNotifier{},
		feed:     &recordingFeed{},
		vendor:   testutil.CreateVendor(t, db, true),
		customer: testutil.CreateCustomer(t, db, domain.ApprovalApproved),
	}
	f.hall = testutil.CreateHall(t, db, &f.vendor.ID, 25000, domain.Package{PackageName: "Gold", Price: 5000})
	f.svc = NewService(db, f.notifs, f.feed)
	return f
}

func (f *fixture) book(t *testing.T, date string) *domain.Booking {
	t.Helper()
	f.notifs.On("Notify", mock.Anything, ofType(notification.TypeBookingCreated)).Return(nil).Maybe()
	b, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		CustomerID: f.customer.ID,
		HallID:     f.hall.ID,
		EventDate:  date,
	})
	require.NoError(t, err)
	return b
}

func TestBookingScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkgID := f.hall.Packages[0].ID

	f.notifs.On("Notify", mock.Anything, ofType(notification.TypeBookingCreated)).Return(nil).Once()
	b, err := f.svc.CreateBooking(ctx, CreateBookingInput{
		CustomerID: f.customer.ID,
		HallID:     f.hall.ID,
		EventDate:  "2025-12-25",
		PackageID:  &pkgID,
	})
	require.NoError(t, err)
	assert.Equal(t, 30000.0, b.TotalAmount)
	assert.Equal(t, domain.BookingPending, b.Status)

	_, err = f.svc.CreateBooking(ctx, CreateBookingInput{
		CustomerID: f.customer.ID,
		HallID:     f.hall.ID,
		EventDate:  "2025-12-25",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "date already booked", apperr.Message(err))

	f.notifs.On("Notify", mock.Anything, ofType(notification.TypeBookingConfirmed)).Return(nil).Once()
	confirmed, err := f.svc.UpdateStatus(ctx, System, b.ID, "Confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, confirmed.Status)

	_, err = f.svc.UpdateStatus(ctx, System, b.ID, "Pending")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	f.notifs.AssertExpectations(t)
	f.notifs.AssertNumberOfCalls(t, "Notify", 2)
	assert.Equal(t, []string{EventCreated, EventStatusChanged}, f.feed.events)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CheckAvailability(ctx, f.hall.ID, "2026-01-10")
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Nil(t, res.ConflictingBookingID)

	b := f.book(t, "2026-01-10")

	res, err = f.svc.CheckAvailability(ctx, f.hall.ID, "2026-01-10")
	require.NoError(t, err)
	assert.False(t, res.Available)
	require.NotNil(t, res.ConflictingBookingID)
	assert.Equal(t, b.ID, *res.ConflictingBookingID)

	_, err = f.svc.CheckAvailability(ctx, f.hall.ID, "10/01/2026")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.CheckAvailability(ctx, 9999, "2026-01-10")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCancelledBookingFreesTheDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t, "2026-02-14")
	f.notifs.On("Notify", mock.Anything, ofType(notification.TypeBookingCancelled)).Return(nil).Once()
	_, err := f.svc.UpdateStatus(ctx, System, b.ID, "cancelled")
	require.NoError(t, err)

	res, err := f.svc.CheckAvailability(ctx, f.hall.ID, "2026-02-14")
	require.NoError(t, err)
	assert.True(t, res.Available)

	again := f.book(t, "2026-02-14")
	assert.NotEqual(t, b.ID, again.ID)
}

func TestCreateBooking_CustomerMustBeApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, status := range []domain.ApprovalStatus{domain.ApprovalPending, domain.ApprovalRejected} {
		c := testutil.CreateCustomer(t, f.db, status)
		_, err := f.svc.CreateBooking(ctx, CreateBookingInput{CustomerID: c.ID, HallID: f.hall.ID, EventDate: "2026-03-01"})
		assert.ErrorIs(t, err, apperr.ErrAuthorization, status)
	}

	_, err := f.svc.CreateBooking(ctx, CreateBookingInput{CustomerID: 9999, HallID: f.hall.ID, EventDate: "2026-03-01"})
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	// An unapproved customer is refused before the hall is looked up.
	c := testutil.CreateCustomer(t, f.db, domain.ApprovalPending)
	_, err = f.svc.CreateBooking(ctx, CreateBookingInput{CustomerID: c.ID, HallID: 9999, EventDate: "2026-03-01"})
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	assert.Zero(t, testutil.Count(t, f.db, &domain.Booking{}))
	f.notifs.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestCreateBooking_MissingHall(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		CustomerID: f.customer.ID,
		HallID:     9999,
		EventDate:  "2026-03-01",
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateBooking_PackageMustBelongToHall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.CreateHall(t, f.db, &f.vendor.ID, 10000, domain.Package{PackageName: "Silver", Price: 2000})
	foreign := other.Packages[0].ID

	_, err := f.svc.CreateBooking(ctx, CreateBookingInput{
		CustomerID: f.customer.ID,
		HallID:     f.hall.ID,
		EventDate:  "2026-03-01",
		PackageID:  &foreign,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	missing := int64(9999)
	_, err = f.svc.CreateBooking(ctx, CreateBookingInput{
		CustomerID: f.customer.ID,
		HallID:     f.hall.ID,
		EventDate:  "2026-03-01",
		PackageID:  &missing,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, testutil.Count(t, f.db, &domain.Booking{}))
}

func TestCreateBooking_NotificationFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.notifs.On("Notify", mock.Anything, mock.Anything).Return(errors.New("queue down"))

	b, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		CustomerID: f.customer.ID,
		HallID:     f.hall.ID,
		EventDate:  "2026-04-01",
	})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &domain.Booking{}))
}

func TestCreateBooking_NotifiesVendorPhone(t *testing.T) {
	f := newFixture(t)
	f.notifs.On("Notify", mock.Anything, mock.MatchedBy(func(msg notification.Message) bool {
		return msg.Type == notification.TypeBookingCreated && msg.To == f.vendor.Phone
	})).Return(nil).Once()

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		CustomerID: f.customer.ID,
		HallID:     f.hall.ID,
		EventDate:  "2026-04-02",
	})
	require.NoError(t, err)
	f.notifs.AssertExpectations(t)
}

func TestCreateBooking_ConcurrentRequestsBookOnce(t *testing.T) {
	f := newFixture(t)
	f.notifs.On("Notify", mock.Anything, mock.Anything).Return(nil)

	const n = 8
	customers := make([]*domain.Customer, n)
	for i := range customers {
		customers[i] = testutil.CreateCustomer(t, f.db, domain.ApprovalApproved)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for _, c := range customers {
		wg.Add(1)
		go func(customerID int64) {
			defer wg.Done()
			_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
				CustomerID: customerID,
				HallID:     f.hall.ID,
				EventDate:  "2026-05-05",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperr.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(c.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, conflicts)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &domain.Booking{}))
}

func TestUpdateStatus_TransitionTable(t *testing.T) {
	all := []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed, domain.BookingCompleted, domain.BookingCancelled}
	legal := map[[2]domain.BookingStatus]bool{
		{domain.BookingPending, domain.BookingConfirmed}:   true,
		{domain.BookingPending, domain.BookingCancelled}:   true,
		{domain.BookingConfirmed, domain.BookingCompleted}: true,
		{domain.BookingConfirmed, domain.BookingCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				f := newFixture(t)
				f.notifs.On("Notify", mock.Anything, mock.Anything).Return(nil)
				b := f.book(t, "2026-06-01")
				require.NoError(t, f.db.Model(&domain.Booking{}).Where("id = ?", b.ID).Update("status", from).Error)

				got, err := f.svc.UpdateStatus(context.Background(), System, b.ID, string(to))
				if legal[[2]domain.BookingStatus{from, to}] {
					require.NoError(t, err)
					assert.Equal(t, to, got.Status)
					return
				}
				assert.ErrorIs(t, err, apperr.ErrInvalidState)

				var stored domain.Booking
				require.NoError(t, f.db.First(&stored, b.ID).Error)
				assert.Equal(t, from, stored.Status)
			})
		}
	}
}

func TestUpdateStatus_Validation(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "2026-06-02")

	_, err := f.svc.UpdateStatus(context.Background(), System, b.ID, "Archived")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.UpdateStatus(context.Background(), System, 9999, "Confirmed")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateStatus_ActorRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.notifs.On("Notify", mock.Anything, mock.Anything).Return(nil)
	b := f.book(t, "2026-07-07")

	stranger := testutil.CreateVendor(t, f.db, true)
	_, err := f.svc.UpdateStatus(ctx, Actor{ID: stranger.ID, Role: domain.RoleVendor}, b.ID, "Confirmed")
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	_, err = f.svc.UpdateStatus(ctx, Actor{ID: f.customer.ID, Role: domain.RoleCustomer}, b.ID, "Confirmed")
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	other := testutil.CreateCustomer(t, f.db, domain.ApprovalApproved)
	_, err = f.svc.UpdateStatus(ctx, Actor{ID: other.ID, Role: domain.RoleCustomer}, b.ID, "Cancelled")
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	got, err := f.svc.UpdateStatus(ctx, Actor{ID: f.vendor.ID, Role: domain.RoleVendor}, b.ID, "Confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	got, err = f.svc.UpdateStatus(ctx, Actor{ID: f.customer.ID, Role: domain.RoleCustomer}, b.ID, "Cancelled")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
}

func TestGet_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "2026-07-08")

	_, err := f.svc.Get(ctx, Actor{ID: f.customer.ID, Role: domain.RoleCustomer}, b.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, Actor{ID: f.vendor.ID, Role: domain.RoleVendor}, b.ID)
	assert.NoError(t, err)

	stranger := testutil.CreateVendor(t, f.db, true)
	_, err = f.svc.Get(ctx, Actor{ID: stranger.ID, Role: domain.RoleVendor}, b.ID)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)
}

func TestList_Scopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, "2026-08-01")
	f.book(t, "2026-08-02")

	otherVendor := testutil.CreateVendor(t, f.db, true)
	otherHall := testutil.CreateHall(t, f.db, &otherVendor.ID, 9000)
	_, err := f.svc.CreateBooking(ctx, CreateBookingInput{CustomerID: f.customer.ID, HallID: otherHall.ID, EventDate: "2026-08-01"})
	require.NoError(t, err)

	mine, total, err := f.svc.List(ctx, repository.BookingFilter{CustomerID: f.customer.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, mine, 3)

	vendor, total, err := f.svc.List(ctx, repository.BookingFilter{VendorID: f.vendor.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, b := range vendor {
		assert.Equal(t, f.hall.Name, b.HallName)
		assert.Equal(t, f.customer.Name, b.CustomerName)
	}
}

func TestCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, "2026-09-03")
	f.book(t, "2026-09-30")
	f.book(t, "2026-10-01")

	cal, err := f.svc.Calendar(ctx, f.hall.ID, "2026-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-09", cal.Month)
	assert.Equal(t, []string{"2026-09-03", "2026-09-30"}, cal.BookedDates)

	_, err = f.svc.Calendar(ctx, f.hall.ID, "September")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCompletePast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.notifs.On("Notify", mock.Anything, mock.Anything).Return(nil)

	past := f.book(t, "2026-01-01")
	future := f.book(t, "2026-12-31")
	pending := f.book(t, "2026-01-02")
	for _, id := range []int64{past.ID, future.ID} {
		_, err := f.svc.UpdateStatus(ctx, System, id, "Confirmed")
		require.NoError(t, err)
	}

	n, err := f.svc.CompletePast(ctx, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	statusOf := func(id int64) domain.BookingStatus {
		var b domain.Booking
		require.NoError(t, f.db.First(&b, id).Error)
		return b.Status
	}
	assert.Equal(t, domain.BookingCompleted, statusOf(past.ID))
	assert.Equal(t, domain.BookingConfirmed, statusOf(future.ID))
	assert.Equal(t, domain.BookingPending, statusOf(pending.ID))
}
