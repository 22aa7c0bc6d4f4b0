// Package testutil builds in-memory databases and fixtures for service tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"functionhall/internal/database"
	"functionhall/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory SQLite database closed at test cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func nextEmail(prefix string) string {
	return fmt.Sprintf("%s%d@example.com", prefix, seq.Add(1))
}

func CreateVendor(t *testing.T, db *gorm.DB, approved bool) *domain.Vendor {
	t.Helper()
	v := &domain.Vendor{
		Name:         "Vendor",
		Email:        nextEmail("vendor"),
		Phone:        "+919800000001",
		PasswordHash: "x",
		Role:         domain.RoleVendor,
		IsApproved:   approved,
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

func CreateAdmin(t *testing.T, db *gorm.DB) *domain.Vendor {
	t.Helper()
	v := &domain.Vendor{
		Name:         "Admin",
		Email:        nextEmail("admin"),
		PasswordHash: "x",
		Role:         domain.RoleSuperAdmin,
		IsApproved:   true,
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

func CreateCustomer(t *testing.T, db *gorm.DB, status domain.ApprovalStatus) *domain.Customer {
	t.Helper()
	c := &domain.Customer{
		Name:         "Customer",
		Email:        nextEmail("customer"),
		Phone:        "+919800000002",
		PasswordHash: "x",
	}
	c.SetApproval(status)
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateHall inserts an approved hall with the given price and packages.
func CreateHall(t *testing.T, db *gorm.DB, vendorID *int64, price float64, packages ...domain.Package) *domain.Hall {
	t.Helper()
	h := &domain.Hall{
		HallFields: domain.HallFields{
			Name:          fmt.Sprintf("Hall %d", seq.Add(1)),
			OwnerName:     "Owner",
			Location:      "Hyderabad",
			Capacity:      300,
			ContactNumber: "+919800000003",
			PricePerDay:   price,
		},
		VendorID:       vendorID,
		ApprovalStatus: domain.ApprovalApproved,
		IsApproved:     true,
		Packages:       packages,
	}
	require.NoError(t, db.Create(h).Error)
	return h
}

func Count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
