package domain

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleVendor     Role = "vendor"
	RoleCustomer   Role = "customer"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	return s == ApprovalPending || s == ApprovalApproved || s == ApprovalRejected
}

// Vendor is a hall owner or a super admin. Unapproved vendors can log in but
// cannot touch the catalog.
type Vendor struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Phone        string    `json:"phone" gorm:"size:20"`
	BusinessName string    `json:"business_name" gorm:"size:150"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         Role      `json:"role" gorm:"size:20;not null;default:vendor"`
	IsApproved   bool      `json:"is_approved" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Vendor) TableName() string { return "vendors" }

func (v *Vendor) IsSuperAdmin() bool {
	return v.Role == RoleSuperAdmin
}

// CanMutateCatalog reports whether the vendor may submit hall change requests.
func (v *Vendor) CanMutateCatalog() bool {
	return v.Role == RoleVendor && v.IsApproved
}

type Customer struct {
	ID             int64          `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"size:100;not null"`
	Email          string         `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Phone          string         `json:"phone" gorm:"size:20;index"`
	Address        string         `json:"address" gorm:"size:255"`
	PasswordHash   string         `json:"-" gorm:"size:255;not null"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"size:20;not null;default:pending"`
	IsApproved     bool           `json:"is_approved" gorm:"not null;default:false"`
	PhoneVerified  bool           `json:"phone_verified" gorm:"not null;default:false"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// SetApproval keeps IsApproved in step with ApprovalStatus.
func (c *Customer) SetApproval(status ApprovalStatus) {
	c.ApprovalStatus = status
	c.IsApproved = status == ApprovalApproved
}

func (c *Customer) CanBook() bool {
	return c.ApprovalStatus == ApprovalApproved
}
