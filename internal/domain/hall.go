package domain

import "time"

// Hall is a bookable venue. VendorID is nil for halls added directly by an admin.
type Hall struct {
	ID int64 `json:"id" gorm:"primaryKey"`
	HallFields
	VendorID       *int64         `json:"vendor_id,omitempty" gorm:"index"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"size:20;not null;default:pending;index"`
	IsApproved     bool           `json:"is_approved" gorm:"not null;default:false"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Photos          []HallPhoto      `json:"photos,omitempty" gorm:"foreignKey:HallID"`
	Packages        []Package        `json:"packages,omitempty" gorm:"foreignKey:HallID"`
	FunctionalRooms []FunctionalRoom `json:"functional_rooms,omitempty" gorm:"foreignKey:HallID"`
	GuestRooms      []GuestRoom      `json:"guest_rooms,omitempty" gorm:"foreignKey:HallID"`
}

func (Hall) TableName() string { return "halls" }

// OwnedBy reports whether vendorID owns the hall. Admin-direct halls have no owner.
func (h *Hall) OwnedBy(vendorID int64) bool {
	return h.VendorID != nil && *h.VendorID == vendorID
}

// HallFields are the scalar attributes a vendor may propose. They double as the
// audit snapshot stored on edit and delete requests.
type HallFields struct {
	Name            string  `json:"name" gorm:"size:200;not null" validate:"required,max=200"`
	OwnerName       string  `json:"owner_name" gorm:"size:100" validate:"max=100"`
	Location        string  `json:"location" gorm:"size:200;not null;index" validate:"required,max=200"`
	Capacity        int     `json:"capacity" gorm:"not null" validate:"required,gt=0"`
	ContactNumber   string  `json:"contact_number" gorm:"size:20" validate:"max=20"`
	PricePerDay     float64 `json:"price_per_day" gorm:"not null" validate:"required,gt=0"`
	Description     string  `json:"description" gorm:"type:text"`
	FunctionType    string  `json:"function_type" gorm:"size:100" validate:"max=100"`
	HasDiningHall   bool    `json:"has_dining_hall"`
	HasKitchen      bool    `json:"has_kitchen"`
	HasStage        bool    `json:"has_stage"`
	HasBasicRooms   bool    `json:"has_basic_rooms"`
	BasicRoomsCount int     `json:"basic_rooms_count" validate:"gte=0"`
}

type HallPhoto struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	HallID    int64     `json:"hall_id" gorm:"not null;index"`
	URL       string    `json:"url" gorm:"size:500;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (HallPhoto) TableName() string { return "hall_photos" }

type Package struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	HallID      int64   `json:"hall_id" gorm:"not null;index"`
	PackageName string  `json:"package_name" gorm:"size:100;not null"`
	Price       float64 `json:"price" gorm:"not null"`
	Details     string  `json:"details" gorm:"type:text"`
}

func (Package) TableName() string { return "packages" }

type FunctionalRoom struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	HallID      int64   `json:"hall_id" gorm:"not null;index"`
	RoomType    string  `json:"room_type" gorm:"size:100;not null"`
	Price       float64 `json:"price"`
	Description string  `json:"description" gorm:"type:text"`
	Amenities   string  `json:"amenities" gorm:"type:text"`
}

func (FunctionalRoom) TableName() string { return "functional_rooms" }

type GuestRoom struct {
	ID           int64   `json:"id" gorm:"primaryKey"`
	HallID       int64   `json:"hall_id" gorm:"not null;index"`
	RoomCategory string  `json:"room_category" gorm:"size:100;not null"`
	Price        float64 `json:"price"`
	BedType      string  `json:"bed_type" gorm:"size:50"`
	MaxOccupancy int     `json:"max_occupancy"`
	Description  string  `json:"description" gorm:"type:text"`
	Amenities    string  `json:"amenities" gorm:"type:text"`
}

func (GuestRoom) TableName() string { return "guest_rooms" }
