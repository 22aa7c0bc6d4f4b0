package main

import (
	"fmt"
	"time"

	"functionhall/internal/config"
	"functionhall/internal/database"
	"functionhall/internal/domain"
	"functionhall/internal/logger"
	"functionhall/internal/modules/auth"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seed creates the super admin from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD and,
// on an empty catalog, a few demo vendors, customers and halls.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFmt)
	log := logger.Get()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect failed", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed", "error", err)
	}

	// ================== SUPER ADMIN ==================
	adminHash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		logger.Fatal("hash admin password", "error", err)
	}
	admin := domain.Vendor{
		Name:         "Super Admin",
		Email:        cfg.SeedAdminEmail,
		PasswordHash: adminHash,
		Role:         domain.RoleSuperAdmin,
		IsApproved:   true,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error; err != nil {
		logger.Fatal("create super admin", "error", err)
	}
	log.Info("super admin ready", "email", cfg.SeedAdminEmail)

	var halls int64
	if err := db.Model(&domain.Hall{}).Count(&halls).Error; err != nil {
		logger.Fatal("count halls", "error", err)
	}
	if halls > 0 {
		log.Info("catalog not empty, skipping demo data", "halls", halls)
		return
	}

	if err := db.Transaction(seedDemo); err != nil {
		logger.Fatal("seed demo data", "error", err)
	}
	log.Info("demo data created", "vendor_password", "vendor123", "customer_password", "customer123")
}

func seedDemo(tx *gorm.DB) error {
	vendorHash, err := auth.HashPassword("vendor123")
	if err != nil {
		return err
	}
	customerHash, err := auth.HashPassword("customer123")
	if err != nil {
		return err
	}

	// ================== VENDORS ==================
	vendors := []domain.Vendor{
		{Name: "Ravi Kumar", Email: "ravi@grandpalace.in", Phone: "+919876543210", BusinessName: "Grand Palace Events", IsApproved: true},
		{Name: "Lakshmi Rao", Email: "lakshmi@lotusgardens.in", Phone: "+919876543211", BusinessName: "Lotus Gardens", IsApproved: true},
		{Name: "Arjun Reddy", Email: "arjun@newvenues.in", Phone: "+919876543212", BusinessName: "New Venues"},
	}
	for i := range vendors {
		vendors[i].PasswordHash = vendorHash
		vendors[i].Role = domain.RoleVendor
		if err := tx.Create(&vendors[i]).Error; err != nil {
			return fmt.Errorf("vendor %s: %w", vendors[i].Email, err)
		}
	}

	// ================== CUSTOMERS ==================
	customers := []domain.Customer{
		{Name: "Priya Sharma", Email: "priya@example.com", Phone: "+919800000101", Address: "Banjara Hills, Hyderabad"},
		{Name: "Kiran Patel", Email: "kiran@example.com", Phone: "+919800000102", Address: "Madhapur, Hyderabad"},
	}
	customers[0].SetApproval(domain.ApprovalApproved)
	customers[1].SetApproval(domain.ApprovalPending)
	for i := range customers {
		customers[i].PasswordHash = customerHash
		if err := tx.Create(&customers[i]).Error; err != nil {
			return fmt.Errorf("customer %s: %w", customers[i].Email, err)
		}
	}

	// ================== HALLS ==================
	proposals := []struct {
		vendor *int64
		hall   domain.HallProposal
	}{
		{&vendors[0].ID, domain.HallProposal{
			HallFields: domain.HallFields{
				Name: "Grand Palace Convention", OwnerName: "Ravi Kumar", Location: "Jubilee Hills, Hyderabad",
				Capacity: 800, ContactNumber: vendors[0].Phone, PricePerDay: 150000,
				Description: "Air conditioned banquet hall with valet parking", FunctionType: "Wedding",
				HasDiningHall: true, HasKitchen: true, HasStage: true, HasBasicRooms: true, BasicRoomsCount: 6,
			},
			Photos: []string{"/static/uploads/demo/grand-palace-1.jpg"},
			Packages: []domain.PackageProposal{
				{PackageName: "Silver", Price: 25000, Details: "Decoration and sound"},
				{PackageName: "Gold", Price: 60000, Details: "Decoration, sound and catering for 300"},
			},
			FunctionalRooms: []domain.FunctionalRoomProposal{{RoomType: "Bridal suite", Price: 5000}},
			GuestRooms:      []domain.GuestRoomProposal{{RoomCategory: "Deluxe", Price: 3500, BedType: "King", MaxOccupancy: 2}},
		}},
		{&vendors[1].ID, domain.HallProposal{
			HallFields: domain.HallFields{
				Name: "Lotus Gardens", OwnerName: "Lakshmi Rao", Location: "Gachibowli, Hyderabad",
				Capacity: 400, ContactNumber: vendors[1].Phone, PricePerDay: 80000,
				Description: "Open lawn with a covered stage", FunctionType: "Reception",
				HasKitchen: true, HasStage: true,
			},
			Packages: []domain.PackageProposal{{PackageName: "Basic", Price: 10000}},
		}},
		{nil, domain.HallProposal{
			HallFields: domain.HallFields{
				Name: "City Community Hall", OwnerName: "Municipal Office", Location: "Secunderabad",
				Capacity: 250, ContactNumber: "+919800000200", PricePerDay: 25000, FunctionType: "Birthday",
			},
		}},
	}

	created := make([]*domain.Hall, 0, len(proposals))
	for _, p := range proposals {
		h := p.hall.Hall(p.vendor)
		if err := tx.Create(h).Error; err != nil {
			return fmt.Errorf("hall %s: %w", h.Name, err)
		}
		created = append(created, h)
	}

	// ================== BOOKINGS ==================
	day := func(offset int) string {
		return time.Now().AddDate(0, 0, offset).Format(domain.EventDateLayout)
	}
	bookings := []domain.Booking{
		{CustomerID: customers[0].ID, HallID: created[0].ID, EventDate: day(21), Status: domain.BookingConfirmed, TotalAmount: 150000},
		{CustomerID: customers[0].ID, HallID: created[1].ID, PackageID: &created[1].Packages[0].ID, EventDate: day(35), Status: domain.BookingPending, TotalAmount: 90000},
		{CustomerID: customers[0].ID, HallID: created[0].ID, EventDate: day(-30), Status: domain.BookingCompleted, TotalAmount: 150000},
	}
	for i := range bookings {
		if err := tx.Create(&bookings[i]).Error; err != nil {
			return fmt.Errorf("booking: %w", err)
		}
	}
	return nil
}
