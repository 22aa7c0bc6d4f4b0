// Package server assembles the HTTP API from the feature modules.
package server

import (
	"context"
	"net/http"
	"time"

	"functionhall/internal/config"
	"functionhall/internal/domain"
	"functionhall/internal/metrics"
	"functionhall/internal/middleware"
	"functionhall/internal/modules/admin"
	"functionhall/internal/modules/auth"
	"functionhall/internal/modules/booking"
	"functionhall/internal/modules/catalog"
	"functionhall/internal/modules/changerequest"
	"functionhall/internal/modules/inquiry"
	"functionhall/internal/modules/otp"
	"functionhall/internal/modules/realtime"
	"functionhall/internal/modules/upload"
	"functionhall/internal/notification"
	"functionhall/internal/pkg/jwt"
	"functionhall/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Notifier is satisfied by notification.Dispatcher.
type Notifier interface {
	Notify(ctx context.Context, msg notification.Message) error
}

// Deps are the process-wide collaborators. Notifier, OTPStore and Search are
// optional and must be left as untyped nil when not configured.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	JWT      *jwt.Service
	Notifier Notifier
	Sender   notification.Sender
	OTPStore otp.Store
	Search   catalog.SearchIndex
	Hub      *realtime.Hub
	Storage  upload.ImageStorage
}

func NewRouter(d Deps) *gin.Engine {
	if d.Hub == nil {
		d.Hub = realtime.NewHub()
	}
	if d.Sender == nil {
		d.Sender = notification.ConsoleSender{}
	}
	if d.Storage == nil {
		d.Storage = upload.NewLocalStorage(d.Config.UploadsDir, d.Config.UploadsURLBase)
	}

	// Repositories used by middleware
	vendorRepo := repository.NewVendorRepository(d.DB)
	customerRepo := repository.NewCustomerRepository(d.DB)

	// Services
	authService := auth.NewService(vendorRepo, customerRepo, d.JWT)
	otpService := otp.NewService(d.OTPStore, d.Sender, customerRepo, d.Config.OTPTTL, d.Config.NotifyTimeout)
	catalogService := catalog.NewService(d.DB, d.Search)
	changeService := changerequest.NewService(d.DB, d.Notifier, d.Search, d.Hub)
	bookingService := booking.NewService(d.DB, d.Notifier, d.Hub)
	inquiryService := inquiry.NewService(d.DB, d.Notifier)
	adminService := admin.NewService(d.DB, d.Notifier)

	// Handlers
	authHandler := auth.NewHandler(authService)
	otpHandler := otp.NewHandler(otpService)
	catalogHandler := catalog.NewHandler(catalogService)
	changeHandler := changerequest.NewHandler(changeService)
	bookingHandler := booking.NewHandler(bookingService)
	inquiryHandler := inquiry.NewHandler(inquiryService)
	adminHandler := admin.NewHandler(adminService)
	uploadHandler := upload.NewHandler(d.Storage)
	feedHandler := realtime.NewHandler(d.Hub, d.Config.CORSOrigins)

	gin.SetMode(d.Config.GinMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(d.Config.CORSOrigins))
	r.Use(metrics.Middleware())

	r.GET("/health", healthHandler(d.DB))
	r.GET("/metrics", middleware.MetricsAuth(d.Config.MetricsToken, d.Config.MetricsAllowedIPs), metrics.Handler())
	if local, ok := d.Storage.(*upload.LocalStorage); ok {
		r.Static(local.URLBase(), local.BaseDir())
	}

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		otpHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)

		optional := v1.Group("")
		optional.Use(middleware.OptionalAuth(d.JWT))
		inquiryHandler.RegisterPublicRoutes(optional)

		// authenticated
		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(d.JWT))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)

			customer := protected.Group("")
			customer.Use(middleware.RequireRole(domain.RoleCustomer))
			authHandler.RegisterCustomerRoutes(customer)
			bookingHandler.RegisterCustomerRoutes(customer)

			vendor := protected.Group("")
			vendor.Use(middleware.RequireRole(domain.RoleVendor))
			catalogHandler.RegisterVendorRoutes(vendor)
			bookingHandler.RegisterVendorRoutes(vendor)
			inquiryHandler.RegisterVendorRoutes(vendor)

			approved := protected.Group("")
			approved.Use(middleware.RequireApprovedVendor(vendorRepo))
			changeHandler.RegisterVendorRoutes(approved)
			uploadHandler.RegisterRoutes(approved)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.JWTAuth(d.JWT), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
			catalogHandler.RegisterAdminRoutes(adminGroup)
			changeHandler.RegisterAdminRoutes(adminGroup)
			bookingHandler.RegisterAdminRoutes(adminGroup)
			inquiryHandler.RegisterAdminRoutes(adminGroup)
			feedHandler.RegisterRoutes(adminGroup)
		}
	}

	return r
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "time": time.Now().UTC()})
	}
}
