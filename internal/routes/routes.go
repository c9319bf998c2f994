package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slotbook/backend/internal/config"
	"github.com/slotbook/backend/internal/handlers"
	"github.com/slotbook/backend/internal/middleware"
	"github.com/slotbook/backend/internal/services/payment"
)

// SetupRouter builds the gin engine with all routes registered
func SetupRouter(cfg *config.Config, db *gorm.DB, paymentService *payment.PaymentService) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rateLimiter := middleware.NewRateLimiter(10, 20)
	router.Use(rateLimiter.Middleware())

	authHandler := handlers.NewAuthHandler(db)
	couponHandler := handlers.NewCouponHandler(db)
	commissionHandler := handlers.NewCommissionHandler(db)
	bookingHandler := handlers.NewBookingHandler(db, paymentService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/services", bookingHandler.ListServices)
		api.POST("/bookings/quote", bookingHandler.Quote)
		api.POST("/bookings", bookingHandler.Book)
		api.GET("/bookings", bookingHandler.ListBookings)
		api.POST("/coupons/validate", couponHandler.ValidateCode)
	}

	partnerGroup := router.Group("/api/partner")
	partnerGroup.Use(middleware.AuthMiddleware(), middleware.PartnerMiddleware())
	{
		partnerGroup.POST("/coupons", couponHandler.CreateCoupon)
		partnerGroup.GET("/coupons", couponHandler.ListCoupons)
		partnerGroup.GET("/earnings", commissionHandler.GetEarnings)
		partnerGroup.GET("/commissions", commissionHandler.ListCommissions)
	}

	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		adminGroup.POST("/partners", authHandler.CreatePartner)
		adminGroup.POST("/partners/:id/coupons", couponHandler.CreateCouponForPartner)
		adminGroup.PUT("/coupons/:id/active", couponHandler.SetActive)
		adminGroup.PUT("/commissions/:id/status", commissionHandler.UpdateStatus)
	}

	return router
}
