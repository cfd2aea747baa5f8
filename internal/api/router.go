package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/homequest/realty-api/internal/api/handler"
	"github.com/homequest/realty-api/internal/api/middleware"
	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
	"github.com/homequest/realty-api/internal/infrastructure/storage"
	"github.com/homequest/realty-api/internal/infrastructure/ws"
)

// Dependencies carries every collaborator the router wires into handlers.
// Construction happens in main; the router only does wiring, which keeps
// handlers testable against interface fakes.
type Dependencies struct {
	Logger    zerolog.Logger
	DB        *mongo.Database
	Redis     *redis.Client
	JWTSecret string

	Auth          ports.AuthService
	Users         ports.UserRepository
	Properties    ports.PropertyService
	Inquiries     ports.InquiryService
	Bookings      ports.BookingService
	Wallet        ports.WalletService
	Notifications ports.NotificationService
	Documents     storage.DocumentStorage
	WS            *ws.Handler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("realty"))
	e.Use(middleware.RateLimit(rate.Limit(20), 40))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users)
	propertyHandler := handler.NewPropertyHandler(deps.Properties)
	inquiryHandler := handler.NewInquiryHandler(deps.Inquiries, deps.Documents)
	bookingHandler := handler.NewBookingHandler(deps.Bookings)
	walletHandler := handler.NewWalletHandler(deps.Wallet)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	auth := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	agentOnly := middleware.RBAC(domain.RoleAgent, domain.RoleAdmin)

	// --- Operational endpoints ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Live channel ---
	e.GET("/ws", deps.WS.Serve)

	v1 := e.Group("/v1")

	// --- Auth ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/me", authHandler.Me, auth)

	// --- Properties (listing browse is public) ---
	v1.GET("/properties", propertyHandler.List)
	v1.GET("/properties/:id", propertyHandler.Get)
	v1.POST("/properties", propertyHandler.Create, auth, agentOnly)
	v1.POST("/properties/:id/claim", propertyHandler.Claim, auth, agentOnly)

	// --- Admin ---
	admin := v1.Group("/admin", auth, adminOnly)
	admin.PUT("/properties/:id/approval", propertyHandler.Moderate)
	admin.PUT("/users/:id/enabled", authHandler.SetEnabled)

	// --- Inquiries ---
	inquiries := v1.Group("/inquiries", auth)
	inquiries.POST("", inquiryHandler.Create)
	inquiries.GET("/my", inquiryHandler.ListMine)
	inquiries.GET("/owned", inquiryHandler.ListOwned)
	inquiries.GET("/unread-count", inquiryHandler.UnreadCount)
	inquiries.GET("/:id", inquiryHandler.Get)
	inquiries.POST("/:id/messages", inquiryHandler.SendMessage)
	inquiries.POST("/:id/documents/upload-url", inquiryHandler.DocumentUploadURL)
	inquiries.POST("/:id/documents", inquiryHandler.SubmitDocument)
	inquiries.PUT("/:id/documents/decision", inquiryHandler.VerifyDocument)
	inquiries.POST("/:id/approve-payment", inquiryHandler.ApproveForPayment)
	inquiries.POST("/:id/payment", inquiryHandler.ProcessPayment)
	inquiries.PUT("/:id/status", inquiryHandler.UpdateStatus)

	// --- Bookings ---
	bookings := v1.Group("/bookings", auth)
	bookings.POST("/rent", bookingHandler.CreateRent)
	bookings.POST("/pg", bookingHandler.CreatePg)
	bookings.GET("/my", bookingHandler.ListMine)
	bookings.GET("/owned", bookingHandler.ListOwned)
	bookings.GET("/pending", bookingHandler.PendingApprovals)
	bookings.POST("/rent/:id/approve", bookingHandler.ApproveRent)
	bookings.POST("/pg/:id/approve", bookingHandler.ApprovePg)
	bookings.POST("/rent/:id/reject", bookingHandler.RejectRent)
	bookings.POST("/rent/:id/terminate", bookingHandler.TerminateRent)
	bookings.POST("/:id/cancel", bookingHandler.Cancel)

	// --- Payments ---
	payments := v1.Group("/payments", auth)
	payments.GET("/my", bookingHandler.MyPayments)
	payments.POST("/:id/pay", bookingHandler.PayMonthlyRent)

	// --- Wallet ---
	wallet := v1.Group("/wallet", auth)
	wallet.GET("", walletHandler.Get)
	wallet.POST("/add", walletHandler.AddMoney)
	wallet.GET("/transactions", walletHandler.Transactions)

	// --- Notifications ---
	notifications := v1.Group("/notifications", auth)
	notifications.GET("", notificationHandler.List)
	notifications.GET("/bookings", notificationHandler.ListBooking)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)
	notifications.PUT("/bookings/:id/read", notificationHandler.MarkBookingRead)

	return e
}
