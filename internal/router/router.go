// Package router wires handlers, auth middleware and the role gates into
// the echo route tree.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/transit-ticket-market/internal/config"
	"github.com/iliyamo/transit-ticket-market/internal/handler"
	"github.com/iliyamo/transit-ticket-market/internal/middleware"
	"github.com/iliyamo/transit-ticket-market/internal/model"
)

// Handlers bundles everything Register needs.
type Handlers struct {
	Auth    *handler.AuthHandler
	Ticket  *handler.TicketHandler
	Booking *handler.BookingHandler
	Payment *handler.PaymentHandler
	Admin   *handler.AdminHandler
}

// Register sets up the full route tree:
//
//	/healthz, /metrics      unauthenticated operational endpoints
//	/v1/auth/login          unauthenticated login
//	/v1/tickets...          public catalog (cached)
//	/v1/...                 authenticated user endpoints
//	/v1/vendor/...          vendor-only endpoints
//	/v1/admin/...           admin-only endpoints
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client,
	rlCfg config.RateLimitConfig, cacheCfg config.CacheConfig) {

	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	limited := middleware.RateLimit(rlCfg, rdb)

	e.POST("/v1/auth/login", h.Auth.Login, limited)

	// Public catalog. Read-only and hot, so responses are cached briefly.
	pub := e.Group("/v1/tickets", middleware.ResponseCache(cacheCfg, rdb))
	pub.GET("", h.Ticket.List)
	pub.GET("/advertised", h.Ticket.Advertised)
	pub.GET("/latest", h.Ticket.Latest)
	pub.GET("/:id", h.Ticket.Get)

	// Any authenticated caller.
	authed := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	authed.GET("/me", h.Auth.Me)
	authed.PATCH("/me", h.Auth.UpdateMe)
	authed.POST("/bookings", h.Booking.Create, limited)
	authed.GET("/bookings", h.Booking.Mine)
	authed.GET("/bookings/:id", h.Booking.Get)
	authed.DELETE("/bookings/:id", h.Booking.Cancel)
	authed.POST("/bookings/:id/payment-intent", h.Payment.CreateIntent, limited)
	authed.POST("/bookings/:id/confirm-payment", h.Payment.Confirm, limited)
	authed.GET("/transactions", h.Payment.Transactions)

	// Vendor-only listing and booking management.
	vendor := e.Group("/v1/vendor", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleVendor))
	vendor.POST("/tickets", h.Ticket.Add, limited)
	vendor.GET("/tickets", h.Ticket.Mine)
	vendor.PATCH("/tickets/:id", h.Ticket.Update)
	vendor.DELETE("/tickets/:id", h.Ticket.Delete)
	vendor.GET("/bookings", h.Booking.VendorList)
	vendor.POST("/bookings/:id/accept", h.Booking.Accept)
	vendor.POST("/bookings/:id/reject", h.Booking.Reject)
	vendor.GET("/revenue", h.Payment.Revenue)

	// Admin moderation surface.
	admin := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	admin.GET("/tickets", h.Admin.Tickets)
	admin.POST("/tickets/:id/approve", h.Admin.ApproveTicket)
	admin.POST("/tickets/:id/reject", h.Admin.RejectTicket)
	admin.POST("/tickets/:id/advertise", h.Admin.ToggleAdvertise)
	admin.GET("/bookings", h.Admin.Bookings)
	admin.GET("/users", h.Admin.Users)
	admin.GET("/users/:id", h.Admin.User)
	admin.PATCH("/users/:id/role", h.Admin.UpdateRole)
	admin.POST("/users/:id/fraud", h.Admin.MarkFraud)
	admin.DELETE("/users/:id/fraud", h.Admin.ClearFraud)
}
