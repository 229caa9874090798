package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bikemetro/bikemetro/internal/handler"
	"github.com/bikemetro/bikemetro/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health probe and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; profile endpoints
// live under /v1 behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateProfile)
}

// API bundles the handlers and middleware wired into the protected
// /v1 surface.
type API struct {
	Stations     *handler.StationHandler
	Reservations *handler.ReservationHandler
	Payments     *handler.PaymentHandler
	JWTSecret    string
	Cache        echo.MiddlewareFunc // response cache for catalog GETs
	RateLimit    echo.MiddlewareFunc // token bucket on the whole API
}

// RegisterAPI registers the station catalog, reservation lifecycle and
// payment routes.  Everything requires a valid access token; the admin
// subgroup additionally requires the ADMIN role.
func RegisterAPI(e *echo.Echo, api API) {
	v1 := e.Group("/v1",
		middleware.JWTAuth(api.JWTSecret),
		middleware.RequireRole("USUARIO", "ADMIN"),
	)
	if api.RateLimit != nil {
		v1.Use(api.RateLimit)
	}

	// Station catalog. The GETs go through the response cache; the
	// short TTL keeps availability honest.
	catalog := v1.Group("/estaciones")
	if api.Cache != nil {
		catalog.Use(api.Cache)
	}
	catalog.GET("", api.Stations.List)
	catalog.GET("/disponibles", api.Stations.Available)
	catalog.GET("/cercanas", api.Stations.Nearby)
	catalog.GET("/:id", api.Stations.Get)
	catalog.GET("/:id/espacios", api.Stations.ListSlots)

	// Reservation lifecycle.
	v1.POST("/reservas", api.Reservations.Create)
	v1.GET("/reservas", api.Reservations.List)
	v1.GET("/reservas/activas", api.Reservations.Active)
	v1.GET("/reservas/historial", api.Reservations.History)
	v1.GET("/reservas/:id", api.Reservations.Get)
	v1.POST("/reservas/:id/confirmar", api.Reservations.Confirm)
	v1.POST("/reservas/:id/finalizar", api.Reservations.Finalize)
	v1.POST("/reservas/:id/cancelar", api.Reservations.Cancel)

	// Payments (read-only).
	v1.GET("/pagos", api.Payments.List)
	v1.GET("/reservas/:id/pago", api.Payments.GetByReservation)

	// Admin operations.
	admin := v1.Group("/admin", middleware.RequireRole("ADMIN"))
	admin.POST("/estaciones", api.Stations.Create)
	admin.PATCH("/estaciones/:id/estado", api.Stations.SetState)
	admin.PATCH("/espacios/:id/mantenimiento", api.Stations.SetMaintenance)
}
