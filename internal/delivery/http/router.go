package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/marktline/billing-service/internal/delivery/http/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every handler onto an echo instance. Scheduled runs use
// the same task endpoint the operators do, so there is exactly one trigger
// path into the automation.
func NewRouter(
	leadHandler *handlers.LeadHandler,
	commissionHandler *handlers.CommissionHandler,
	billingHandler *handlers.BillingHandler,
	payoutHandler *handlers.PayoutHandler) *echo.Echo {

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")

	v1.POST("/leads", leadHandler.CreateLead)
	v1.GET("/leads/:id", leadHandler.GetLead)
	v1.POST("/leads/:id/purchase", leadHandler.PurchaseLead)
	v1.POST("/leads/:id/contact", leadHandler.MarkContacted)
	v1.POST("/leads/:id/convert", leadHandler.MarkConverted)
	v1.POST("/leads/:id/not-interested", leadHandler.MarkNotInterested)
	v1.POST("/leads/:id/invalidate", leadHandler.InvalidateLead)
	v1.GET("/sellers/:id/leads", leadHandler.ListSellerLeads)

	v1.GET("/commissions/:id", commissionHandler.GetCommission)
	v1.POST("/commissions/:id/dispute", commissionHandler.MarkDisputed)
	v1.POST("/commissions/:id/cancel", commissionHandler.CancelCommission)
	v1.GET("/sellers/:id/commissions", commissionHandler.ListSellerCommissions)

	v1.POST("/billing/tasks/run", billingHandler.RunTask)
	v1.GET("/billing/overview", billingHandler.Overview)
	v1.GET("/billing/sellers/:id/snapshot", billingHandler.SellerSnapshot)

	v1.POST("/payouts/run", payoutHandler.RunPayouts)
	v1.GET("/sellers/:id/payouts", payoutHandler.ListSellerBatches)

	return e
}
