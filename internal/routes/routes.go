package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"invoice-dashboard-backend/internal/actions"
	"invoice-dashboard-backend/internal/cache"
	handler "invoice-dashboard-backend/internal/handlers"
	"invoice-dashboard-backend/internal/pages"
	"invoice-dashboard-backend/internal/repository"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, opts ...actions.Option) {
	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	renderCache := cache.NewRenderCache()

	invoiceActions := actions.New(invoiceRepo, renderCache, opts...)
	renderer := pages.NewRenderer(invoiceRepo, customerRepo, renderCache)
	invoiceHandler := handler.NewInvoiceHandler(invoiceActions, renderer)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	invoices := r.Group("/dashboard/invoices")
	{
		invoices.GET("", invoiceHandler.ListInvoices)
		invoices.GET("/create", invoiceHandler.CreateForm)
		invoices.POST("/create", invoiceHandler.CreateInvoice)
		invoices.GET("/:id/edit", invoiceHandler.EditForm)
		invoices.POST("/:id/edit", invoiceHandler.EditInvoice)
		invoices.POST("/:id/delete", invoiceHandler.DeleteInvoice)
		invoices.DELETE("/:id/delete", invoiceHandler.DeleteInvoice)
	}
}
