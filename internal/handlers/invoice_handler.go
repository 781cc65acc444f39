package handler

import (
	"errors"
	"net/http"

	"invoice-dashboard-backend/internal/actions"
	"invoice-dashboard-backend/internal/logger"
	"invoice-dashboard-backend/internal/pages"
	"invoice-dashboard-backend/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type InvoiceHandler struct {
	actions *actions.Actions
	pages   *pages.Renderer
	log     zerolog.Logger
}

func NewInvoiceHandler(a *actions.Actions, p *pages.Renderer) *InvoiceHandler {
	return &InvoiceHandler{
		actions: a,
		pages:   p,
		log:     logger.WithComponent("invoice-handler"),
	}
}

// ListInvoices serves the (cached) invoices listing, ?query= filters by customer.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	page, err := h.pages.Listing(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.log.Error().Err(err).Msg("render invoices listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoices"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *InvoiceHandler) CreateForm(c *gin.Context) {
	page, err := h.pages.CreateForm(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("render create form")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load customers"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *InvoiceHandler) EditForm(c *gin.Context) {
	page, err := h.pages.EditForm(c.Request.Context(), c.Param("id"))
	if errors.Is(err, pages.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("invoice_id", c.Param("id")).Msg("render edit form")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoice"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	out := h.actions.CreateInvoice(c.Request.Context(), actions.State{}, formData(c))
	writeOutcome(c, out)
}

func (h *InvoiceHandler) EditInvoice(c *gin.Context) {
	out := h.actions.EditInvoice(c.Request.Context(), c.Param("id"), actions.State{}, formData(c))
	writeOutcome(c, out)
}

func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	out := h.actions.DeleteInvoice(c.Request.Context(), c.Param("id"))
	writeOutcome(c, out)
}

// formData collects the invoice fields from a urlencoded or multipart body.
// Only the first value of each key is used; absent keys stay absent.
func formData(c *gin.Context) validation.FormData {
	form := validation.FormData{}
	for _, key := range []string{validation.FormCustomerID, validation.FormAmount, validation.FormStatus} {
		if v, ok := c.GetPostForm(key); ok {
			form[key] = v
		}
	}
	return form
}

func writeOutcome(c *gin.Context, out actions.Outcome) {
	switch out.Kind {
	case actions.Redirect:
		c.Redirect(http.StatusSeeOther, out.Location)
	case actions.Rejected:
		c.JSON(http.StatusUnprocessableEntity, out.State)
	case actions.Failed:
		c.JSON(http.StatusInternalServerError, out.State)
	case actions.Returned:
		c.JSON(http.StatusOK, out.State)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown outcome " + out.Kind.String()})
	}
}
