// Package pages builds the read-only projections behind the invoice
// dashboard pages. Nothing here writes to storage.
package pages

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"invoice-dashboard-backend/internal/actions"
	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/validation"

	"golang.org/x/sync/errgroup"
)

var ErrNotFound = errors.New("page not found")

type InvoiceReader interface {
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	SearchInvoices(ctx context.Context, query string, statuses []string) ([]repository.InvoiceRow, error)
}

type CustomerLister interface {
	List(ctx context.Context) ([]models.Customer, error)
}

type Breadcrumb struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active,omitempty"`
}

type ListingRow struct {
	ID       string    `json:"id"`
	Customer string    `json:"customer"`
	Email    string    `json:"email"`
	ImageURL string    `json:"image_url"`
	Amount   string    `json:"amount"`
	Status   string    `json:"status"`
	Date     time.Time `json:"date"`
}

type ListingPage struct {
	Query    string       `json:"query,omitempty"`
	Invoices []ListingRow `json:"invoices"`
}

// InvoiceForm is an invoice as the edit form shows it, amount in major units.
type InvoiceForm struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
}

type FormPage struct {
	Breadcrumbs []Breadcrumb      `json:"breadcrumbs"`
	Customers   []models.Customer `json:"customers"`
	Invoice     *InvoiceForm      `json:"invoice,omitempty"`
}

type Renderer struct {
	invoices  InvoiceReader
	customers CustomerLister
	cache     *cache.RenderCache
}

func NewRenderer(invoices InvoiceReader, customers CustomerLister, c *cache.RenderCache) *Renderer {
	return &Renderer{invoices: invoices, customers: customers, cache: c}
}

// Listing returns the invoices page. The unfiltered page is served from the
// render cache until a mutation revalidates it; filtered pages are rendered
// on every request so arbitrary queries cannot grow the cache.
func (r *Renderer) Listing(ctx context.Context, query string) (*ListingPage, error) {
	if query != "" {
		return r.renderListing(ctx, query)
	}

	// The render may be shared with concurrent requests, so one caller
	// going away must not fail it for the others.
	renderCtx := context.WithoutCancel(ctx)
	payload, err := r.cache.GetOrRender(actions.InvoicesPath, func() (any, error) {
		return r.renderListing(renderCtx, "")
	})
	if err != nil {
		return nil, err
	}
	return payload.(*ListingPage), nil
}

func (r *Renderer) renderListing(ctx context.Context, query string) (*ListingPage, error) {
	rows, err := r.invoices.SearchInvoices(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	page := &ListingPage{Query: query, Invoices: make([]ListingRow, 0, len(rows))}
	for _, row := range rows {
		page.Invoices = append(page.Invoices, ListingRow{
			ID:       row.ID,
			Customer: row.Name,
			Email:    row.Email,
			ImageURL: row.ImageURL,
			Amount:   validation.FromCents(row.Amount),
			Status:   row.Status,
			Date:     row.Date,
		})
	}
	return page, nil
}

// CreateForm returns what the create form needs: the customer choices.
func (r *Renderer) CreateForm(ctx context.Context) (*FormPage, error) {
	customers, err := r.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return &FormPage{
		Breadcrumbs: []Breadcrumb{
			{Label: "Invoices", Href: actions.InvoicesPath},
			{Label: "Create Invoice", Href: actions.InvoicesPath + "/create", Active: true},
		},
		Customers: customers,
	}, nil
}

// EditForm loads the customers and the invoice concurrently. A missing
// invoice yields ErrNotFound.
func (r *Renderer) EditForm(ctx context.Context, id string) (*FormPage, error) {
	var (
		customers []models.Customer
		invoice   *models.Invoice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = r.customers.List(gctx)
		if err != nil {
			return fmt.Errorf("list customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		invoice, err = r.invoices.GetByID(gctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get invoice %s: %w", id, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	editPath := actions.InvoicesPath + "/" + url.PathEscape(id) + "/edit"
	return &FormPage{
		Breadcrumbs: []Breadcrumb{
			{Label: "Invoices", Href: actions.InvoicesPath},
			{Label: "Edit Invoice", Href: editPath, Active: true},
		},
		Customers: customers,
		Invoice: &InvoiceForm{
			ID:         invoice.ID,
			CustomerID: invoice.CustomerID,
			Amount:     validation.FromCents(invoice.Amount),
			Status:     invoice.Status,
		},
	}, nil
}
