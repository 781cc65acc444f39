package pages

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoices struct {
	byID     map[string]*models.Invoice
	rows     []repository.InvoiceRow
	searches int
	queries  []string
	err      error
}

func (f *fakeInvoices) GetByID(_ context.Context, id string) (*models.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	inv, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInvoices) SearchInvoices(_ context.Context, query string, _ []string) ([]repository.InvoiceRow, error) {
	f.searches++
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeCustomers struct {
	customers []models.Customer
	err       error
}

func (f *fakeCustomers) List(context.Context) ([]models.Customer, error) {
	return f.customers, f.err
}

func newTestRenderer() (*Renderer, *fakeInvoices, *fakeCustomers, *cache.RenderCache) {
	inv := &fakeInvoices{
		byID: map[string]*models.Invoice{
			"inv1": {ID: "inv1", CustomerID: "c1", Amount: 1550, Status: models.StatusPending, Date: time.Now()},
		},
		rows: []repository.InvoiceRow{
			{ID: "inv1", CustomerID: "c1", Name: "Evil Rabbit", Amount: 1550, Status: models.StatusPending},
		},
	}
	cust := &fakeCustomers{customers: []models.Customer{{ID: "c1", Name: "Evil Rabbit"}}}
	c := cache.NewRenderCache()
	return NewRenderer(inv, cust, c), inv, cust, c
}

func TestListing_FormatsAndCaches(t *testing.T) {
	r, inv, _, c := newTestRenderer()
	ctx := context.Background()

	page, err := r.Listing(ctx, "")
	require.NoError(t, err)
	require.Len(t, page.Invoices, 1)
	assert.Equal(t, "15.50", page.Invoices[0].Amount)
	assert.Equal(t, "Evil Rabbit", page.Invoices[0].Customer)

	_, err = r.Listing(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, inv.searches)

	c.Revalidate("/dashboard/invoices")
	_, err = r.Listing(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, inv.searches)
}

func TestListing_FilteredQueriesBypassCache(t *testing.T) {
	r, inv, _, c := newTestRenderer()
	ctx := context.Background()

	_, err := r.Listing(ctx, "")
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		page, err := r.Listing(ctx, fmt.Sprintf("rabbit-%d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("rabbit-%d", i), page.Query)
	}
	_, err = r.Listing(ctx, "rabbit-0")
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 102, inv.searches)
}

func TestListing_Error(t *testing.T) {
	r, inv, _, c := newTestRenderer()
	inv.err = errors.New("db down")

	_, err := r.Listing(context.Background(), "")
	assert.ErrorContains(t, err, "db down")
	assert.Zero(t, c.Len())
}

func TestCreateForm(t *testing.T) {
	r, _, _, _ := newTestRenderer()

	page, err := r.CreateForm(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Customers, 1)
	assert.Nil(t, page.Invoice)
	require.Len(t, page.Breadcrumbs, 2)
	assert.True(t, page.Breadcrumbs[1].Active)
}

func TestEditForm(t *testing.T) {
	r, _, _, _ := newTestRenderer()

	page, err := r.EditForm(context.Background(), "inv1")
	require.NoError(t, err)
	require.NotNil(t, page.Invoice)
	assert.Equal(t, &InvoiceForm{ID: "inv1", CustomerID: "c1", Amount: "15.50", Status: "pending"}, page.Invoice)
	assert.Len(t, page.Customers, 1)
	assert.Equal(t, []Breadcrumb{
		{Label: "Invoices", Href: "/dashboard/invoices"},
		{Label: "Edit Invoice", Href: "/dashboard/invoices/inv1/edit", Active: true},
	}, page.Breadcrumbs)
}

func TestEditForm_NotFound(t *testing.T) {
	r, _, _, _ := newTestRenderer()

	_, err := r.EditForm(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditForm_CustomerFailure(t *testing.T) {
	r, _, cust, _ := newTestRenderer()
	cust.err = errors.New("db down")

	_, err := r.EditForm(context.Background(), "inv1")
	assert.ErrorContains(t, err, "list customers")
	assert.NotErrorIs(t, err, ErrNotFound)
}
