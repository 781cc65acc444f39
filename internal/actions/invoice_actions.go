package actions

import (
	"context"
	"fmt"
	"time"

	"invoice-dashboard-backend/internal/logger"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/validation"

	"github.com/rs/zerolog"
)

// InvoicesPath is the listing page revalidated after every mutation.
const InvoicesPath = "/dashboard/invoices"

const (
	MsgCreateRejected = "Missing Fields. Failed to Create Invoice."
	MsgEditRejected   = "Missing Fields. Failed to Edit Invoice."
	MsgCreateFailed   = "Error when creating invoices"
	MsgEditFailed     = "Error when updating invoices"
	MsgDeleteFailed   = "Error when deleting invoices"
)

// InvoiceStore issues the single write each mutation performs.
type InvoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice) error
	UpdateFields(ctx context.Context, id, customerID string, amount int64, status string) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// Revalidator marks a rendered path stale.
type Revalidator interface {
	Revalidate(path string)
}

// CreateFailureMode selects what CreateInvoice does when the insert fails.
type CreateFailureMode string

const (
	// CreateFallthrough logs the fault, then revalidates and redirects as
	// if the insert had committed. This is the historical behaviour.
	CreateFallthrough CreateFailureMode = "fallthrough"
	// CreateSurface returns a Failed outcome, matching edit and delete.
	CreateSurface CreateFailureMode = "surface"
)

func ParseCreateFailureMode(s string) (CreateFailureMode, error) {
	switch m := CreateFailureMode(s); m {
	case CreateFallthrough, CreateSurface:
		return m, nil
	default:
		return "", fmt.Errorf("unknown create failure mode %q (want %q or %q)", s, CreateFallthrough, CreateSurface)
	}
}

type Actions struct {
	store      InvoiceStore
	cache      Revalidator
	now        func() time.Time
	createMode CreateFailureMode
	log        zerolog.Logger
}

type Option func(*Actions)

// WithClock overrides the clock used to stamp new invoices.
func WithClock(now func() time.Time) Option {
	return func(a *Actions) { a.now = now }
}

func WithCreateFailureMode(mode CreateFailureMode) Option {
	return func(a *Actions) { a.createMode = mode }
}

func New(store InvoiceStore, cache Revalidator, opts ...Option) *Actions {
	a := &Actions{
		store:      store,
		cache:      cache,
		now:        time.Now,
		createMode: CreateFallthrough,
		log:        logger.WithComponent("invoice-actions"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateInvoice validates the form and inserts a new invoice dated now.
// prev is the previous form state and is not consulted.
func (a *Actions) CreateInvoice(ctx context.Context, prev State, form validation.FormData) Outcome {
	res := validation.ValidateCreate(form)
	if !res.OK() {
		a.log.Debug().Interface("errors", res.Errors).Msg("create rejected")
		return rejected(res.Errors, MsgCreateRejected)
	}

	inv := &models.Invoice{
		CustomerID: res.Data.CustomerID,
		Amount:     res.Data.AmountCents,
		Status:     res.Data.Status,
		Date:       a.now().UTC(),
	}

	if err := a.store.Create(ctx, inv); err != nil {
		a.log.Error().Err(err).
			Str("customer_id", inv.CustomerID).
			Str("mode", string(a.createMode)).
			Msg("failed to create invoice")
		if a.createMode == CreateSurface {
			return failed(MsgCreateFailed)
		}
	} else {
		a.log.Info().Str("invoice_id", inv.ID).Int64("amount", inv.Amount).Msg("invoice created")
	}

	a.cache.Revalidate(InvoicesPath)
	return redirect(InvoicesPath)
}

// EditInvoice validates the form and updates customer, amount and status of
// invoice id. The invoice date is never changed.
func (a *Actions) EditInvoice(ctx context.Context, id string, prev State, form validation.FormData) Outcome {
	res := validation.ValidateEdit(id, form)
	if !res.OK() {
		a.log.Debug().Str("invoice_id", id).Interface("errors", res.Errors).Msg("edit rejected")
		return rejected(res.Errors, MsgEditRejected)
	}

	in := res.Data
	n, err := a.store.UpdateFields(ctx, in.ID, in.CustomerID, in.AmountCents, in.Status)
	if err != nil {
		a.log.Error().Err(err).Str("invoice_id", in.ID).Msg("failed to update invoice")
		return failed(MsgEditFailed)
	}
	a.log.Info().Str("invoice_id", in.ID).Int64("rows", n).Msg("invoice updated")

	a.cache.Revalidate(InvoicesPath)
	return redirect(InvoicesPath)
}

// DeleteInvoice removes invoice id. Deleting a missing id is not an error.
func (a *Actions) DeleteInvoice(ctx context.Context, id string) Outcome {
	n, err := a.store.Delete(ctx, id)
	if err != nil {
		a.log.Error().Err(err).Str("invoice_id", id).Msg("failed to delete invoice")
		return failed(MsgDeleteFailed)
	}
	a.log.Info().Str("invoice_id", id).Int64("rows", n).Msg("invoice deleted")

	a.cache.Revalidate(InvoicesPath)
	return returned()
}
