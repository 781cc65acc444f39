package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"invoice-dashboard-backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// InvoiceRow is an invoice joined with the customer it belongs to.
type InvoiceRow struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	ImageURL   string    `json:"image_url"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	Date       time.Time `json:"date"`
}

// Create inserts a single invoice. The ID is filled in by the model hook.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// UpdateFields sets customer_id, amount and status on the row matching id.
// Other columns, date included, are left alone.
func (r *InvoiceRepository) UpdateFields(ctx context.Context, id, customerID string, amount int64, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"customer_id": customerID,
			"amount":      amount,
			"status":      status,
		})
	return result.RowsAffected, result.Error
}

// Delete removes the row matching id. A missing row is not an error.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Invoice{})
	return result.RowsAffected, result.Error
}

// GetByID fetch a single invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// SearchInvoices lists invoices newest first, optionally filtered by a
// customer name/email substring and a set of statuses.
func (r *InvoiceRepository) SearchInvoices(ctx context.Context, query string, statuses []string) ([]InvoiceRow, error) {
	var rows []InvoiceRow

	dbQuery := r.db.WithContext(ctx).
		Table("invoices").
		Select("invoices.id, invoices.customer_id, customers.name, customers.email, customers.image_url, invoices.amount, invoices.status, invoices.date").
		Joins("JOIN customers ON customers.id = invoices.customer_id")

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		dbQuery = dbQuery.Where("LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ?", like, like)
	}
	if len(statuses) > 0 {
		dbQuery = dbQuery.Where("invoices.status IN ?", statuses)
	}

	err := dbQuery.Order("invoices.date DESC").Scan(&rows).Error
	return rows, err
}
