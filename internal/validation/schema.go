// Package validation turns raw invoice form submissions into typed input.
//
// Create and edit are declared as separate contracts so each has its own
// required-field set. Neither touches storage, and invalid input is reported
// as field-keyed messages rather than as a Go error.
package validation

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Form keys as submitted by the invoice forms.
const (
	FormCustomerID = "customerId"
	FormAmount     = "amount"
	FormStatus     = "status"
)

// Field keys used in FieldErrors.
const (
	FieldID         = "id"
	FieldCustomerID = "customer_id"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

const (
	MsgCustomer = "Please select a customer."
	MsgAmount   = "Please enter an amount greater than $0."
	MsgStatus   = "Please select an invoice status."
	MsgID       = "Missing invoice id."
)

var messages = map[string]string{
	FieldID:         MsgID,
	FieldCustomerID: MsgCustomer,
	FieldAmount:     MsgAmount,
	FieldStatus:     MsgStatus,
}

// FormData is a submitted form: field name to raw value.
type FormData map[string]string

// FieldErrors maps a field key to the messages reported for it.
type FieldErrors map[string][]string

// InvoiceInput is a validated, coerced invoice submission.
type InvoiceInput struct {
	ID          string
	CustomerID  string
	AmountCents int64
	Status      string
}

type Result struct {
	Data   *InvoiceInput
	Errors FieldErrors
}

func (r Result) OK() bool {
	return r.Data != nil && len(r.Errors) == 0
}

type createContract struct {
	CustomerID  string `field:"customer_id" validate:"required"`
	AmountCents int64  `field:"amount" validate:"gt=0"`
	Status      string `field:"status" validate:"required,oneof=pending paid"`
}

type editContract struct {
	ID          string `field:"id" validate:"required"`
	CustomerID  string `field:"customer_id" validate:"required"`
	AmountCents int64  `field:"amount" validate:"gt=0"`
	Status      string `field:"status" validate:"required,oneof=pending paid"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("field")
	})
	return v
}

// ValidateCreate checks a create submission: customer, amount and status.
func ValidateCreate(form FormData) Result {
	c := createContract{
		CustomerID:  form[FormCustomerID],
		AmountCents: ToCents(form[FormAmount]),
		Status:      form[FormStatus],
	}
	if errs := check(c); errs != nil {
		return Result{Errors: errs}
	}
	return Result{Data: &InvoiceInput{
		CustomerID:  c.CustomerID,
		AmountCents: c.AmountCents,
		Status:      c.Status,
	}}
}

// ValidateEdit checks an edit submission. The id comes from the route, the
// other fields from the form.
func ValidateEdit(id string, form FormData) Result {
	c := editContract{
		ID:          id,
		CustomerID:  form[FormCustomerID],
		AmountCents: ToCents(form[FormAmount]),
		Status:      form[FormStatus],
	}
	if errs := check(c); errs != nil {
		return Result{Errors: errs}
	}
	return Result{Data: &InvoiceInput{
		ID:          c.ID,
		CustomerID:  c.CustomerID,
		AmountCents: c.AmountCents,
		Status:      c.Status,
	}}
}

func check(contract any) FieldErrors {
	err := validate.Struct(contract)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable if a contract is not a struct.
		panic(err)
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		key := fe.Field()
		if len(out[key]) == 0 {
			out[key] = append(out[key], messages[key])
		}
	}
	return out
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// maxExponent bounds the decimal exponent accepted from a form. Rescaling
// 1e999999999 to cents would allocate a billion-digit integer.
const maxExponent = 20

// ToCents converts a decimal amount in major units to integer cents, rounding
// half away from zero. Input that is not a finite number, carries an exponent
// beyond ±20, or does not fit in an int64, yields 0.
func ToCents(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return 0
	}
	cents := d.Shift(2).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return 0
	}
	return cents.IntPart()
}

// FromCents renders cents as a major-unit decimal string, e.g. 1550 -> "15.50".
func FromCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
