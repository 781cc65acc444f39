package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() FormData {
	return FormData{
		FormCustomerID: "c1",
		FormAmount:     "15.50",
		FormStatus:     "pending",
	}
}

func TestValidateCreate_Valid(t *testing.T) {
	res := ValidateCreate(validForm())

	require.True(t, res.OK())
	assert.Equal(t, &InvoiceInput{CustomerID: "c1", AmountCents: 1550, Status: "pending"}, res.Data)
}

func TestValidateCreate_IgnoresIDAndDate(t *testing.T) {
	form := validForm()
	form["id"] = "forged"
	form["date"] = "1999-01-01"

	res := ValidateCreate(form)
	require.True(t, res.OK())
	assert.Empty(t, res.Data.ID)
}

func TestValidateCreate_MissingEverything(t *testing.T) {
	res := ValidateCreate(FormData{})

	assert.False(t, res.OK())
	assert.Nil(t, res.Data)
	assert.Equal(t, FieldErrors{
		FieldCustomerID: {MsgCustomer},
		FieldAmount:     {MsgAmount},
		FieldStatus:     {MsgStatus},
	}, res.Errors)
}

func TestValidateCreate_AmountRules(t *testing.T) {
	cases := map[string]bool{
		"0":            false,
		"-3":           false,
		"abc":          false,
		"NaN":          false,
		"":             false,
		"0.001":        false,
		"1e999999999":  false,
		"1e-999999999": false,
		"0.01":         true,
		"1e2":          true,
		" 42 ":         true,
		"99.999":       true,
	}
	for amount, ok := range cases {
		form := validForm()
		form[FormAmount] = amount
		res := ValidateCreate(form)
		assert.Equal(t, ok, res.OK(), "amount %q", amount)
		if !ok {
			assert.Equal(t, []string{MsgAmount}, res.Errors[FieldAmount], "amount %q", amount)
			assert.NotContains(t, res.Errors, FieldCustomerID)
			assert.NotContains(t, res.Errors, FieldStatus)
		}
	}
}

func TestValidateCreate_StatusMustBeKnown(t *testing.T) {
	for _, status := range []string{"", "overdue", "PAID", " paid"} {
		form := validForm()
		form[FormStatus] = status
		res := ValidateCreate(form)
		assert.False(t, res.OK(), "status %q", status)
		assert.Equal(t, []string{MsgStatus}, res.Errors[FieldStatus])
	}

	form := validForm()
	form[FormStatus] = "paid"
	assert.True(t, ValidateCreate(form).OK())
}

func TestValidateEdit_Valid(t *testing.T) {
	form := FormData{FormCustomerID: "c2", FormAmount: "20", FormStatus: "paid"}

	res := ValidateEdit("inv1", form)
	require.True(t, res.OK())
	assert.Equal(t, &InvoiceInput{ID: "inv1", CustomerID: "c2", AmountCents: 2000, Status: "paid"}, res.Data)
}

func TestValidateEdit_ZeroAmount(t *testing.T) {
	form := FormData{FormCustomerID: "c2", FormAmount: "0", FormStatus: "paid"}

	res := ValidateEdit("inv1", form)
	assert.False(t, res.OK())
	assert.Equal(t, FieldErrors{FieldAmount: {MsgAmount}}, res.Errors)
}

func TestValidateEdit_RequiresID(t *testing.T) {
	res := ValidateEdit("", validForm())

	assert.False(t, res.OK())
	assert.Equal(t, FieldErrors{FieldID: {MsgID}}, res.Errors)
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(1550), ToCents("15.50"))
	assert.Equal(t, int64(1), ToCents("0.005"))
	assert.Equal(t, int64(-1), ToCents("-0.005"))
	assert.Equal(t, int64(2900), ToCents("29"))
	// 0.1 + 0.2 style drift must not leak into cents
	assert.Equal(t, int64(1929), ToCents("19.29"))
	assert.Equal(t, int64(0), ToCents("1e30"))
	assert.Equal(t, int64(0), ToCents("Infinity"))
	assert.Equal(t, int64(0), ToCents("1e999999999"))
	assert.Equal(t, int64(0), ToCents("5e-999999999"))
	assert.Equal(t, int64(100), ToCents("1e0"))
}

func TestToCents_HugeExponentReturnsPromptly(t *testing.T) {
	done := make(chan int64, 1)
	go func() { done <- ToCents("1e999999999") }()

	select {
	case cents := <-done:
		assert.Zero(t, cents)
	case <-time.After(2 * time.Second):
		t.Fatal("ToCents did not return for a huge exponent")
	}
}

func TestFromCents(t *testing.T) {
	assert.Equal(t, "15.50", FromCents(1550))
	assert.Equal(t, "0.07", FromCents(7))
	assert.Equal(t, "1200.00", FromCents(120000))
}
