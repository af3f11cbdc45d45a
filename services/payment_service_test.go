package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"marketplace/entity"
	"marketplace/pkg/events"
	"marketplace/pkg/flutterwave"
	"marketplace/pkg/paystack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaystack struct {
	initEmail  string
	initAmount int64
	initOpts   paystack.InitializeOptions
	verify     paystack.VerifyData
}

func (f *fakePaystack) Initialize(_ context.Context, email string, amount int64, opts ...paystack.InitializeOptions) (*paystack.InitializeResponse, error) {
	f.initEmail, f.initAmount = email, amount
	if len(opts) > 0 {
		f.initOpts = opts[0]
	}
	return &paystack.InitializeResponse{
		Status: true,
		Data:   paystack.InitializeData{AuthorizationURL: "https://checkout.paystack.com/abc", AccessCode: "abc", Reference: f.initOpts.Reference},
	}, nil
}

func (f *fakePaystack) Verify(_ context.Context, reference string) (*paystack.VerifyResponse, error) {
	d := f.verify
	d.Reference = reference
	return &paystack.VerifyResponse{Status: true, Data: d, Raw: []byte(`{"status":true}`)}, nil
}

type fakeFlutterwave struct {
	charged flutterwave.CardCharge
	tx      flutterwave.Transaction
}

func (f *fakeFlutterwave) ChargeCard(_ context.Context, payload flutterwave.CardCharge) (*flutterwave.Response, error) {
	f.charged = payload
	return &flutterwave.Response{Status: "success", Message: "Charge authorization data required", Meta: json.RawMessage(`{"authorization":{"mode":"pin"}}`)}, nil
}

func (f *fakeFlutterwave) VerifyTransaction(_ context.Context, id string) (*flutterwave.Response, *flutterwave.Transaction, error) {
	tx := f.tx
	return &flutterwave.Response{Status: "success"}, &tx, nil
}

func paymentFixture(t *testing.T, ps PaystackGateway, flw FlutterwaveGateway) (*bookingFixture, *PaymentService, *entity.Booking) {
	f := newBookingFixture(t, nil)
	b, err := f.svc.Create(context.Background(), f.customer.ID, f.input())
	require.NoError(t, err)
	svc := NewPaymentService(f.env.payments, f.env.bookings, f.env.users, ps, flw, f.env.notifier, f.env.events, "http://localhost:3000/payments/callback")
	svc.now = fixedNow
	return f, svc, b
}

func TestPayment_NotConfigured(t *testing.T) {
	f, svc, b := paymentFixture(t, nil, nil)
	ctx := context.Background()

	_, err := svc.InitializePaystack(ctx, f.customer.ID, b.ID)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = svc.VerifyPaystack(ctx, f.customer.ID, "ref")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = svc.ChargeFlutterwave(ctx, f.customer.ID, FlutterwaveChargeInput{BookingID: b.ID})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = svc.VerifyFlutterwave(ctx, f.customer.ID, "1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPayment_PaystackFlow(t *testing.T) {
	ps := &fakePaystack{}
	f, svc, b := paymentFixture(t, ps, nil)
	ctx := context.Background()

	_, err := svc.InitializePaystack(ctx, f.artisan.ID, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	init, err := svc.InitializePaystack(ctx, f.customer.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, f.customer.Email, ps.initEmail)
	// naira; the client converts to kobo
	assert.Equal(t, int64(15000), ps.initAmount)
	assert.Equal(t, "NGN", ps.initOpts.Currency)
	assert.True(t, strings.HasPrefix(init.Payment.Reference, "bk-"))
	assert.Equal(t, "https://checkout.paystack.com/abc", init.AuthorizationURL)
	assert.Equal(t, entity.PaymentStatusPending, init.Payment.Status)

	ps.verify = paystack.VerifyData{Status: "success", Amount: 15000 * 100, Currency: "NGN"}
	_, err = svc.VerifyPaystack(ctx, f.artisan.ID, init.Payment.Reference)
	assert.ErrorIs(t, err, ErrNotFound)

	paid, err := svc.VerifyPaystack(ctx, f.customer.ID, init.Payment.Reference)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusSuccess, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Contains(t, f.env.events.Types(), events.PaymentVerified)

	_, err = svc.InitializePaystack(ctx, f.customer.ID, b.ID)
	assert.ErrorIs(t, err, ErrConflict)

	artisanNotes, err := f.env.notifications.ListForUser(f.artisan.ID, false, 10)
	require.NoError(t, err)
	assert.Equal(t, "Payment received", artisanNotes[0].Title)
}

func TestPayment_PaystackAmountMismatchFails(t *testing.T) {
	ps := &fakePaystack{}
	f, svc, b := paymentFixture(t, ps, nil)
	ctx := context.Background()

	init, err := svc.InitializePaystack(ctx, f.customer.ID, b.ID)
	require.NoError(t, err)

	ps.verify = paystack.VerifyData{Status: "success", Amount: 15000}
	p, err := svc.VerifyPaystack(ctx, f.customer.ID, init.Payment.Reference)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, p.Status)
	assert.NotContains(t, f.env.events.Types(), events.PaymentVerified)

	stored, err := f.env.payments.GetByReference(init.Payment.Reference)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, stored.Status)
}

func TestPayment_FlutterwaveFlow(t *testing.T) {
	flw := &fakeFlutterwave{}
	f, svc, b := paymentFixture(t, nil, flw)
	ctx := context.Background()

	charge, err := svc.ChargeFlutterwave(ctx, f.customer.ID, FlutterwaveChargeInput{
		BookingID: b.ID, CardNumber: "5531886652142950", CVV: "564",
		ExpiryMonth: "09", ExpiryYear: "32", PIN: "3310",
	})
	require.NoError(t, err)
	assert.Equal(t, "15000", flw.charged.Amount)
	assert.Equal(t, charge.Payment.Reference, flw.charged.TxRef)
	require.NotNil(t, flw.charged.Authorization)
	assert.Equal(t, "pin", flw.charged.Authorization.Mode)
	assert.JSONEq(t, `{"authorization":{"mode":"pin"}}`, string(charge.Meta))

	flw.tx = flutterwave.Transaction{ID: 77, TxRef: charge.Payment.Reference, Amount: 15000, Currency: "NGN", Status: "successful"}
	p, err := svc.VerifyFlutterwave(ctx, f.customer.ID, "77")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusSuccess, p.Status)

	flw.tx.TxRef = "unknown"
	_, err = svc.VerifyFlutterwave(ctx, f.customer.ID, "78")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPayment_FlutterwaveCurrencyMismatchFails(t *testing.T) {
	flw := &fakeFlutterwave{}
	f, svc, b := paymentFixture(t, nil, flw)
	ctx := context.Background()

	charge, err := svc.ChargeFlutterwave(ctx, f.customer.ID, FlutterwaveChargeInput{BookingID: b.ID, CardNumber: "1", CVV: "1", ExpiryMonth: "1", ExpiryYear: "1"})
	require.NoError(t, err)
	assert.Nil(t, flw.charged.Authorization)

	flw.tx = flutterwave.Transaction{TxRef: charge.Payment.Reference, Amount: 15000, Currency: "USD", Status: "successful"}
	p, err := svc.VerifyFlutterwave(ctx, f.customer.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, p.Status)
}

func TestPayment_CancelledBookingNotPayable(t *testing.T) {
	f, svc, b := paymentFixture(t, &fakePaystack{}, nil)
	ctx := context.Background()

	_, err := f.svc.Transition(ctx, f.customer.ID, entity.RoleCustomer, b.ID, ActionCancel)
	require.NoError(t, err)
	_, err = svc.InitializePaystack(ctx, f.customer.ID, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPayment_FlutterwaveWithoutEncryptionKey(t *testing.T) {
	f, svc, b := paymentFixture(t, nil, flutterwave.NewClient("sk", ""))

	_, err := svc.ChargeFlutterwave(context.Background(), f.customer.ID, FlutterwaveChargeInput{
		BookingID: b.ID, CardNumber: "5531886652142950", CVV: "564", ExpiryMonth: "09", ExpiryYear: "32",
	})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
