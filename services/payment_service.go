package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"marketplace/entity"
	"marketplace/pkg/events"
	"marketplace/pkg/flutterwave"
	"marketplace/pkg/logger"
	"marketplace/pkg/paystack"
	"marketplace/repository"

	"github.com/google/uuid"
)

const defaultCurrency = "NGN"

type PaystackGateway interface {
	Initialize(ctx context.Context, email string, amount int64, opts ...paystack.InitializeOptions) (*paystack.InitializeResponse, error)
	Verify(ctx context.Context, reference string) (*paystack.VerifyResponse, error)
}

type FlutterwaveGateway interface {
	ChargeCard(ctx context.Context, payload flutterwave.CardCharge) (*flutterwave.Response, error)
	VerifyTransaction(ctx context.Context, id string) (*flutterwave.Response, *flutterwave.Transaction, error)
}

type PaymentService struct {
	repo        *repository.PaymentRepository
	bookingRepo *repository.BookingRepository
	userRepo    *repository.UserRepository
	paystack    PaystackGateway
	flutterwave FlutterwaveGateway
	notifier    *NotificationService
	events      events.Publisher
	callbackURL string
	now         func() time.Time
}

func NewPaymentService(
	repo *repository.PaymentRepository,
	bookingRepo *repository.BookingRepository,
	userRepo *repository.UserRepository,
	ps PaystackGateway,
	flw FlutterwaveGateway,
	notifier *NotificationService,
	pub events.Publisher,
	callbackURL string,
) *PaymentService {
	return &PaymentService{
		repo:        repo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		paystack:    ps,
		flutterwave: flw,
		notifier:    notifier,
		events:      pub,
		callbackURL: callbackURL,
		now:         time.Now,
	}
}

// payableBooking loads a booking the customer may pay for.
func (s *PaymentService) payableBooking(customerID, bookingID uint) (*entity.Booking, error) {
	b, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		return nil, notFound(err)
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	switch b.Status {
	case entity.BookingStatusCancelled, entity.BookingStatusRejected:
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.Status)
	}
	if prev, err := s.repo.GetByBookingID(b.ID); err == nil && prev.Status == entity.PaymentStatusSuccess {
		return nil, fmt.Errorf("%w: booking already paid", ErrConflict)
	}
	return b, nil
}

func newReference(bookingID uint) string {
	return fmt.Sprintf("bk-%d-%s", bookingID, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

type PaystackInit struct {
	Payment          *entity.Payment `json:"payment"`
	AuthorizationURL string          `json:"authorizationUrl"`
	AccessCode       string          `json:"accessCode"`
}

func (s *PaymentService) InitializePaystack(ctx context.Context, customerID, bookingID uint) (*PaystackInit, error) {
	if s.paystack == nil {
		return nil, ErrNotConfigured
	}
	b, err := s.payableBooking(customerID, bookingID)
	if err != nil {
		return nil, err
	}
	customer, err := s.userRepo.FindByID(customerID)
	if err != nil {
		return nil, notFound(err)
	}

	p := &entity.Payment{
		BookingID: &b.ID,
		UserID:    customerID,
		Provider:  entity.ProviderPaystack,
		Reference: newReference(b.ID),
		Amount:    b.Amount,
		Currency:  defaultCurrency,
		Status:    entity.PaymentStatusPending,
	}
	res, err := s.paystack.Initialize(ctx, customer.Email, b.Amount, paystack.InitializeOptions{
		Reference:   p.Reference,
		CallbackURL: s.callbackURL,
		Currency:    defaultCurrency,
		Metadata:    map[string]any{"bookingId": b.ID},
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	return &PaystackInit{Payment: p, AuthorizationURL: res.Data.AuthorizationURL, AccessCode: res.Data.AccessCode}, nil
}

// VerifyPaystack confirms a transaction with Paystack. It only counts as paid
// when Paystack reports success for the full amount in kobo.
func (s *PaymentService) VerifyPaystack(ctx context.Context, userID uint, reference string) (*entity.Payment, error) {
	if s.paystack == nil {
		return nil, ErrNotConfigured
	}
	p, err := s.ownedPayment(userID, reference)
	if err != nil {
		return nil, err
	}
	if p.Status == entity.PaymentStatusSuccess {
		return p, nil
	}

	res, err := s.paystack.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	ok := res.Data.Status == "success" && res.Data.Amount == p.Amount*100
	return s.settle(ctx, p, ok, res.Raw)
}

type FlutterwaveChargeInput struct {
	BookingID   uint   `json:"bookingId" binding:"required"`
	CardNumber  string `json:"cardNumber" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
	ExpiryMonth string `json:"expiryMonth" binding:"required"`
	ExpiryYear  string `json:"expiryYear" binding:"required"`
	PIN         string `json:"pin"`
}

type FlutterwaveCharge struct {
	Payment *entity.Payment `json:"payment"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

func (s *PaymentService) ChargeFlutterwave(ctx context.Context, customerID uint, in FlutterwaveChargeInput) (*FlutterwaveCharge, error) {
	if s.flutterwave == nil {
		return nil, ErrNotConfigured
	}
	b, err := s.payableBooking(customerID, in.BookingID)
	if err != nil {
		return nil, err
	}
	customer, err := s.userRepo.FindByID(customerID)
	if err != nil {
		return nil, notFound(err)
	}

	p := &entity.Payment{
		BookingID: &b.ID,
		UserID:    customerID,
		Provider:  entity.ProviderFlutterwave,
		Reference: newReference(b.ID),
		Amount:    b.Amount,
		Currency:  defaultCurrency,
		Status:    entity.PaymentStatusPending,
	}
	charge := flutterwave.CardCharge{
		CardNumber:  in.CardNumber,
		CVV:         in.CVV,
		ExpiryMonth: in.ExpiryMonth,
		ExpiryYear:  in.ExpiryYear,
		Currency:    defaultCurrency,
		Amount:      strconv.FormatInt(b.Amount, 10),
		Email:       customer.Email,
		Fullname:    customer.FullName(),
		TxRef:       p.Reference,
		RedirectURL: s.callbackURL,
	}
	if in.PIN != "" {
		charge.Authorization = &flutterwave.Authorization{Mode: "pin", PIN: in.PIN}
	}

	res, err := s.flutterwave.ChargeCard(ctx, charge)
	if errors.Is(err, flutterwave.ErrNoEncryptionKey) {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	return &FlutterwaveCharge{Payment: p, Status: res.Status, Message: res.Message, Data: res.Data, Meta: res.Meta}, nil
}

// VerifyFlutterwave looks the transaction up by Flutterwave id and settles the
// payment its tx_ref points at.
func (s *PaymentService) VerifyFlutterwave(ctx context.Context, userID uint, transactionID string) (*entity.Payment, error) {
	if s.flutterwave == nil {
		return nil, ErrNotConfigured
	}
	res, tx, err := s.flutterwave.VerifyTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.TxRef == "" {
		return nil, ErrNotFound
	}
	p, err := s.ownedPayment(userID, tx.TxRef)
	if err != nil {
		return nil, err
	}
	if p.Status == entity.PaymentStatusSuccess {
		return p, nil
	}

	ok := tx.Status == "successful" &&
		tx.Amount >= float64(p.Amount) &&
		strings.EqualFold(tx.Currency, p.Currency)
	raw, _ := json.Marshal(res)
	return s.settle(ctx, p, ok, raw)
}

func (s *PaymentService) ownedPayment(userID uint, reference string) (*entity.Payment, error) {
	p, err := s.repo.GetByReference(reference)
	if err != nil {
		return nil, notFound(err)
	}
	if p.UserID != userID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *PaymentService) settle(ctx context.Context, p *entity.Payment, ok bool, raw []byte) (*entity.Payment, error) {
	status := entity.PaymentStatusFailed
	var paidAt *time.Time
	if ok {
		status = entity.PaymentStatusSuccess
		now := s.now()
		paidAt = &now
	}
	if err := s.repo.UpdateStatus(p.ID, status, paidAt, raw); err != nil {
		return nil, err
	}
	p.Status = status
	p.PaidAt = paidAt

	if !ok {
		return p, nil
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, events.PaymentVerified, map[string]any{
			"paymentId": p.ID,
			"bookingId": p.BookingID,
			"provider":  p.Provider,
			"amount":    p.Amount,
		}); err != nil {
			logger.Default().Error(err, "cannot publish payment.verified")
		}
	}
	if s.notifier != nil && p.BookingID != nil {
		if b, err := s.bookingRepo.FindByID(*p.BookingID); err == nil {
			data := map[string]string{"bookingId": strconv.FormatUint(uint64(b.ID), 10), "reference": p.Reference}
			for _, uid := range []uint{b.CustomerID, b.ArtisanID} {
				if _, err := s.notifier.Notify(ctx, uid, "Payment received",
					fmt.Sprintf("Payment of %s %d for booking #%d was confirmed", p.Currency, p.Amount, b.ID), data); err != nil {
					logger.Default().Error(err, "cannot store payment notification")
				}
			}
		} else if !errors.Is(notFound(err), ErrNotFound) {
			logger.Default().Error(err, "cannot load paid booking")
		}
	}
	return p, nil
}
