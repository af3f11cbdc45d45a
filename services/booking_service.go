package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"marketplace/entity"
	"marketplace/pkg/events"
	"marketplace/pkg/logger"
	"marketplace/pkg/maps"
	"marketplace/repository"
)

// DistanceCalculator returns the travel distance between two places.
type DistanceCalculator interface {
	Distance(ctx context.Context, origin, destination string) (*maps.Distance, error)
}

type BookingService struct {
	repo        *repository.BookingRepository
	userRepo    *repository.UserRepository
	serviceRepo *repository.ServiceRepository
	distance    DistanceCalculator
	notifier    *NotificationService
	events      events.Publisher
	now         func() time.Time
}

func NewBookingService(
	repo *repository.BookingRepository,
	userRepo *repository.UserRepository,
	serviceRepo *repository.ServiceRepository,
	distance DistanceCalculator,
	notifier *NotificationService,
	pub events.Publisher,
) *BookingService {
	return &BookingService{
		repo:        repo,
		userRepo:    userRepo,
		serviceRepo: serviceRepo,
		distance:    distance,
		notifier:    notifier,
		events:      pub,
		now:         time.Now,
	}
}

type CreateBookingInput struct {
	ArtisanID   uint      `json:"artisanId" binding:"required"`
	ServiceID   uint      `json:"serviceId" binding:"required"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Address     string    `json:"address" binding:"required"`
	Notes       string    `json:"notes"`
	Amount      int64     `json:"amount" binding:"required"`
}

func (s *BookingService) Create(ctx context.Context, customerID uint, in CreateBookingInput) (*entity.Booking, error) {
	if in.Amount <= 0 {
		return nil, badInput("amount must be greater than zero")
	}
	if !in.ScheduledAt.After(s.now()) {
		return nil, badInput("scheduledAt must be in the future")
	}
	if customerID == in.ArtisanID {
		return nil, badInput("cannot book yourself")
	}
	artisan, err := s.userRepo.FindByID(in.ArtisanID)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, badInput("artisan not found")
		}
		return nil, err
	}
	if artisan.Role != entity.RoleArtisan {
		return nil, badInput("user is not an artisan")
	}
	if _, err := s.serviceRepo.FindByID(in.ServiceID); err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, badInput("service not found")
		}
		return nil, err
	}
	if artisan.ServiceID == nil || *artisan.ServiceID != in.ServiceID {
		return nil, badInput("artisan does not offer this service")
	}

	b := &entity.Booking{
		CustomerID:  customerID,
		ArtisanID:   artisan.ID,
		ServiceID:   in.ServiceID,
		ScheduledAt: in.ScheduledAt,
		Address:     strings.TrimSpace(in.Address),
		Notes:       strings.TrimSpace(in.Notes),
		Amount:      in.Amount,
		Status:      entity.BookingStatusPending,
	}
	s.fillDistance(ctx, artisan, b)

	if err := s.repo.Create(b); err != nil {
		return nil, err
	}
	s.publish(ctx, events.BookingCreated, b)
	s.notify(ctx, artisan.ID, "New booking request", fmt.Sprintf("You have a new booking for %s", b.ScheduledAt.Format(time.RFC1123)), b)
	return s.repo.FindByID(b.ID)
}

// fillDistance annotates the booking with the trip from the artisan to the
// job address. A lookup failure leaves the booking without it.
func (s *BookingService) fillDistance(ctx context.Context, artisan *entity.User, b *entity.Booking) {
	if s.distance == nil || !artisan.HasLocation() || b.Address == "" {
		return
	}
	d, err := s.distance.Distance(ctx, maps.LatLng(*artisan.Latitude, *artisan.Longitude), b.Address)
	if err != nil {
		logger.Default().Warnf("distance lookup for booking failed: %v", err)
		return
	}
	b.DistanceMeters = d.Meters
	b.DistanceText = d.Text
	b.DurationText = d.DurationText
}

func (s *BookingService) ListMine(userID uint, status string) ([]entity.Booking, error) {
	return s.repo.ListForUser(userID, status)
}

// Get returns a booking visible to the caller: its customer, its artisan or
// an admin.
func (s *BookingService) Get(userID uint, role string, id uint) (*entity.Booking, error) {
	b, err := s.repo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	if role != entity.RoleAdmin && b.CustomerID != userID && b.ArtisanID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

const (
	ActionAccept   = "accept"
	ActionReject   = "reject"
	ActionStart    = "start"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

type transition struct {
	from  []string
	to    string
	actor string
}

var bookingTransitions = map[string]transition{
	ActionAccept:   {from: []string{entity.BookingStatusPending}, to: entity.BookingStatusAccepted, actor: entity.RoleArtisan},
	ActionReject:   {from: []string{entity.BookingStatusPending}, to: entity.BookingStatusRejected, actor: entity.RoleArtisan},
	ActionStart:    {from: []string{entity.BookingStatusAccepted}, to: entity.BookingStatusInProgress, actor: entity.RoleArtisan},
	ActionComplete: {from: []string{entity.BookingStatusInProgress}, to: entity.BookingStatusCompleted, actor: entity.RoleArtisan},
	ActionCancel:   {from: []string{entity.BookingStatusPending, entity.BookingStatusAccepted}, to: entity.BookingStatusCancelled, actor: entity.RoleCustomer},
}

// Transition applies action to the booking. Artisan actions belong to the
// booked artisan, cancel to the customer; admins may do either.
func (s *BookingService) Transition(ctx context.Context, userID uint, role string, bookingID uint, action string) (*entity.Booking, error) {
	t, ok := bookingTransitions[action]
	if !ok {
		return nil, badInput("unknown action " + action)
	}
	b, err := s.repo.FindByID(bookingID)
	if err != nil {
		return nil, notFound(err)
	}

	if role != entity.RoleAdmin {
		owner := b.ArtisanID
		if t.actor == entity.RoleCustomer {
			owner = b.CustomerID
		}
		if owner != userID {
			return nil, ErrForbidden
		}
	}

	allowed := false
	for _, from := range t.from {
		if b.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidTransition
	}

	affected, err := s.repo.UpdateStatusGuard(nil, b.ID, b.Status, t.to)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}
	b.Status = t.to

	s.publish(ctx, events.BookingStatusChanged, b)
	recipient := b.CustomerID
	if userID == b.CustomerID {
		recipient = b.ArtisanID
	}
	s.notify(ctx, recipient, "Booking "+t.to, fmt.Sprintf("Booking #%d is now %s", b.ID, t.to), b)
	return b, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *entity.Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, map[string]any{
		"bookingId":  b.ID,
		"customerId": b.CustomerID,
		"artisanId":  b.ArtisanID,
		"status":     b.Status,
	}); err != nil {
		logger.Default().Errorf(err, "cannot publish %s", eventType)
	}
}

func (s *BookingService) notify(ctx context.Context, userID uint, title, body string, b *entity.Booking) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, userID, title, body, map[string]string{
		"bookingId": strconv.FormatUint(uint64(b.ID), 10),
		"status":    b.Status,
	}); err != nil {
		logger.Default().Error(err, "cannot store booking notification")
	}
}
