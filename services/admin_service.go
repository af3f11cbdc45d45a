package services

import (
	"time"

	"marketplace/entity"
	"marketplace/repository"
)

type AdminService struct {
	userRepo    *repository.UserRepository
	issueRepo   *repository.IssueRepository
	kycRepo     *repository.KYCRepository
	bookingRepo *repository.BookingRepository
	paymentRepo *repository.PaymentRepository
	now         func() time.Time
}

func NewAdminService(
	userRepo *repository.UserRepository,
	issueRepo *repository.IssueRepository,
	kycRepo *repository.KYCRepository,
	bookingRepo *repository.BookingRepository,
	paymentRepo *repository.PaymentRepository,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		issueRepo:   issueRepo,
		kycRepo:     kycRepo,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

type Dashboard struct {
	Customers         int64 `json:"customers"`
	Artisans          int64 `json:"artisans"`
	OpenIssues        int64 `json:"openIssues"`
	InProgressIssues  int64 `json:"inProgressIssues"`
	PendingKYC        int64 `json:"pendingKyc"`
	BookingsLast7Days int64 `json:"bookingsLast7Days"`
	Revenue           int64 `json:"revenue"`
}

func (s *AdminService) Dashboard() (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.Customers, err = s.userRepo.CountByRole(entity.RoleCustomer); err != nil {
		return nil, err
	}
	if d.Artisans, err = s.userRepo.CountByRole(entity.RoleArtisan); err != nil {
		return nil, err
	}
	if d.OpenIssues, err = s.issueRepo.CountByStatus(entity.IssueStatusOpen); err != nil {
		return nil, err
	}
	if d.InProgressIssues, err = s.issueRepo.CountByStatus(entity.IssueStatusInProgress); err != nil {
		return nil, err
	}
	if d.PendingKYC, err = s.kycRepo.CountByStatus(entity.KYCStatusPending); err != nil {
		return nil, err
	}
	if d.BookingsLast7Days, err = s.bookingRepo.CountSince(s.now().AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if d.Revenue, err = s.paymentRepo.SumSuccessful(); err != nil {
		return nil, err
	}
	return &d, nil
}
