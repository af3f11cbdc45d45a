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
	"marketplace/pkg/verifyme"
	"marketplace/repository"
	"marketplace/utils"

	"gorm.io/datatypes"
)

// IdentityVerifier looks an ID number up against a national registry.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, idType, idNumber string, person verifyme.Person) (*verifyme.Result, error)
}

type KYCService struct {
	repo     *repository.KYCRepository
	userRepo *repository.UserRepository
	verifier IdentityVerifier
	notifier *NotificationService
	events   events.Publisher
	now      func() time.Time
}

func NewKYCService(repo *repository.KYCRepository, userRepo *repository.UserRepository, verifier IdentityVerifier, notifier *NotificationService, pub events.Publisher) *KYCService {
	return &KYCService{repo: repo, userRepo: userRepo, verifier: verifier, notifier: notifier, events: pub, now: time.Now}
}

type KYCSubmission struct {
	IDType       string `form:"idType"`
	IDNumber     string `form:"idNumber"`
	DOB          string `form:"dob"`
	IDProof      string `form:"-"`
	AddressProof string `form:"-"`
	Credentials  string `form:"-"`
}

// Submit records a document set for review. The user moves to pending until
// an admin decides; an identity lookup, when configured, only annotates the
// application.
func (s *KYCService) Submit(ctx context.Context, userID uint, in KYCSubmission) (*entity.KYCApplication, error) {
	if in.IDProof == "" {
		return nil, badInput("idProof is required")
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err)
	}
	if user.KYCStatus == entity.KYCStatusVerified {
		return nil, fmt.Errorf("%w: already verified", ErrConflict)
	}

	app := &entity.KYCApplication{
		UserID:        userID,
		IDType:        strings.TrimSpace(in.IDType),
		IDNumber:      strings.TrimSpace(in.IDNumber),
		IDProof:       in.IDProof,
		AddressProof:  in.AddressProof,
		Credentials:   in.Credentials,
		Status:        entity.KYCStatusPending,
		IdentityCheck: entity.IdentityCheckSkipped,
	}
	s.checkIdentity(ctx, user, app, in.DOB)

	if err := s.repo.CreateApplication(app); err != nil {
		if errors.Is(err, repository.ErrPendingApplication) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.KYCSubmitted, map[string]any{
			"applicationId": app.ID,
			"userId":        userID,
			"identityCheck": app.IdentityCheck,
		}); err != nil {
			logger.Default().Error(err, "cannot publish kyc.submitted")
		}
	}
	s.notify(ctx, userID, "Verification submitted", "Your documents were received and are under review.", app)
	return app, nil
}

func (s *KYCService) checkIdentity(ctx context.Context, user *entity.User, app *entity.KYCApplication, dob string) {
	if s.verifier == nil || app.IDType == "" || app.IDNumber == "" {
		return
	}
	res, err := s.verifier.VerifyIdentity(ctx, app.IDType, app.IDNumber, verifyme.Person{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		DOB:       dob,
	})
	if err != nil {
		logger.Default().Errorf(err, "identity lookup for user %d failed", user.ID)
		app.IdentityCheck = entity.IdentityCheckError
		return
	}
	if len(res.Raw) > 0 {
		app.IdentityResponse = datatypes.JSON(res.Raw)
	}
	if res.Verified() {
		app.IdentityCheck = entity.IdentityCheckPassed
	} else {
		app.IdentityCheck = entity.IdentityCheckFailed
	}
}

type KYCStatusView struct {
	Status      string                 `json:"status"`
	Info        utils.KYCStatusInfo    `json:"info"`
	IsVerified  bool                   `json:"isVerified"`
	NeedsKYC    bool                   `json:"needsKYC"`
	Application *entity.KYCApplication `json:"application,omitempty"`
}

func (s *KYCService) Status(userID uint) (*KYCStatusView, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err)
	}
	view := &KYCStatusView{
		Status:     user.KYCStatus,
		Info:       utils.GetKYCStatusInfo(user.KYCStatus),
		IsVerified: utils.IsKYCVerified(user),
		NeedsKYC:   utils.NeedsKYC(user),
	}
	app, err := s.repo.FindLatestByUser(userID)
	if err != nil && !errors.Is(notFound(err), ErrNotFound) {
		return nil, err
	}
	view.Application = app
	return view, nil
}

func (s *KYCService) List(status string) ([]entity.KYCApplication, error) {
	if status == "" {
		status = entity.KYCStatusPending
	}
	return s.repo.FindByStatus(status)
}

func (s *KYCService) Approve(ctx context.Context, appID, reviewerID uint) (*entity.KYCApplication, error) {
	return s.review(ctx, appID, reviewerID, entity.KYCStatusVerified, nil)
}

func (s *KYCService) Reject(ctx context.Context, appID, reviewerID uint, reason string) (*entity.KYCApplication, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, badInput("reason is required")
	}
	return s.review(ctx, appID, reviewerID, entity.KYCStatusRejected, &reason)
}

func (s *KYCService) review(ctx context.Context, appID, reviewerID uint, status string, reason *string) (*entity.KYCApplication, error) {
	app, err := s.repo.FindByID(appID)
	if err != nil {
		return nil, notFound(err)
	}
	if app.Status != entity.KYCStatusPending {
		return nil, ErrNotPending
	}
	ok, err := s.repo.Review(app, status, reviewerID, reason, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotPending
	}
	if app.User != nil {
		app.User.KYCStatus = status
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.KYCReviewed, map[string]any{
			"applicationId": app.ID,
			"userId":        app.UserID,
			"status":        status,
		}); err != nil {
			logger.Default().Error(err, "cannot publish kyc.reviewed")
		}
	}

	info := utils.GetKYCStatusInfo(status)
	body := info.Description
	if reason != nil {
		body = body + " Reason: " + *reason
	}
	s.notify(ctx, app.UserID, "Verification "+strings.ToLower(info.Text), body, app)
	return app, nil
}

func (s *KYCService) notify(ctx context.Context, userID uint, title, body string, app *entity.KYCApplication) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, userID, title, body, map[string]string{
		"applicationId": strconv.FormatUint(uint64(app.ID), 10),
		"status":        app.Status,
	}); err != nil {
		logger.Default().Error(err, "cannot store kyc notification")
	}
}
