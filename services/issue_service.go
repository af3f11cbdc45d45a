package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"marketplace/entity"
	"marketplace/pkg/events"
	"marketplace/pkg/logger"
	"marketplace/repository"
)

type IssueService struct {
	repo     *repository.IssueRepository
	userRepo *repository.UserRepository
	notifier *NotificationService
	events   events.Publisher
	now      func() time.Time
}

func NewIssueService(repo *repository.IssueRepository, userRepo *repository.UserRepository, notifier *NotificationService, pub events.Publisher) *IssueService {
	return &IssueService{repo: repo, userRepo: userRepo, notifier: notifier, events: pub, now: time.Now}
}

type CreateIssueInput struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Priority    string `form:"priority" json:"priority"`
	Category    string `form:"category" json:"category"`
}

// Create stores a new issue. Schema errors come back as *entity.ValidationError.
func (s *IssueService) Create(ctx context.Context, reporterID uint, in CreateIssueInput, file string) (*entity.Issue, error) {
	issue := &entity.Issue{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Category:    in.Category,
		Status:      entity.IssueStatusOpen,
		File:        file,
		ReporterID:  reporterID,
	}
	if err := s.repo.Create(issue); err != nil {
		return nil, err
	}
	s.publish(ctx, events.IssueCreated, issue)
	return issue, nil
}

func (s *IssueService) ListMine(reporterID uint) ([]entity.Issue, error) {
	return s.repo.FindAllByReporter(reporterID)
}

// Get returns an issue the caller may see: admins see every issue, others
// only their own.
func (s *IssueService) Get(userID uint, role string, id uint) (*entity.Issue, error) {
	var (
		issue *entity.Issue
		err   error
	)
	if role == entity.RoleAdmin {
		issue, err = s.repo.FindByID(id)
	} else {
		issue, err = s.repo.FindByIDAndReporter(id, userID)
	}
	return issue, notFound(err)
}

func (s *IssueService) List(f repository.IssueFilter) ([]entity.Issue, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.repo.FindAll(f)
}

type UpdateIssueInput struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	Category   *string `json:"category"`
	AssignedTo *uint   `json:"assignedTo"`
}

// Update applies an admin change. Moving to resolved stamps resolvedAt and the
// reporter is told about status changes.
func (s *IssueService) Update(ctx context.Context, id uint, in UpdateIssueInput) (*entity.Issue, error) {
	issue, err := s.repo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	prevStatus := issue.Status

	if in.Priority != nil {
		issue.Priority = *in.Priority
	}
	if in.Category != nil {
		issue.Category = *in.Category
	}
	if in.AssignedTo != nil {
		if *in.AssignedTo == 0 {
			issue.AssignedToID = nil
		} else {
			if _, err := s.userRepo.FindByID(*in.AssignedTo); err != nil {
				if errors.Is(notFound(err), ErrNotFound) {
					return nil, badInput("assignee not found")
				}
				return nil, err
			}
			issue.AssignedToID = in.AssignedTo
		}
	}
	if in.Status != nil {
		issue.SetStatus(*in.Status, s.now())
	}
	if err := issue.Validate(); err != nil {
		return nil, err
	}

	issue.Reporter = nil
	issue.AssignedTo = nil
	if err := s.repo.Save(issue); err != nil {
		return nil, err
	}
	s.publish(ctx, events.IssueUpdated, issue)

	if issue.Status != prevStatus && s.notifier != nil {
		_, err := s.notifier.Notify(ctx, issue.ReporterID,
			"Issue updated",
			fmt.Sprintf("Your issue %q is now %s", issue.Title, issue.Status),
			map[string]string{"issueId": strconv.FormatUint(uint64(issue.ID), 10), "status": issue.Status})
		if err != nil {
			logger.Default().Error(err, "cannot notify issue reporter")
		}
	}
	return s.repo.FindByID(issue.ID)
}

// AutoClose closes issues that have stayed resolved longer than age.
func (s *IssueService) AutoClose(age time.Duration) (int64, error) {
	return s.repo.CloseResolvedBefore(s.now().Add(-age))
}

func (s *IssueService) publish(ctx context.Context, eventType string, issue *entity.Issue) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, map[string]any{
		"issueId":  issue.ID,
		"status":   issue.Status,
		"priority": issue.Priority,
		"category": issue.Category,
	}); err != nil {
		logger.Default().Errorf(err, "cannot publish %s", eventType)
	}
}
