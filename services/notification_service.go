package services

import (
	"context"
	"encoding/json"

	"marketplace/entity"
	"marketplace/pkg/logger"
	"marketplace/repository"

	"gorm.io/datatypes"
)

// PushSender delivers a push notification to a device.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) (string, error)
}

// LivePusher delivers to users connected over websocket.
type LivePusher interface {
	PushToUser(userID uint, payload any)
}

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	push     PushSender
	live     LivePusher
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, push PushSender, live LivePusher) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, push: push, live: live}
}

// Notify appends a notification to the user's list and fans it out over
// websocket and FCM. Delivery failures are logged; only the store error is
// returned.
func (s *NotificationService) Notify(ctx context.Context, userID uint, title, body string, data map[string]string) (*entity.Notification, error) {
	n := &entity.Notification{UserID: userID, Title: title, Body: body}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		n.Data = datatypes.JSON(raw)
	}
	if err := s.repo.Append(n); err != nil {
		return nil, err
	}

	if s.live != nil {
		s.live.PushToUser(userID, n)
	}

	if s.push != nil {
		user, err := s.userRepo.FindByID(userID)
		if err != nil {
			logger.Default().Errorf(err, "notify: cannot load user %d", userID)
			return n, nil
		}
		if user.FCMToken != "" {
			if _, err := s.push.Send(ctx, user.FCMToken, title, body, data); err != nil {
				logger.Default().Errorf(err, "notify: fcm send to user %d failed", userID)
			}
		}
	}
	return n, nil
}

func (s *NotificationService) List(userID uint, unreadOnly bool) ([]entity.Notification, error) {
	return s.repo.ListForUser(userID, unreadOnly, 100)
}

func (s *NotificationService) MarkRead(userID, id uint) error {
	n, err := s.repo.MarkRead(userID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
