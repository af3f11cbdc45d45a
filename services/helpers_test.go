package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"marketplace/configs"
	"marketplace/entity"
	"marketplace/pkg/events"
	"marketplace/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive for the whole test
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, configs.SetupDatabase(db))
	return db
}

type fakePush struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakePush) Send(_ context.Context, token, title, _ string, _ map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, token+":"+title)
	return "msg-1", f.err
}

type fakeLive struct {
	mu    sync.Mutex
	users []uint
}

func (f *fakeLive) PushToUser(userID uint, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
}

type testEnv struct {
	db            *gorm.DB
	users         *repository.UserRepository
	services      *repository.ServiceRepository
	issues        *repository.IssueRepository
	kyc           *repository.KYCRepository
	bookings      *repository.BookingRepository
	payments      *repository.PaymentRepository
	notifications *repository.NotificationRepository
	push          *fakePush
	live          *fakeLive
	events        *events.Recorder
	notifier      *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	env := &testEnv{
		db:            db,
		users:         repository.NewUserRepository(db),
		services:      repository.NewServiceRepository(db),
		issues:        repository.NewIssueRepository(db),
		kyc:           repository.NewKYCRepository(db),
		bookings:      repository.NewBookingRepository(db),
		payments:      repository.NewPaymentRepository(db),
		notifications: repository.NewNotificationRepository(db),
		push:          &fakePush{},
		live:          &fakeLive{},
		events:        &events.Recorder{},
	}
	env.notifier = NewNotificationService(env.notifications, env.users, env.push, env.live)
	return env
}

var userSeq int

func (e *testEnv) user(t *testing.T, role string, mods ...func(*entity.User)) *entity.User {
	t.Helper()
	userSeq++
	u := &entity.User{
		Email:     fmt.Sprintf("user%d@example.com", userSeq),
		FirstName: "Ada",
		LastName:  fmt.Sprintf("Test%d", userSeq),
		Role:      role,
		KYCStatus: entity.KYCStatusNotSubmitted,
	}
	for _, m := range mods {
		m(u)
	}
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *testEnv) service(t *testing.T, name string) *entity.Service {
	t.Helper()
	s := &entity.Service{Name: name}
	require.NoError(t, e.services.Create(s))
	return s
}

func ptr[T any](v T) *T { return &v }

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}
