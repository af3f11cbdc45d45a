package services

import (
	"context"
	"errors"
	"testing"

	"marketplace/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotification_NotifyFansOut(t *testing.T) {
	env := newTestEnv(t)
	withToken := env.user(t, entity.RoleCustomer, func(u *entity.User) { u.FCMToken = "device-1" })
	noToken := env.user(t, entity.RoleCustomer)
	ctx := context.Background()

	n, err := env.notifier.Notify(ctx, withToken.ID, "Hello", "World", map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.JSONEq(t, `{"k":"v"}`, string(n.Data))

	_, err = env.notifier.Notify(ctx, noToken.ID, "Hi", "There", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"device-1:Hello"}, env.push.sent)
	assert.Equal(t, []uint{withToken.ID, noToken.ID}, env.live.users)
}

func TestNotification_PushFailureIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	env.push.err = errors.New("unregistered token")
	u := env.user(t, entity.RoleCustomer, func(u *entity.User) { u.FCMToken = "stale" })

	_, err := env.notifier.Notify(context.Background(), u.ID, "t", "b", nil)
	assert.NoError(t, err)

	list, err := env.notifier.List(u.ID, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotification_MarkRead(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, entity.RoleCustomer)
	other := env.user(t, entity.RoleCustomer)
	n, err := env.notifier.Notify(context.Background(), owner.ID, "t", "b", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, env.notifier.MarkRead(other.ID, n.ID), ErrNotFound)
	require.NoError(t, env.notifier.MarkRead(owner.ID, n.ID))

	unread, err := env.notifier.List(owner.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestAdmin_Dashboard(t *testing.T) {
	f := newBookingFixture(t, nil)
	env := f.env
	ctx := context.Background()
	_, err := f.svc.Create(ctx, f.customer.ID, f.input())
	require.NoError(t, err)

	issues := NewIssueService(env.issues, env.users, nil, nil)
	_, err = issues.Create(ctx, f.customer.ID, CreateIssueInput{Title: "t", Description: "d"}, "")
	require.NoError(t, err)

	kyc := NewKYCService(env.kyc, env.users, nil, nil, nil)
	_, err = kyc.Submit(ctx, f.artisan.ID, KYCSubmission{IDProof: "id.png"})
	require.NoError(t, err)

	admin := NewAdminService(env.users, env.issues, env.kyc, env.bookings, env.payments)
	admin.now = fixedNow
	d, err := admin.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.Customers)
	assert.Equal(t, int64(1), d.Artisans)
	assert.Equal(t, int64(1), d.OpenIssues)
	assert.Equal(t, int64(1), d.PendingKYC)
	assert.Equal(t, int64(0), d.Revenue)
}
