package services

import (
	"context"
	"errors"
	"testing"

	"marketplace/entity"
	"marketplace/pkg/events"
	"marketplace/pkg/verifyme"
	"marketplace/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	result *verifyme.Result
	err    error
	calls  int
	person verifyme.Person
}

func (f *fakeVerifier) VerifyIdentity(_ context.Context, _, _ string, p verifyme.Person) (*verifyme.Result, error) {
	f.calls++
	f.person = p
	return f.result, f.err
}

func TestKYC_SubmitAndApprove(t *testing.T) {
	env := newTestEnv(t)
	svc := NewKYCService(env.kyc, env.users, nil, env.notifier, env.events)
	svc.now = fixedNow
	artisan := env.user(t, entity.RoleArtisan)
	admin := env.user(t, entity.RoleAdmin)
	ctx := context.Background()

	app, err := svc.Submit(ctx, artisan.ID, KYCSubmission{IDProof: "uploads/kyc/id_proofs/a.png"})
	require.NoError(t, err)
	assert.Equal(t, entity.KYCStatusPending, app.Status)
	assert.Equal(t, entity.IdentityCheckSkipped, app.IdentityCheck)

	view, err := svc.Status(artisan.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.KYCStatusPending, view.Status)
	assert.Equal(t, "Under Review", view.Info.Text)
	assert.True(t, view.IsVerified)
	assert.False(t, view.NeedsKYC)
	require.NotNil(t, view.Application)
	assert.Equal(t, app.ID, view.Application.ID)

	_, err = svc.Submit(ctx, artisan.ID, KYCSubmission{IDProof: "again.png"})
	assert.ErrorIs(t, err, ErrConflict)

	pending, err := svc.List("")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved, err := svc.Approve(ctx, app.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.KYCStatusVerified, approved.Status)
	require.NotNil(t, approved.ReviewerID)
	assert.Equal(t, admin.ID, *approved.ReviewerID)

	u, err := env.users.FindByID(artisan.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.KYCStatusVerified, u.KYCStatus)

	_, err = svc.Approve(ctx, app.ID, admin.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = svc.Submit(ctx, artisan.ID, KYCSubmission{IDProof: "x.png"})
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, []string{events.KYCSubmitted, events.KYCReviewed}, env.events.Types())
	notes, err := env.notifications.ListForUser(artisan.ID, true, 10)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestKYC_RejectNeedsReason(t *testing.T) {
	env := newTestEnv(t)
	svc := NewKYCService(env.kyc, env.users, nil, nil, nil)
	user := env.user(t, entity.RoleCustomer)
	admin := env.user(t, entity.RoleAdmin)
	ctx := context.Background()

	_, err := svc.Submit(ctx, user.ID, KYCSubmission{})
	assert.ErrorIs(t, err, ErrBadInput)

	app, err := svc.Submit(ctx, user.ID, KYCSubmission{IDProof: "id.pdf"})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, app.ID, admin.ID, "  ")
	assert.ErrorIs(t, err, ErrBadInput)

	rejected, err := svc.Reject(ctx, app.ID, admin.ID, "blurry photo")
	require.NoError(t, err)
	assert.Equal(t, entity.KYCStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectReason)
	assert.Equal(t, "blurry photo", *rejected.RejectReason)

	view, err := svc.Status(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rejected", view.Info.Text)

	// rejected users may resubmit
	_, err = svc.Submit(ctx, user.ID, KYCSubmission{IDProof: "id2.pdf"})
	assert.NoError(t, err)

	_, err = svc.Approve(ctx, 9999, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKYC_IdentityCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	passing := &fakeVerifier{result: &verifyme.Result{Status: "success", Raw: []byte(`{"status":"success"}`)}}
	svc := NewKYCService(env.kyc, env.users, passing, nil, nil)
	u := env.user(t, entity.RoleArtisan)
	app, err := svc.Submit(ctx, u.ID, KYCSubmission{IDType: "NIN", IDNumber: "123", DOB: "1990-01-01", IDProof: "id.png"})
	require.NoError(t, err)
	assert.Equal(t, entity.IdentityCheckPassed, app.IdentityCheck)
	assert.Equal(t, u.FirstName, passing.person.FirstName)
	assert.Equal(t, "1990-01-01", passing.person.DOB)

	failing := &fakeVerifier{err: errors.New("timeout")}
	svc = NewKYCService(env.kyc, env.users, failing, nil, nil)
	u2 := env.user(t, entity.RoleArtisan)
	app, err = svc.Submit(ctx, u2.ID, KYCSubmission{IDType: "NIN", IDNumber: "456", IDProof: "id.png"})
	require.NoError(t, err)
	assert.Equal(t, entity.IdentityCheckError, app.IdentityCheck)

	// no id number, no lookup
	u3 := env.user(t, entity.RoleArtisan)
	app, err = svc.Submit(ctx, u3.ID, KYCSubmission{IDProof: "id.png"})
	require.NoError(t, err)
	assert.Equal(t, entity.IdentityCheckSkipped, app.IdentityCheck)
	assert.Equal(t, 1, failing.calls)
}

func TestKYC_OnePendingApplicationPerUser(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, entity.RoleArtisan)

	first := &entity.KYCApplication{UserID: u.ID, IDProof: "a.png", Status: entity.KYCStatusPending}
	require.NoError(t, env.kyc.CreateApplication(first))

	second := &entity.KYCApplication{UserID: u.ID, IDProof: "b.png", Status: entity.KYCStatusPending}
	assert.ErrorIs(t, env.kyc.CreateApplication(second), repository.ErrPendingApplication)
	assert.Zero(t, second.ID)

	// the unique index holds even when the count is skipped
	raw := &entity.KYCApplication{UserID: u.ID, IDProof: "c.png", Status: entity.KYCStatusPending}
	assert.Error(t, env.db.Create(raw).Error)

	// a reviewed application no longer blocks a new one
	ok, err := env.kyc.Review(first, entity.KYCStatusRejected, u.ID, ptr("blurry"), fixedNow())
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, env.kyc.CreateApplication(second))
}
