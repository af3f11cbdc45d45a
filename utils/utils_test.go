package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKYCStatusInfoPending(t *testing.T) {
	info := GetKYCStatusInfo("pending")
	assert.Equal(t, "Under Review", info.Text)
	assert.Equal(t, "yellow", info.Color)
	assert.Equal(t, "clock", info.Icon)
	assert.NotEmpty(t, info.Description)
}

func TestGetKYCStatusInfoKnownStatuses(t *testing.T) {
	assert.Equal(t, "Verified", GetKYCStatusInfo(entity.KYCStatusVerified).Text)
	assert.Equal(t, "green", GetKYCStatusInfo(entity.KYCStatusVerified).Color)
	assert.Equal(t, "Rejected", GetKYCStatusInfo(entity.KYCStatusRejected).Text)
	assert.Equal(t, "red", GetKYCStatusInfo(entity.KYCStatusRejected).Color)
}

func TestGetKYCStatusInfoFallback(t *testing.T) {
	for _, status := range []string{"", "unknown", "PENDING", entity.KYCStatusNotSubmitted} {
		info := GetKYCStatusInfo(status)
		assert.Equal(t, "Not Verified", info.Text, status)
		assert.Equal(t, "gray", info.Color, status)
	}
}

func TestKYCGatesAreOpen(t *testing.T) {
	users := []*entity.User{
		nil,
		{},
		{KYCStatus: entity.KYCStatusNotSubmitted},
		{KYCStatus: entity.KYCStatusPending},
		{KYCStatus: entity.KYCStatusRejected},
		{KYCStatus: entity.KYCStatusVerified, Role: entity.RoleArtisan},
	}
	for _, u := range users {
		assert.True(t, IsKYCVerified(u))
		assert.False(t, NeedsKYC(u))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, entity.RoleArtisan, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, entity.RoleArtisan, claims.Role)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken(1, entity.RoleCustomer, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.Error(t, err)
}

func TestContextHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Zero(t, CurrentUserID(c))
	assert.Empty(t, CurrentRole(c))
	assert.Empty(t, UploadedFiles(c))

	SetCurrentUser(c, 7, entity.RoleAdmin)
	assert.Equal(t, uint(7), CurrentUserID(c))
	assert.Equal(t, entity.RoleAdmin, CurrentRole(c))
}
