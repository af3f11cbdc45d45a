package entity

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueDefaults(t *testing.T) {
	i := Issue{Title: "  App crashes ", Description: "on login", ReporterID: 1}
	i.ApplyDefaults()

	assert.Equal(t, "App crashes", i.Title)
	assert.Equal(t, IssuePriorityMedium, i.Priority)
	assert.Equal(t, IssueCategoryGeneral, i.Category)
	assert.Equal(t, IssueStatusOpen, i.Status)
	assert.NoError(t, i.Validate())
}

func TestIssueValidationMessages(t *testing.T) {
	i := Issue{
		Title:       strings.Repeat("x", 101),
		Priority:    "urgent",
		Category:    IssueCategoryBug,
		Status:      IssueStatusOpen,
		ReporterID:  1,
		Description: "",
	}

	err := i.Validate()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "title cannot exceed 100 characters", ve.Fields["title"])
	assert.Equal(t, "description is required", ve.Fields["description"])
	assert.Equal(t, "priority must be one of: low medium high critical", ve.Fields["priority"])
	assert.Contains(t, err.Error(), "issue validation failed")
}

func TestIssueRequiresReporter(t *testing.T) {
	i := Issue{Title: "t", Description: "d"}
	i.ApplyDefaults()

	var ve *ValidationError
	require.ErrorAs(t, i.Validate(), &ve)
	assert.Equal(t, "reporter is required", ve.Fields["reporter"])
}

func TestIssueCategoryEnum(t *testing.T) {
	for _, cat := range []string{"technical", "billing", "account", "general", "bug", "feature-request"} {
		i := Issue{Title: "t", Description: "d", ReporterID: 1, Category: cat}
		i.ApplyDefaults()
		assert.NoError(t, i.Validate(), cat)
	}

	i := Issue{Title: "t", Description: "d", ReporterID: 1, Category: "feature"}
	i.ApplyDefaults()
	assert.Error(t, i.Validate())
}

func TestIssueSetStatusTracksResolvedAt(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	i := Issue{Status: IssueStatusOpen}

	i.SetStatus(IssueStatusResolved, now)
	require.NotNil(t, i.ResolvedAt)
	assert.Equal(t, now, *i.ResolvedAt)

	i.SetStatus(IssueStatusClosed, now.Add(time.Hour))
	require.NotNil(t, i.ResolvedAt)
	assert.Equal(t, now, *i.ResolvedAt)

	i.SetStatus(IssueStatusInProgress, now)
	assert.Nil(t, i.ResolvedAt)
}

func TestServiceValidation(t *testing.T) {
	s := Service{Name: "   "}
	var ve *ValidationError
	require.ErrorAs(t, s.Validate(), &ve)
	assert.Equal(t, "name is required", ve.Fields["name"])

	s = Service{Name: " Plumbing ", Description: "pipes"}
	require.NoError(t, s.Validate())
	assert.Equal(t, "Plumbing", s.Name)
}

func TestEntitiesUseCamelCaseKeys(t *testing.T) {
	models := map[string]any{
		"issue":        Issue{ID: 7},
		"service":      Service{ID: 7},
		"user":         User{ID: 7},
		"kyc":          KYCApplication{ID: 7},
		"booking":      Booking{ID: 7},
		"payment":      Payment{ID: 7},
		"notification": Notification{ID: 7},
	}
	for name, m := range models {
		raw, err := json.Marshal(m)
		require.NoError(t, err, name)
		var out map[string]any
		require.NoError(t, json.Unmarshal(raw, &out), name)

		assert.Equal(t, float64(7), out["id"], name)
		assert.Contains(t, out, "createdAt", name)
		assert.Contains(t, out, "updatedAt", name)
		assert.NotContains(t, out, "ID", name)
		assert.NotContains(t, out, "DeletedAt", name)
		assert.NotContains(t, out, "deletedAt", name)
	}
}
