package verifyme

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyIdentity(t *testing.T) {
	var got Person
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/verifications/identities/nin/12345678901", r.URL.Path)
		assert.Equal(t, "Bearer vm_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"success","data":{"firstname":"ADA","lastname":"OBI","fieldMatches":{"firstname":true,"lastname":true}}}`))
	}))
	defer srv.Close()

	res, err := NewClient("vm_key", WithBaseURL(srv.URL)).VerifyIdentity(context.Background(), "NIN", "12345678901", Person{
		FirstName: "Ada",
		LastName:  "Obi",
		DOB:       "04-04-1990",
	})
	require.NoError(t, err)
	assert.True(t, res.Verified())
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "04-04-1990", got.DOB)
	assert.Contains(t, string(res.Data), "fieldMatches")
}

func TestVerifyIdentityNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"NIN not found"}`))
	}))
	defer srv.Close()

	_, err := NewClient("vm_key", WithBaseURL(srv.URL)).VerifyIdentity(context.Background(), "nin", "0", Person{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "NIN not found", apiErr.Message)
}

func TestResultVerified(t *testing.T) {
	var nilResult *Result
	assert.False(t, nilResult.Verified())
	assert.False(t, (&Result{Status: "error"}).Verified())
}
