package flutterwave

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

const testEncKey = "FLWSECK_TEST1234567890ab"

func TestEncryptRoundTrip(t *testing.T) {
	for _, plain := range []string{"", "1234567", "12345678", `{"card_number":"5531886652142950"}`} {
		enc, err := Encrypt(testEncKey, []byte(plain))
		require.NoError(t, err)

		dec, err := Decrypt(testEncKey, enc)
		require.NoError(t, err)
		assert.Equal(t, plain, string(dec))
	}
}

func TestEncryptRejectsShortKey(t *testing.T) {
	_, err := Encrypt("short", []byte("x"))
	assert.Error(t, err)
}

func TestChargeCardSendsEncryptedPayload(t *testing.T) {
	var sent map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/charges", r.URL.Path)
		assert.Equal(t, "card", r.URL.Query().Get("type"))
		assert.Equal(t, "Bearer FLWSECK_TEST", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = w.Write([]byte(`{"status":"success","message":"Charge authorization data required","meta":{"authorization":{"mode":"pin"}}}`))
	}))
	defer srv.Close()

	c := NewClient("FLWSECK_TEST", testEncKey, WithBaseURL(srv.URL))
	res, err := c.ChargeCard(context.Background(), CardCharge{
		CardNumber:  "5531886652142950",
		CVV:         "564",
		ExpiryMonth: "09",
		ExpiryYear:  "32",
		Currency:    "NGN",
		Amount:      "100",
		Email:       "ada@example.com",
		TxRef:       "tx-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)

	plain, err := Decrypt(testEncKey, sent["client"])
	require.NoError(t, err)
	var payload CardCharge
	require.NoError(t, json.Unmarshal(plain, &payload))
	assert.Equal(t, "5531886652142950", payload.CardNumber)
	assert.Equal(t, "tx-1", payload.TxRef)
}

func TestChargeCardNeedsEncryptionKey(t *testing.T) {
	_, err := NewClient("sk", "").ChargeCard(context.Background(), CardCharge{})
	assert.ErrorIs(t, err, ErrNoEncryptionKey)
}

func TestVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/transactions/288200108/verify", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","message":"Transaction fetched successfully","data":{"id":288200108,"tx_ref":"tx-1","amount":100,"currency":"NGN","status":"successful"}}`))
	}))
	defer srv.Close()

	_, tx, err := NewClient("sk", testEncKey, WithBaseURL(srv.URL)).VerifyTransaction(context.Background(), "288200108")
	require.NoError(t, err)
	assert.Equal(t, int64(288200108), tx.ID)
	assert.Equal(t, "tx-1", tx.TxRef)
	assert.Equal(t, "successful", tx.Status)
	assert.Equal(t, float64(100), tx.Amount)
}

func TestVerifyTransactionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"No transaction was found for this id"}`))
	}))
	defer srv.Close()

	_, _, err := NewClient("sk", testEncKey, WithBaseURL(srv.URL)).VerifyTransaction(context.Background(), "1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
