package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/transactions", r.URL.Path)

		var req struct {
			Script    string  `json:"script"`
			Arguments []TxArg `json:"arguments"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Script, "transaction")
		require.Len(t, req.Arguments, 2)
		assert.Equal(t, "UInt64", req.Arguments[0].Type)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"tx-abc123"}`))
	}))
	defer srv.Close()

	lc := NewLedgerClientWithURL(srv.URL)
	txID, err := lc.SubmitTransaction(context.Background(), "transaction { execute {} }", []TxArg{
		{Type: "UInt64", Value: "424965"},
		{Type: "String", Value: "litellm"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-abc123", txID)
}

func TestSubmitTransactionEmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":""}`))
	}))
	defer srv.Close()

	lc := NewLedgerClientWithURL(srv.URL)
	_, err := lc.SubmitTransaction(context.Background(), "transaction {}", nil)
	assert.Error(t, err)
}

func TestGetTransactionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/transactions/tx-abc123", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":2,"blockId":"b-9","logs":["Vault ID: 424965"],"errorMessage":""}`))
	}))
	defer srv.Close()

	lc := NewLedgerClientWithURL(srv.URL)
	status, err := lc.GetTransactionStatus(context.Background(), "tx-abc123")
	require.NoError(t, err)
	assert.Equal(t, 2, status.StatusCode)
	assert.Equal(t, "b-9", status.BlockID)
	assert.Equal(t, []string{"Vault ID: 424965"}, status.LogLines)
}

func TestExecuteScript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/scripts", r.URL.Path)
		_, _ = w.Write([]byte(`{"value":{"vaultId":424965,"balance":"25.000000"}}`))
	}))
	defer srv.Close()

	lc := NewLedgerClientWithURL(srv.URL)
	raw, err := lc.ExecuteScript(context.Background(), "access(all) fun main() {}", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"vaultId":424965,"balance":"25.000000"}`, string(raw))
}

func TestExecuteScriptServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	lc := NewLedgerClientWithURL(srv.URL)
	_, err := lc.ExecuteScript(context.Background(), "access(all) fun main() {}", nil)
	assert.Error(t, err)
}

func TestGetTransactionStatusServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	lc := NewLedgerClientWithURL(srv.URL)
	_, err := lc.GetTransactionStatus(context.Background(), "tx-abc123")
	assert.Error(t, err)
}
