package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		MerchantKey:  "merchant-key",
		MerchantSalt: "merchant-salt",
		APIBaseURL:   serverURL,
	})
}

func TestMandateStatusSignsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form failed: %v", err)
		}
		if r.PostFormValue("command") != CommandMandateStatus {
			t.Fatalf("unexpected command: %s", r.PostFormValue("command"))
		}
		if r.PostFormValue("var1") != "txn-1" {
			t.Fatalf("unexpected var1: %s", r.PostFormValue("var1"))
		}
		if r.PostFormValue("key") != "merchant-key" {
			t.Fatalf("unexpected key: %s", r.PostFormValue("key"))
		}
		expected := CommandHash("merchant-key", "merchant-salt", CommandMandateStatus, "txn-1")
		if r.PostFormValue("hash") != expected {
			t.Fatalf("command hash mismatch: %s", r.PostFormValue("hash"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":1,"msg":"active"}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).MandateStatus(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("mandate status failed: %v", err)
	}
	if result["msg"] != "active" {
		t.Fatalf("unexpected result: %v", result)
	}
}

func TestRefundPassesExtraVars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostFormValue("var1") != "pay-1" || r.PostFormValue("var2") != "refund-1" || r.PostFormValue("var3") != "100.00" {
			t.Fatalf("unexpected vars: var1=%s var2=%s var3=%s", r.PostFormValue("var1"), r.PostFormValue("var2"), r.PostFormValue("var3"))
		}
		expected := CommandHash("merchant-key", "merchant-salt", CommandRefund, "pay-1")
		if r.PostFormValue("hash") != expected {
			t.Fatal("refund hash must cover var1 only")
		}
		_, _ = w.Write([]byte(`{"status":1}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Refund(context.Background(), "pay-1", "refund-1", "100.00"); err != nil {
		t.Fatalf("refund failed: %v", err)
	}
}

func TestCommandFailsOnZeroStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":0,"msg":"Invalid transaction id"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).VerifyPayment(context.Background(), "txn-x")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}
}

func TestCommandFailsOnStringZeroStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"0"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ValidateVPA(context.Background(), "someone@upi")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}
}

func TestCommandFailsOnErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"mandate not found"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).MandateStatus(context.Background(), "txn-x")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}
}

func TestCommandFailsOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).MandateStatus(context.Background(), "txn-1"); err == nil {
		t.Fatal("expected error on http failure")
	}
}

func TestCommandRequiresCredentials(t *testing.T) {
	client := NewClient(Config{APIBaseURL: "http://localhost"})
	if _, err := client.MandateStatus(context.Background(), "txn-1"); err == nil {
		t.Fatal("expected error without merchant credentials")
	}
}
