package service

import (
	"testing"

	"github.com/vibast-solutions/ms-go-billing/app/gateway"
)

func TestClassifyByStatus(t *testing.T) {
	cases := []struct {
		status string
		want   Classification
	}{
		{"success", ClassificationPaymentSuccess},
		{"captured", ClassificationPaymentSuccess},
		{"SUCCESS", ClassificationPaymentSuccess},
		{"failure", ClassificationPaymentFailure},
		{"failed", ClassificationPaymentFailure},
		{"pending", ClassificationPaymentPending},
		{"cancelled", ClassificationCancelled},
		{"halted", ClassificationHalted},
		{"completed", ClassificationCompleted},
		{"paused", ClassificationPaused},
		{"resumed", ClassificationResumed},
		{"active", ClassificationResumed},
		{"  Captured  ", ClassificationPaymentSuccess},
		{"refunded", ClassificationNone},
		{"", ClassificationNone},
	}

	for _, tc := range cases {
		got := Classify(&gateway.CallbackEvent{Status: tc.status})
		if got != tc.want {
			t.Errorf("Classify(status=%q) = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestClassifyNotificationTypeBeatsStatus(t *testing.T) {
	evt := &gateway.CallbackEvent{Status: "active", NotificationType: "mandate_revoked"}
	if got := Classify(evt); got != ClassificationMandateRevoked {
		t.Fatalf("expected mandate_revoked to beat status, got %s", got)
	}

	evt = &gateway.CallbackEvent{Status: "success", NotificationType: "SI_Modified"}
	if got := Classify(evt); got != ClassificationMandateModified {
		t.Fatalf("expected si_modified to beat status, got %s", got)
	}

	evt = &gateway.CallbackEvent{Status: "success", NotificationType: "si_cancelled"}
	if got := Classify(evt); got != ClassificationMandateRevoked {
		t.Fatalf("expected si_cancelled to classify as mandate revoked, got %s", got)
	}
}

func TestClassifyUnknownNotificationFallsBackToStatus(t *testing.T) {
	evt := &gateway.CallbackEvent{Status: "paused", NotificationType: "something_else"}
	if got := Classify(evt); got != ClassificationPaused {
		t.Fatalf("expected fallback to status classification, got %s", got)
	}
}
