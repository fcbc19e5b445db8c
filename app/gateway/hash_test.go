package gateway

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
)

func testCallbackEvent() *CallbackEvent {
	return &CallbackEvent{
		Status:      "success",
		TxnID:       "txn-1",
		Amount:      "499.00",
		ProductInfo: "subscription",
		FirstName:   "Asha",
		Email:       "asha@example.com",
		PaymentID:   "403993715531",
		UDF:         [10]string{"user", "user-1", "", "sub-1", "user-1"},
	}
}

func TestPaymentHashMatchesKnownMessage(t *testing.T) {
	req := &PaymentRequest{
		TxnID:       "txn-1",
		Amount:      "499.00",
		ProductInfo: "subscription",
		FirstName:   "Asha",
		Email:       "asha@example.com",
		UDF:         [10]string{"user", "user-1", "", "sub-1", "user-1"},
	}

	message := strings.Join([]string{
		"merchant-key", "txn-1", "499.00", "subscription", "Asha", "asha@example.com",
		"user", "user-1", "", "sub-1", "user-1", "", "", "", "", "",
		"merchant-salt",
	}, "|")
	sum := sha512.Sum512([]byte(message))

	if got := PaymentHash("merchant-key", "merchant-salt", req); got != hex.EncodeToString(sum[:]) {
		t.Fatalf("payment hash does not match message contract: %s", got)
	}
}

func TestReverseHashMatchesKnownMessage(t *testing.T) {
	evt := testCallbackEvent()

	message := strings.Join([]string{
		"merchant-salt", "success", "", "", "", "", "",
		"", "", "", "", "", "user-1", "sub-1", "", "user-1", "user",
		"asha@example.com", "Asha", "subscription", "499.00", "txn-1",
		"merchant-key",
	}, "|")
	sum := sha512.Sum512([]byte(message))

	if got := ReverseHash("merchant-key", "merchant-salt", evt); got != hex.EncodeToString(sum[:]) {
		t.Fatalf("reverse hash does not match message contract: %s", got)
	}
}

func TestVerifyReverseHashRoundTrip(t *testing.T) {
	evt := testCallbackEvent()
	evt.Hash = ReverseHash("merchant-key", "merchant-salt", evt)

	if !VerifyReverseHash("merchant-key", "merchant-salt", evt) {
		t.Fatal("expected round-trip verification to succeed")
	}
	if VerifyReverseHash("merchant-key", "other-salt", evt) {
		t.Fatal("expected verification with wrong salt to fail")
	}
	if VerifyReverseHash("other-key", "merchant-salt", evt) {
		t.Fatal("expected verification with wrong key to fail")
	}
}

func TestVerifyReverseHashRejectsEmptyHash(t *testing.T) {
	evt := testCallbackEvent()
	evt.Hash = ""
	if VerifyReverseHash("merchant-key", "merchant-salt", evt) {
		t.Fatal("expected verification without a hash to fail")
	}
}

func TestReverseHashSensitiveToEveryField(t *testing.T) {
	base := ReverseHash("merchant-key", "merchant-salt", testCallbackEvent())

	mutations := map[string]func(evt *CallbackEvent){
		"status":      func(evt *CallbackEvent) { evt.Status = "failure" },
		"txnid":       func(evt *CallbackEvent) { evt.TxnID = "txn-2" },
		"amount":      func(evt *CallbackEvent) { evt.Amount = "499.01" },
		"productinfo": func(evt *CallbackEvent) { evt.ProductInfo = "other" },
		"firstname":   func(evt *CallbackEvent) { evt.FirstName = "Ravi" },
		"email":       func(evt *CallbackEvent) { evt.Email = "ravi@example.com" },
	}
	for i := 0; i < 10; i++ {
		slot := i
		mutations[fmt.Sprintf("udf%d", slot+1)] = func(evt *CallbackEvent) { evt.UDF[slot] += "x" }
	}

	for name, mutate := range mutations {
		evt := testCallbackEvent()
		mutate(evt)
		if ReverseHash("merchant-key", "merchant-salt", evt) == base {
			t.Fatalf("changing %s did not change the digest", name)
		}
	}
}

func TestPaymentHashSensitiveToEveryUDFSlot(t *testing.T) {
	req := &PaymentRequest{TxnID: "txn-1", Amount: "1.00", Email: "a@b.c"}
	base := PaymentHash("k", "s", req)

	for i := range req.UDF {
		mutated := *req
		mutated.UDF[i] = "x"
		if PaymentHash("k", "s", &mutated) == base {
			t.Fatalf("changing udf slot %d did not change the digest", i+1)
		}
	}
}

func TestCommandHashMatchesKnownMessage(t *testing.T) {
	sum := sha512.Sum512([]byte("merchant-key|check_mandate_status|txn-1|merchant-salt"))
	if got := CommandHash("merchant-key", "merchant-salt", "check_mandate_status", "txn-1"); got != hex.EncodeToString(sum[:]) {
		t.Fatalf("command hash does not match message contract: %s", got)
	}
}
