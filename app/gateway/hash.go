package gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// PaymentRequest carries the fields signed into an outbound payment-initiation
// hash. Absent optional fields stay empty strings; they are still joined into
// the message.
type PaymentRequest struct {
	TxnID       string
	Amount      string
	ProductInfo string
	FirstName   string
	Email       string
	UDF         [10]string
}

// CallbackEvent is the flat field set of an inbound gateway callback.
type CallbackEvent struct {
	Status           string
	TxnID            string
	Amount           string
	ProductInfo      string
	FirstName        string
	Email            string
	PaymentID        string
	Hash             string
	Key              string
	UDF              [10]string
	NotificationType string
	Error            string
}

// PaymentHash computes the outbound initiation digest. The merchant key and
// salt are joined positionally into the message; the gateway computes the
// identical digest, so field order is a wire contract.
func PaymentHash(key, salt string, req *PaymentRequest) string {
	fields := make([]string, 0, 17)
	fields = append(fields, key, req.TxnID, req.Amount, req.ProductInfo, req.FirstName, req.Email)
	fields = append(fields, req.UDF[:]...)
	fields = append(fields, salt)
	return digest(strings.Join(fields, "|"))
}

// ReverseHash computes the verification digest for an inbound callback: salt
// first, then status, five empty placeholders, the UDF slots in reverse order,
// and the identity fields reversed relative to PaymentHash.
func ReverseHash(key, salt string, evt *CallbackEvent) string {
	fields := make([]string, 0, 23)
	fields = append(fields, salt, evt.Status, "", "", "", "", "")
	for i := len(evt.UDF) - 1; i >= 0; i-- {
		fields = append(fields, evt.UDF[i])
	}
	fields = append(fields, evt.Email, evt.FirstName, evt.ProductInfo, evt.Amount, evt.TxnID, key)
	return digest(strings.Join(fields, "|"))
}

// VerifyReverseHash reports whether the callback's hash field matches the
// freshly computed reverse digest. Pure predicate, no side effects.
func VerifyReverseHash(key, salt string, evt *CallbackEvent) bool {
	if strings.TrimSpace(evt.Hash) == "" {
		return false
	}
	expected := ReverseHash(key, salt, evt)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(evt.Hash)) == 1
}

// CommandHash authenticates an administrative API call: one command, one
// correlating argument.
func CommandHash(key, salt, command, arg string) string {
	return digest(key + "|" + command + "|" + arg + "|" + salt)
}

func digest(message string) string {
	sum := sha512.Sum512([]byte(message))
	return hex.EncodeToString(sum[:])
}
