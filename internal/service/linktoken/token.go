package linktoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("link token signature is invalid")
	ErrMalformedToken   = errors.New("link token is malformed")
	ErrExpiredLink      = errors.New("link is outside its validity window")
	ErrAlreadyCompleted = errors.New("interview is already completed")
)

// Payload is the self-contained claim set of a join link. Tokens are
// stateless: everything needed to validate one is in the payload and the
// server-side secret.
type Payload struct {
	InterviewID uuid.UUID `json:"interview_id"`
	IssuedAt    time.Time `json:"issued_at"`
	SlotStart   time.Time `json:"slot_start"`
	SlotEnd     time.Time `json:"slot_end"`
}

// encodeToken produces base64url(payload) + "." + base64url(HMAC-SHA256(secret, payload)).
func encodeToken(secret []byte, p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(raw)
	sig := mac.Sum(nil)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(raw) + "." + enc.EncodeToString(sig), nil
}

// decodeToken verifies the signature in constant time and parses the
// payload. The signature is checked before the payload is interpreted so a
// tampered token never reaches the JSON parser's error paths.
func decodeToken(secret []byte, token string) (Payload, error) {
	payloadPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return Payload{}, ErrMalformedToken
	}

	enc := base64.RawURLEncoding
	raw, err := enc.DecodeString(payloadPart)
	if err != nil {
		return Payload{}, ErrMalformedToken
	}
	sig, err := enc.DecodeString(sigPart)
	if err != nil {
		return Payload{}, ErrMalformedToken
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(raw)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return Payload{}, ErrInvalidSignature
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, ErrMalformedToken
	}
	if p.InterviewID == uuid.Nil || p.SlotStart.IsZero() || p.SlotEnd.IsZero() {
		return Payload{}, ErrMalformedToken
	}
	return p, nil
}
