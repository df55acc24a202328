package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// signatureTolerance bounds how old a signed webhook may be before it is
// rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

// EventKind discriminates the provider events the workflow reacts to.
type EventKind int

const (
	KindOther EventKind = iota // recognised but ignored
	KindPaymentSucceeded
	KindPaymentFailed
)

// Event is a provider notification decoded once at this boundary, so callers
// never inspect raw provider JSON.
type Event struct {
	Kind     EventKind
	Type     string // raw provider event type, for logging
	IntentID string
}

type rawEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyWebhook authenticates payload against sigHeader (Stripe-Signature
// scheme: HMAC-SHA256 of "<timestamp>.<payload>") and decodes it into an
// Event. When no webhook secret is configured the signature check is skipped
// and the payload is decoded as-is; that mode exists for local development
// only and must never be used in production.
func (c *Client) VerifyWebhook(payload []byte, sigHeader string) (*Event, error) {
	if c.webhookSecret != "" {
		if err := verifySignature(payload, sigHeader, c.webhookSecret, time.Now()); err != nil {
			return nil, err
		}
	}
	return parseEvent(payload)
}

func verifySignature(payload []byte, sigHeader, secret string, now time.Time) error {
	ts, sigs, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return err
	}
	if age := now.Sub(time.Unix(ts, 0)); age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range sigs {
		got, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, got) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// parseSignatureHeader splits "t=1699000000,v1=abc...,v1=def..." into the
// timestamp and candidate v1 signatures.
func parseSignatureHeader(header string) (int64, []string, error) {
	var ts int64
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
			}
			ts = n
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return 0, nil, fmt.Errorf("%w: missing timestamp or signature", ErrInvalidSignature)
	}
	return ts, sigs, nil
}

func parseEvent(payload []byte) (*Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	ev := &Event{Type: raw.Type, IntentID: raw.Data.Object.ID}
	switch raw.Type {
	case "payment_intent.succeeded":
		ev.Kind = KindPaymentSucceeded
	case "payment_intent.payment_failed":
		ev.Kind = KindPaymentFailed
	default:
		ev.Kind = KindOther
	}
	return ev, nil
}
