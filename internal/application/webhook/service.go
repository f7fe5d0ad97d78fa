// Package webhook verifies signed deliveries from integrations and forwards
// them to the worker.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/application/background"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"github.com/van-william/carbon-sub017/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

const (
	// HeaderTimestamp carries the unix time the delivery was signed at
	HeaderTimestamp = "X-Webhook-Timestamp"
	// HeaderSignature carries v1=<hex hmac> or the bare hex digest
	HeaderSignature = "X-Webhook-Signature"

	signaturePrefix  = "v1="
	defaultTolerance = 5 * time.Minute
)

// Verification failures
var (
	ErrSignature          = shared.NewDomainError("WEBHOOK_SIGNATURE", "Webhook signature is invalid")
	ErrTimestamp          = shared.NewDomainError("WEBHOOK_TIMESTAMP", "Webhook timestamp is missing or outside the tolerance")
	ErrReplay             = shared.NewDomainError("WEBHOOK_REPLAY", "Webhook delivery was already received")
	ErrUnknownIntegration = shared.NewDomainError("WEBHOOK_UNKNOWN_INTEGRATION", "Unknown webhook integration")
	ErrForward            = shared.NewDomainError("WEBHOOK_FORWARD_FAILED", "Webhook could not be queued, retry the delivery")
)

// Delivery is one inbound request as received
type Delivery struct {
	Timestamp string
	Signature string
	CompanyID uuid.UUID
	Body      []byte
}

// Event is the body integrations post
type Event struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Result acknowledges an accepted delivery
type Result struct {
	Received  bool      `json:"received"`
	EventID   string    `json:"event_id,omitempty"`
	TaskID    uuid.UUID `json:"task_id,omitempty"`
	Forwarded bool      `json:"forwarded"`
}

// Service verifies and forwards webhook deliveries
type Service struct {
	secrets    map[string]string
	tolerance  time.Duration
	replay     shared.ReplayStore
	dispatcher task.Dispatcher
	now        func() time.Time
}

// NewService creates a new Service
func NewService(cfg config.WebhookConfig, replay shared.ReplayStore, dispatcher task.Dispatcher) *Service {
	tolerance := cfg.Tolerance
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}
	secrets := make(map[string]string, len(cfg.Secrets))
	for name, secret := range cfg.Secrets {
		secrets[strings.ToLower(name)] = secret
	}
	return &Service{
		secrets:    secrets,
		tolerance:  tolerance,
		replay:     replay,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Sign returns the hex signature of body signed at timestamp
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Receive verifies d and forwards its event as a webhook.<integration> task
func (s *Service) Receive(ctx context.Context, integration string, d Delivery) (*Result, error) {
	integration = strings.ToLower(strings.TrimSpace(integration))
	log := logger.L(ctx).With(zap.String("integration", integration))

	result, err := s.receive(ctx, integration, d)
	if err != nil {
		metrics.IncrementWebhook(integration, outcome(err))
		log.Warn("webhook rejected", zap.Error(err))
		return nil, err
	}
	metrics.IncrementWebhook(integration, "accepted")
	log.Info("webhook accepted",
		zap.String("event_id", result.EventID),
		zap.Bool("forwarded", result.Forwarded))
	return result, nil
}

func (s *Service) receive(ctx context.Context, integration string, d Delivery) (*Result, error) {
	secret, ok := s.secrets[integration]
	if !ok || secret == "" {
		return nil, ErrUnknownIntegration
	}
	if err := s.checkTimestamp(d.Timestamp); err != nil {
		return nil, err
	}
	digest, ok := verify(secret, d.Timestamp, d.Body, d.Signature)
	if !ok {
		return nil, ErrSignature
	}

	var event Event
	if err := json.Unmarshal(d.Body, &event); err != nil || event.Type == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Webhook body must be a JSON event with a type")
	}

	key := replayKey(integration, digest)
	if s.replay != nil {
		fresh, err := s.replay.MarkSeen(ctx, key, s.tolerance)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, ErrReplay
		}
	}

	tk, forwarded := background.Trigger(ctx, s.dispatcher, task.WebhookType(integration), d.CompanyID, task.WebhookPayload{
		Integration: integration,
		EventID:     event.ID,
		EventType:   event.Type,
		Data:        event.Data,
		ReceivedAt:  s.now().UTC(),
	})
	if !forwarded {
		// the sender retries on a 5xx, which must not be refused as a replay
		if s.replay != nil {
			if err := s.replay.Forget(context.WithoutCancel(ctx), key); err != nil {
				logger.L(ctx).Error("failed to release webhook replay key", zap.Error(err))
			}
		}
		return nil, ErrForward
	}
	return &Result{Received: true, EventID: event.ID, TaskID: tk.ID, Forwarded: true}, nil
}

func (s *Service) checkTimestamp(raw string) error {
	sec, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return ErrTimestamp
	}
	skew := s.now().Sub(time.Unix(sec, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > s.tolerance {
		return ErrTimestamp
	}
	return nil
}

// verify reports whether header carries the HMAC of the delivery and
// returns the digest it decoded to
func verify(secret, timestamp string, body []byte, header string) ([]byte, bool) {
	got, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(header), signaturePrefix))
	if err != nil || len(got) == 0 {
		return nil, false
	}
	want, _ := hex.DecodeString(Sign(secret, timestamp, body))
	if !hmac.Equal(got, want) {
		return nil, false
	}
	return got, true
}

// replayKey is built from the decoded digest so every spelling of one
// signature maps to the same key
func replayKey(integration string, digest []byte) string {
	return "webhook:" + integration + ":" + hex.EncodeToString(digest)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrSignature):
		return "signature"
	case errors.Is(err, ErrTimestamp):
		return "timestamp"
	case errors.Is(err, ErrReplay):
		return "replay"
	case errors.Is(err, ErrUnknownIntegration):
		return "unknown"
	case errors.Is(err, ErrForward):
		return "forward"
	default:
		return "error"
	}
}
