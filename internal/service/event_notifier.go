package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// EventPayload is the JSON structure pushed to the configured event sink.
type EventPayload struct {
	Events    []EventPayloadItem `json:"events"`
	Timestamp int64              `json:"timestamp"`
	Signature string             `json:"signature"`
}

// EventPayloadItem is one ledger event in the push payload.
type EventPayloadItem struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	DepositID string `json:"deposit_id"`
	Amount    string `json:"amount"`
	CreatedAt int64  `json:"created_at"`
}

// eventNotifier implements ports.EventNotifier: a best-effort signed push of
// committed ledger events to one configured sink. Events are already durable
// in the database; delivery failures are logged and never fail the ledger
// operation.
type eventNotifier struct {
	sinkURL    string
	secret     string
	sigSvc     ports.SignatureService
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewEventNotifier creates a new event notifier. An empty sinkURL disables
// pushes entirely.
func NewEventNotifier(
	sinkURL string,
	secret string,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) ports.EventNotifier {
	return &eventNotifier{
		sinkURL:    sinkURL,
		secret:     secret,
		sigSvc:     sigSvc,
		httpClient: httpClient,
		log:        log,
	}
}

// NotifyEvents pushes a batch of committed events to the sink.
func (s *eventNotifier) NotifyEvents(ctx context.Context, events []domain.LedgerEvent) {
	if s.sinkURL == "" || len(events) == 0 {
		return
	}

	items := make([]EventPayloadItem, 0, len(events))
	for _, ev := range events {
		items = append(items, EventPayloadItem{
			ID:        ev.ID.String(),
			Kind:      string(ev.Kind),
			DepositID: ev.DepositID.String(),
			Amount:    ev.Amount.String(),
			CreatedAt: ev.CreatedAt.Unix(),
		})
	}

	payload := EventPayload{
		Events:    items,
		Timestamp: time.Now().Unix(),
	}
	unsigned, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Msg("event push: marshal failed")
		return
	}
	payload.Signature = s.sigSvc.Sign(s.secret, string(unsigned))

	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Msg("event push: marshal failed")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.sinkURL, bytes.NewReader(body))
	if err != nil {
		s.log.Error().Err(err).Msg("event push: build request failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Int("events", len(events)).Msg("event push failed")
		return
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Warn().Int("status", resp.StatusCode).Int("events", len(events)).Msg("event sink rejected push")
		return
	}

	s.log.Debug().Int("events", len(events)).Msg("events pushed to sink")
}
