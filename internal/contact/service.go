package contact

import (
	"context"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/Dhikaaapr/portfolio/internal/store"
)

type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

const (
	msgSent   = "Message sent successfully! I'll get back to you soon."
	msgDemo   = "Demo Success! (Configure EmailJS to send real emails)"
	msgFailed = "Failed to send message. Please check your connection or try again."
)

// Result is what the contact section shows after a submission.
type Result struct {
	ID      string
	Kind    StatusKind
	Message string
}

func (r Result) OK() bool { return r.Kind == StatusSuccess }

// Recorder keeps a copy of every submission.
type Recorder interface {
	RecordMessage(ctx context.Context, m store.Message) error
}

type Service struct {
	relay Relay
	rec   Recorder
	log   zerolog.Logger
	now   func() time.Time
}

// NewService returns a Service delivering through relay. rec may be nil.
func NewService(relay Relay, rec Recorder, log zerolog.Logger) *Service {
	return &Service{relay: relay, rec: rec, log: log, now: time.Now}
}

func (s *Service) Relay() Relay { return s.relay }

func (s *Service) Demo() bool {
	_, ok := s.relay.(*Demo)
	return ok
}

// Submit delivers f and records the outcome. Delivery errors become an
// error Result, never a returned error.
func (s *Service) Submit(ctx context.Context, f Form) Result {
	f = f.Trimmed()
	id := xid.New().String()
	log := s.log.With().Str("message_id", id).Str("relay", s.relay.Name()).Logger()

	res := Result{ID: id, Kind: StatusSuccess, Message: msgSent}
	if s.Demo() {
		log.Warn().Msg("contact relay not configured, using demo mode")
		res.Message = msgDemo
	}

	sendErr := s.relay.Send(ctx, f)
	if sendErr != nil {
		log.Error().Err(sendErr).Msg("contact delivery failed")
		res.Kind = StatusError
		res.Message = msgFailed
	} else {
		log.Info().Str("from", f.Email).Msg("contact message delivered")
	}

	if s.rec != nil {
		m := store.Message{
			ID:        id,
			Name:      f.Name,
			Email:     f.Email,
			Subject:   f.Subject,
			Body:      f.Message,
			Relay:     s.relay.Name(),
			Delivered: sendErr == nil,
			CreatedAt: s.now(),
		}
		if sendErr != nil {
			m.Error = sendErr.Error()
		}
		// The visitor's request may already be gone; keep the record anyway.
		if err := s.rec.RecordMessage(context.WithoutCancel(ctx), m); err != nil {
			log.Error().Err(err).Msg("recording contact message")
		}
	}
	return res
}
