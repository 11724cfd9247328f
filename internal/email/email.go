package email

import (
	"context"
	"strings"

	"github.com/poornima12/ACME-AIR/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers booking confirmations. The transport is a stub: it logs
// what would be sent, which is enough for the notifications worker loop.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	for _, to := range event.Emails {
		s.log.Info("sending booking email",
			zap.String("to", to),
			zap.String("type", event.Type),
			zap.String("reference", event.Reference),
			zap.String("flight_code", event.FlightCode),
			zap.String("seats", strings.Join(event.SeatNumbers, ",")))
	}
	return nil
}
