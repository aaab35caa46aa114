package notification

import (
	"context"

	"go.uber.org/zap"
)

// AddressSuffix turns a bare phone number into a transport address.
const AddressSuffix = "@s.whatsapp.net"

// MessageSender is the outbound side of the messaging transport. The real
// implementation lives with the transport session and is injected at wiring
// time; everything here treats sends as best-effort.
type MessageSender interface {
	SendText(ctx context.Context, address, body string) error
}

// Address builds the transport address for a phone number.
func Address(phone string) string {
	return phone + AddressSuffix
}

// LogMessageSender logs outbound messages instead of sending them. It is the
// default when no transport session is attached, keeping the confirmation
// flow runnable in development.
type LogMessageSender struct {
	Logger *zap.Logger
}

func (s *LogMessageSender) SendText(_ context.Context, address, body string) error {
	s.Logger.Info("outbound message (no transport attached)",
		zap.String("to", address), zap.String("body", body))
	return nil
}
