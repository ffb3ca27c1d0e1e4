package notification

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
)

// Service is a composite notifier that forwards every message to all
// configured channels
type Service struct {
	channels []domain.Notifier
}

// NewService creates a notifier that logs every message and, when out is
// set, also prints it there
func NewService(log zerolog.Logger, out io.Writer) *Service {
	s := &Service{
		channels: []domain.Notifier{newLogNotifier(log)},
	}
	if out != nil {
		s.channels = append(s.channels, NewConsoleNotifier(out))
	}
	return s
}

var _ domain.Notifier = (*Service)(nil)

func (s *Service) AuthRequired(ctx context.Context, message string) {
	for _, c := range s.channels {
		c.AuthRequired(ctx, message)
	}
}

func (s *Service) Error(ctx context.Context, message string) {
	for _, c := range s.channels {
		c.Error(ctx, message)
	}
}

type logNotifier struct {
	log zerolog.Logger
}

func newLogNotifier(log zerolog.Logger) *logNotifier {
	return &logNotifier{log: log.With().Str("module", "notification").Logger()}
}

func (n *logNotifier) AuthRequired(_ context.Context, message string) {
	n.log.Warn().Str("type", "auth").Msg(message)
}

func (n *logNotifier) Error(_ context.Context, message string) {
	n.log.Error().Str("type", "error").Msg(message)
}
