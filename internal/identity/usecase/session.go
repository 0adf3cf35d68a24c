package usecase

import (
	"context"

	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
)

func (s *Usecase) Session(ctx context.Context) (*SessionOutput, error) {
	_, span := s.startSpan(ctx, "Session")
	defer span.End()

	sess, ok := s.sessions.Get()
	if !ok {
		return nil, failure.ErrUnauthorized
	}

	return &SessionOutput{Session: sess}, nil
}

// Logout clears the session. Clearing an empty store is fine.
func (s *Usecase) Logout(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	s.sessions.Clear(ctx)

	return nil
}
