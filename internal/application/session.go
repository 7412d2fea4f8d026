package app

import (
	"context"
	"errors"
	"sync"

	"cat-eye-locator/internal/domain/entity"
	"cat-eye-locator/internal/domain/port"
)

// ErrSessionBusy возвращается, если чат прислал фото, пока предыдущее ещё
// обрабатывается.
var ErrSessionBusy = errors.New("session is processing")

type SessionService struct {
	mu   sync.Mutex // сериализует чтение и запись состояния
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) SetState(ctx context.Context, chatID int64, state entity.SessionState) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setState(ctx, chatID, state)
}

func (s *SessionService) setState(ctx context.Context, chatID int64, state entity.SessionState) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	session.SetState(state)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// BeginProcessing переводит чат в обработку или возвращает ErrSessionBusy,
// если он уже в ней.
func (s *SessionService) BeginProcessing(ctx context.Context, chatID int64) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session.State == entity.StateProcessing {
		return nil, ErrSessionBusy
	}

	return s.setState(ctx, chatID, entity.StateProcessing)
}

func (s *SessionService) ShowResult(ctx context.Context, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, chatID, entity.StateResultDisplayed)
}

func (s *SessionService) Reset(ctx context.Context, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, chatID, entity.StateAwaitingUpload)
}
