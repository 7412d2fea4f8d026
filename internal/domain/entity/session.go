package entity

// SessionState состояние чата в цикле загрузки
type SessionState string

const (
	StateAwaitingUpload  SessionState = "awaiting_upload"  // ждём фото
	StateProcessing      SessionState = "processing"       // идёт инференс
	StateResultDisplayed SessionState = "result_displayed" // результат отправлен, новое фото начинает цикл заново
)

// Session представляет чат бота
type Session struct {
	ChatID int64
	State  SessionState
}

// NewSession создаёт сессию в ожидании загрузки
func NewSession(chatID int64) *Session {
	return &Session{
		ChatID: chatID,
		State:  StateAwaitingUpload,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}
