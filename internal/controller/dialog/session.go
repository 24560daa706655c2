package dialog

import (
	"errors"
	"sync"
	"time"
)

// Step шаг диалога бронирования
type Step string

const (
	StepNone          Step = "" // нет активного диалога
	StepInstitution   Step = "institution"
	StepClassLabel    Step = "class_label"
	StepProfile       Step = "profile"
	StepDate          Step = "date"
	StepTime          Step = "time"
	StepContactPerson Step = "contact_person"
	StepContactPhone  Step = "contact_phone"
	StepParticipants  Step = "participants"
	StepConfirmation  Step = "confirmation"
)

// Draft накопленные поля заявки. Поля заполняются по одному, уже
// провалидированными и нормализованными.
type Draft struct {
	SchoolName    string
	ClassNumber   string
	ClassProfile  string
	ExcursionDate time.Time
	ExcursionTime string
	ContactPerson string
	ContactPhone  string
	Participants  int

	profileSet bool // профиль — свободный текст, пустым он быть не может, но отмечаем явно
}

var errDraftIncomplete = errors.New("draft is missing required fields")

// complete проверяет, что все обязательные поля на месте. Защита от
// сессии, повреждённой внешним сбросом состояния: при нормальной работе
// шаги не пропускаются и проверка всегда проходит.
func (d *Draft) complete() error {
	switch {
	case d.SchoolName == "",
		d.ClassNumber == "",
		!d.profileSet,
		d.ExcursionDate.IsZero(),
		d.ExcursionTime == "",
		d.ContactPerson == "",
		d.ContactPhone == "",
		d.Participants == 0:
		return errDraftIncomplete
	}
	return nil
}

// Session активный диалог одного пользователя. Сессия принадлежит ровно
// одному диалогу, живёт только в памяти и теряется при перезапуске.
// Step и Draft меняются только под mu: транспорт обрабатывает каждое
// сообщение в отдельной горутине, и без блокировки два быстрых сообщения
// одного пользователя гонялись бы за полями сессии.
type Session struct {
	mu sync.Mutex

	UserID   int64
	Username string
	Step     Step
	Draft    Draft
}

// Store хранит активные сессии по Telegram ID пользователя
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*Session),
	}
}

// Start создаёт новую сессию, отбрасывая незавершённую, если она была
func (s *Store) Start(userID int64, username string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &Session{
		UserID:   userID,
		Username: username,
		Step:     StepInstitution,
	}
	s.sessions[userID] = session
	return session
}

// Get возвращает активную сессию пользователя
func (s *Store) Get(userID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	return session, ok
}

// Clear удаляет сессию пользователя
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

// Active проверяет, есть ли у пользователя активная сессия
func (s *Store) Active(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[userID]
	return ok
}
