package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/r-lysenko/excursion_bot/internal/config"
	"github.com/r-lysenko/excursion_bot/internal/model"
	"github.com/r-lysenko/excursion_bot/internal/service"
	"go.uber.org/zap"
)

// Кнопки шага подтверждения. Любой другой ввод на этом шаге означает отмену.
const (
	ButtonConfirm = "✅ Подтвердить"
	ButtonCancel  = "❌ Отмена"
)

const displayDateLayout = "02.01.2006"

// CalendarGuard доступ к календарю заявок: проверка доступности даты,
// детали конфликта и атомарная вставка
type CalendarGuard interface {
	IsDateAvailable(ctx context.Context, date time.Time) (bool, error)
	BookingForDate(ctx context.Context, date time.Time) (*model.Booking, error)
	CreateBooking(ctx context.Context, booking *model.Booking) error
	BookedDates(ctx context.Context) ([]time.Time, error)
}

// Reply ответ диалога на одну реплику пользователя
type Reply struct {
	Text string
	Step Step // шаг после обработки; StepNone — диалог завершён
}

// Flow пошаговый диалог оформления заявки. Каждая реплика либо
// отклоняется с подсказкой (шаг не меняется), либо принимается, и диалог
// переходит к следующему шагу.
type Flow struct {
	sessions *Store
	calendar CalendarGuard
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewFlow(calendar CalendarGuard, cfg *config.Config, logger *zap.Logger) *Flow {
	return &Flow{
		sessions: NewStore(),
		calendar: calendar,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Start начинает новый диалог, отбрасывая незавершённый, если он был
func (f *Flow) Start(userID int64, username, firstName string) Reply {
	f.sessions.Start(userID, username)

	f.logger.Info("Booking dialog started",
		zap.Int64("telegram_id", userID))

	return Reply{
		Text: fmt.Sprintf(
			"Здравствуйте, %s! 👋\n"+
				"Этот бот поможет забронировать экскурсию для школьников.\n\n"+
				"Пожалуйста, укажите полное название вашего учебного заведения, включая номер корпуса и фактический адрес:",
			firstName),
		Step: StepInstitution,
	}
}

// Active проверяет, идёт ли у пользователя диалог
func (f *Flow) Active(userID int64) bool {
	return f.sessions.Active(userID)
}

// Cancel прерывает диалог. Возвращает false, если диалога не было.
func (f *Flow) Cancel(userID int64) (Reply, bool) {
	if !f.sessions.Active(userID) {
		return Reply{}, false
	}

	f.sessions.Clear(userID)

	f.logger.Info("Booking dialog canceled",
		zap.Int64("telegram_id", userID))

	return Reply{
		Text: "Диалог отменен. Если хотите начать заново, используйте команду /start",
		Step: StepNone,
	}, true
}

// Handle обрабатывает одну реплику активного диалога.
// Возвращает false, если диалога нет.
func (f *Flow) Handle(ctx context.Context, userID int64, text string) (Reply, bool) {
	session, ok := f.sessions.Get(userID)
	if !ok {
		return Reply{}, false
	}

	// Реплики одного пользователя обрабатываются строго по одной
	session.mu.Lock()
	defer session.mu.Unlock()

	// Пока реплика ждала очередь, диалог могли завершить или начать заново
	if current, ok := f.sessions.Get(userID); !ok || current != session {
		return Reply{}, false
	}

	f.logger.Info("Handling dialog step",
		zap.Int64("telegram_id", userID),
		zap.String("step", string(session.Step)))

	switch session.Step {
	case StepInstitution:
		return f.handleInstitution(session, text), true
	case StepClassLabel:
		return f.handleClassLabel(session, text), true
	case StepProfile:
		return f.handleProfile(ctx, session, text), true
	case StepDate:
		return f.handleDate(ctx, session, text), true
	case StepTime:
		return f.handleTime(session, text), true
	case StepContactPerson:
		return f.handleContactPerson(session, text), true
	case StepContactPhone:
		return f.handleContactPhone(session, text), true
	case StepParticipants:
		return f.handleParticipants(session, text), true
	case StepConfirmation:
		return f.handleConfirmation(ctx, session, text), true
	default:
		f.logger.Warn("Unknown dialog step",
			zap.Int64("telegram_id", userID),
			zap.String("step", string(session.Step)))
		f.sessions.Clear(userID)
		return Reply{
			Text: "⚠️ Произошла непредвиденная ошибка. Начните заново с /start",
			Step: StepNone,
		}, true
	}
}

func (f *Flow) handleInstitution(s *Session, text string) Reply {
	name := strings.TrimSpace(text)

	if !ValidSchoolName(name) {
		return Reply{
			Text: "Пожалуйста, введите полное название учебного заведения, включая номер корпуса и фактический адрес (минимум 3 символа):",
			Step: StepInstitution,
		}
	}

	s.Draft.SchoolName = name
	s.Step = StepClassLabel

	return Reply{
		Text: "Отлично! Теперь укажите класс (например, '10А' или '8'):",
		Step: StepClassLabel,
	}
}

func (f *Flow) handleClassLabel(s *Session, text string) Reply {
	class := strings.TrimSpace(text)

	if !ValidClassNumber(class) {
		return Reply{
			Text: "Пожалуйста, введите корректный класс (например, '10А', '8Б' или '11'):",
			Step: StepClassLabel,
		}
	}

	s.Draft.ClassNumber = class
	s.Step = StepProfile

	return Reply{
		Text: "Укажите профильное направление класса:\n" +
			"Если профиля нет, напишите 'нет' или 'общеобразовательный'",
		Step: StepProfile,
	}
}

func (f *Flow) handleProfile(ctx context.Context, s *Session, text string) Reply {
	// Профиль — свободный текст, отклонений нет
	s.Draft.ClassProfile = strings.TrimSpace(text)
	s.Draft.profileSet = true
	s.Step = StepDate

	bookedDatesStr := "Нет занятых дат"
	dates, err := f.calendar.BookedDates(ctx)
	if err != nil {
		// Подсказка информационная, без неё можно обойтись
		f.logger.Error("Failed to load booked dates",
			zap.Int64("telegram_id", s.UserID),
			zap.Error(err))
	} else if len(dates) > 0 {
		if len(dates) > 5 {
			dates = dates[:5]
		}
		formatted := make([]string, 0, len(dates))
		for _, d := range dates {
			formatted = append(formatted, d.Format(displayDateLayout))
		}
		bookedDatesStr = strings.Join(formatted, "\n")
	}

	return Reply{
		Text: fmt.Sprintf(
			"Профиль сохранен!\n\n"+
				"📅 Теперь выберите дату экскурсии:\n"+
				"• Введите дату в формате ДД.ММ.ГГГГ (например, 25.12.2024)\n"+
				"• Экскурсии проводятся только в эти дни: %s\n"+
				"• В один день может быть только одна экскурсия\n\n"+
				"📌 Ближайшие занятые даты:\n%s",
			f.workingDaysLabel(), bookedDatesStr),
		Step: StepDate,
	}
}

func (f *Flow) handleDate(ctx context.Context, s *Session, text string) Reply {
	date, err := ParseExcursionDate(text)
	if err != nil {
		return Reply{
			Text: "❌ Неверный формат даты!\n" +
				"Пожалуйста, введите дату в формате ДД.ММ.ГГГГ (например, 25.12.2024):",
			Step: StepDate,
		}
	}

	if date.Before(f.today()) {
		return Reply{
			Text: "❌ Нельзя выбрать прошедшую дату.",
			Step: StepDate,
		}
	}

	if !f.cfg.IsWorkingDay(date.Weekday()) {
		return Reply{
			Text: fmt.Sprintf("❌ Экскурсии проводятся только в эти дни: %s. Выберите другой день.",
				f.workingDaysLabel()),
			Step: StepDate,
		}
	}

	available, err := f.calendar.IsDateAvailable(ctx, date)
	if err != nil {
		// Сбой чтения: шаг сохраняется, пользователь может повторить ввод
		f.logger.Error("Failed to check date availability",
			zap.Int64("telegram_id", s.UserID),
			zap.Time("date", date),
			zap.Error(err))
		return Reply{
			Text: "⚠️ Не удалось проверить доступность даты. Попробуйте ещё раз:",
			Step: StepDate,
		}
	}

	if !available {
		return Reply{
			Text: f.dateTakenMessage(ctx, date),
			Step: StepDate,
		}
	}

	s.Draft.ExcursionDate = date
	s.Step = StepTime

	return Reply{
		Text: fmt.Sprintf(
			"✅ Дата %s доступна!\n\n"+
				"⏰ Введите время начала экскурсии:\n"+
				"• Формат: ЧЧ:ММ (например, 10:00)\n"+
				"• Время с %d:00 до %d:00",
			date.Format(displayDateLayout), f.cfg.WorkingHoursStart, f.cfg.WorkingHoursEnd),
		Step: StepTime,
	}
}

// dateTakenMessage сообщение о занятой дате с деталями существующей
// заявки, если их удалось получить
func (f *Flow) dateTakenMessage(ctx context.Context, date time.Time) string {
	existing, err := f.calendar.BookingForDate(ctx, date)
	if err != nil {
		f.logger.Error("Failed to load conflicting booking",
			zap.Time("date", date),
			zap.Error(err))
	}

	if existing == nil {
		return fmt.Sprintf(
			"❌ Дата %s уже занята.\n"+
				"📌 В один день может быть только одна экскурсия.\n"+
				"Пожалуйста, введите другую дату:",
			date.Format(displayDateLayout))
	}

	return fmt.Sprintf(
		"❌ Дата %s уже занята!\n\n"+
			"На эту дату уже запланирована экскурсия:\n"+
			"• Школа: %s\n"+
			"• Класс: %s\n"+
			"• Время: %s\n"+
			"• Контакт: %s\n"+
			"• Участников: %d\n\n"+
			"📌 В один день может быть только одна экскурсия.\n"+
			"Пожалуйста, введите другую дату:",
		date.Format(displayDateLayout),
		existing.SchoolName,
		existing.ClassNumber,
		existing.ExcursionTime,
		existing.ContactPerson,
		existing.ParticipantsCount)
}

func (f *Flow) handleTime(s *Session, text string) Reply {
	timeStr := strings.TrimSpace(text)

	hour, err := ParseExcursionTime(timeStr)
	if err != nil {
		return Reply{
			Text: "❌ Неверный формат времени!\n" +
				"Пожалуйста, введите время в формате ЧЧ:ММ (например, 10:00):",
			Step: StepTime,
		}
	}

	if hour < f.cfg.WorkingHoursStart || hour > f.cfg.WorkingHoursEnd {
		return Reply{
			Text: fmt.Sprintf("❌ Время должно быть с %d:00 до %d:00.\nПожалуйста, введите другое время:",
				f.cfg.WorkingHoursStart, f.cfg.WorkingHoursEnd),
			Step: StepTime,
		}
	}

	s.Draft.ExcursionTime = timeStr
	s.Step = StepContactPerson

	return Reply{
		Text: "Отлично! Теперь укажите ФИО сопровождающего лица:",
		Step: StepContactPerson,
	}
}

func (f *Flow) handleContactPerson(s *Session, text string) Reply {
	person := strings.TrimSpace(text)

	if !ValidContactPerson(person) {
		return Reply{
			Text: "Пожалуйста, введите Фамилию и Имя (например, 'Иванов Иван'):",
			Step: StepContactPerson,
		}
	}

	s.Draft.ContactPerson = person
	s.Step = StepContactPhone

	return Reply{
		Text: "Укажите контактный телефон для связи (в формате +7XXXXXXXXXX или 8XXXXXXXXXX):",
		Step: StepContactPhone,
	}
}

func (f *Flow) handleContactPhone(s *Session, text string) Reply {
	phone, ok := NormalizePhone(text)
	if !ok {
		return Reply{
			Text: "❌ Неверный формат телефона!\n" +
				"Пожалуйста, введите номер в формате +7XXXXXXXXXX или 8XXXXXXXXXX:",
			Step: StepContactPhone,
		}
	}

	s.Draft.ContactPhone = phone
	s.Step = StepParticipants

	return Reply{
		Text: fmt.Sprintf(
			"Сколько всего участников планируется на экскурсии (школьники плюс не более 2 сопровождающих)?\n"+
				"Введите число от %d до %d:", MinParticipants, MaxParticipants),
		Step: StepParticipants,
	}
}

func (f *Flow) handleParticipants(s *Session, text string) Reply {
	participants, ok := ParseParticipants(text)
	if !ok {
		return Reply{
			Text: fmt.Sprintf("Пожалуйста, введите число от %d до %d:", MinParticipants, MaxParticipants),
			Step: StepParticipants,
		}
	}

	s.Draft.Participants = participants
	s.Step = StepConfirmation

	// Сводка — только отображение накопленных полей, без новой валидации
	summary := fmt.Sprintf(
		"📋 Сводка вашей заявки:\n\n"+
			"🏫 Учебное заведение: %s\n"+
			"👨‍🎓 Класс: %s\n"+
			"📚 Профиль: %s\n"+
			"📅 Дата экскурсии: %s\n"+
			"⏰ Время: %s\n"+
			"👤 Сопровождающий: %s\n"+
			"📞 Телефон: %s\n"+
			"👥 Количество участников: %d\n\n"+
			"Всё верно?",
		s.Draft.SchoolName,
		s.Draft.ClassNumber,
		s.Draft.ClassProfile,
		s.Draft.ExcursionDate.Format(displayDateLayout),
		s.Draft.ExcursionTime,
		s.Draft.ContactPerson,
		s.Draft.ContactPhone,
		s.Draft.Participants)

	return Reply{
		Text: summary,
		Step: StepConfirmation,
	}
}

// handleConfirmation завершает диалог. Любой ввод, кроме кнопки
// подтверждения, трактуется как отмена — повторного вопроса нет.
// Сессия сбрасывается на любом исходе.
func (f *Flow) handleConfirmation(ctx context.Context, s *Session, text string) Reply {
	if text != ButtonConfirm {
		f.sessions.Clear(s.UserID)
		return Reply{
			Text: "❌ Заявка отменена.\nЕсли хотите начать заново, используйте команду /start",
			Step: StepNone,
		}
	}

	return f.commit(ctx, s)
}

func (f *Flow) commit(ctx context.Context, s *Session) Reply {
	defer f.sessions.Clear(s.UserID)

	if err := s.Draft.complete(); err != nil {
		f.logger.Error("Session is missing required fields at commit",
			zap.Int64("telegram_id", s.UserID))
		return Reply{
			Text: "❌ Не все данные заполнены. Пожалуйста, начните заново с /start",
			Step: StepNone,
		}
	}

	// Повторная проверка: между выбором даты и подтверждением её мог
	// занять другой пользователь
	available, err := f.calendar.IsDateAvailable(ctx, s.Draft.ExcursionDate)
	if err != nil {
		return Reply{
			Text: "⚠️ Произошла ошибка при сохранении данных. Попробуйте позже.",
			Step: StepNone,
		}
	}

	if !available {
		return Reply{
			Text: f.dateJustTakenMessage(ctx, s.Draft.ExcursionDate),
			Step: StepNone,
		}
	}

	booking := &model.Booking{
		UserID:            s.UserID,
		Username:          s.Username,
		SchoolName:        s.Draft.SchoolName,
		ClassNumber:       s.Draft.ClassNumber,
		ClassProfile:      s.Draft.ClassProfile,
		ExcursionDate:     s.Draft.ExcursionDate,
		ExcursionTime:     s.Draft.ExcursionTime,
		ContactPerson:     s.Draft.ContactPerson,
		ContactPhone:      s.Draft.ContactPhone,
		ParticipantsCount: s.Draft.Participants,
	}

	err = f.calendar.CreateBooking(ctx, booking)
	if err != nil {
		// Проверка выше не спасает от гонки двух одновременных
		// подтверждений — проигравший узнаёт о конфликте от хранилища
		if errors.Is(err, service.ErrDateTaken) {
			return Reply{
				Text: f.dateJustTakenMessage(ctx, s.Draft.ExcursionDate),
				Step: StepNone,
			}
		}

		f.logger.Error("Failed to save booking",
			zap.Int64("telegram_id", s.UserID),
			zap.Time("date", s.Draft.ExcursionDate),
			zap.Error(err))
		return Reply{
			Text: "❌ Извините, произошла ошибка при сохранении!\n\n" +
				"Пожалуйста, начните процесс заново с /start",
			Step: StepNone,
		}
	}

	return Reply{
		Text: fmt.Sprintf(
			"🎉 Поздравляем! Ваша заявка успешно оформлена!\n\n"+
				"📅 Дата: %s\n"+
				"⏰ Время: %s\n\n"+
				"📞 С вами свяжется наш сотрудник для подтверждения деталей.\n"+
				"Чтобы создать новую заявку, нажмите /start",
			booking.ExcursionDate.Format(displayDateLayout),
			booking.ExcursionTime),
		Step: StepNone,
	}
}

func (f *Flow) dateJustTakenMessage(ctx context.Context, date time.Time) string {
	existing, err := f.calendar.BookingForDate(ctx, date)
	if err != nil {
		f.logger.Error("Failed to load conflicting booking",
			zap.Time("date", date),
			zap.Error(err))
	}

	msg := fmt.Sprintf(
		"❌ Извините, эта дата только что занята!\n\n"+
			"Дата %s теперь недоступна.\n", date.Format(displayDateLayout))

	if existing != nil {
		msg += fmt.Sprintf(
			"На неё уже запланирована экскурсия:\n"+
				"• Школа: %s\n"+
				"• Класс: %s\n"+
				"• Время: %s\n\n",
			existing.SchoolName, existing.ClassNumber, existing.ExcursionTime)
	}

	msg += "📌 В один день может быть только одна экскурсия.\n" +
		"Пожалуйста, начните процесс заново с /start и выберите другую дату."
	return msg
}

func (f *Flow) today() time.Time {
	now := f.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

var weekdayShortRu = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

func (f *Flow) workingDaysLabel() string {
	names := make([]string, 0, len(f.cfg.WorkingDays))
	for _, d := range f.cfg.WorkingDays {
		names = append(names, weekdayShortRu[d])
	}
	return strings.Join(names, ", ")
}
