// Package report отдаёт заявки внешним потребителям в табличном виде.
// Ядро бота про оформление таблиц ничего не знает: админ-обработчик
// зависит только от интерфейса Exporter.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/r-lysenko/excursion_bot/internal/model"
)

// File готовый к отправке экспорт
type File struct {
	Name string
	Data []byte
}

// Exporter превращает список заявок в файл
type Exporter interface {
	Export(bookings []*model.Booking) (*File, error)
}

// CSVExporter экспорт в CSV. Колонки повторяют поля заявки.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

var csvHeader = []string{
	"ID", "Дата брони", "ID пользователя", "Username", "Школа", "Класс",
	"Профиль", "Дата экскурсии", "Время", "Сопровождающий", "Телефон", "Количество",
}

func (e *CSVExporter) Export(bookings []*model.Booking) (*File, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, b := range bookings {
		record := []string{
			strconv.FormatInt(b.ID, 10),
			b.CreatedAt.Format("02.01.2006 15:04"),
			strconv.FormatInt(b.UserID, 10),
			b.Username,
			b.SchoolName,
			b.ClassNumber,
			b.ClassProfile,
			b.ExcursionDate.Format("02.01.2006"),
			b.ExcursionTime,
			b.ContactPerson,
			b.ContactPhone,
			strconv.Itoa(b.ParticipantsCount),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &File{
		Name: fmt.Sprintf("bookings_export_%s.csv", time.Now().Format("20060102_150405")),
		Data: buf.Bytes(),
	}, nil
}
