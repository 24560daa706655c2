package dialog

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	SchoolNameMinLength = 3

	MinParticipants = 1
	MaxParticipants = 20
)

var (
	// Класс: цифра 1-9, опционально вторая цифра, опционально одна буква
	classNumberRe = regexp.MustCompile(`^[1-9][0-9]?[А-Яа-яA-Za-z]?$`)

	// Телефон после чистки: +7, 8 или 7 и ровно 10 цифр
	phoneRe = regexp.MustCompile(`^(\+7|8|7)[0-9]{10}$`)
)

// dateLayouts принимаемые форматы даты
var dateLayouts = []string{"02.01.2006", "02/01/2006", "2006-01-02"}

// ValidSchoolName название учебного заведения: минимум 3 символа
func ValidSchoolName(s string) bool {
	return len([]rune(strings.TrimSpace(s))) >= SchoolNameMinLength
}

// ValidClassNumber класс вида "10А", "8Б" или "11"
func ValidClassNumber(s string) bool {
	return classNumberRe.MatchString(s)
}

// ParseExcursionDate разбирает дату в одном из форматов
// ДД.ММ.ГГГГ, ДД/ММ/ГГГГ или ГГГГ-ММ-ДД
func ParseExcursionDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

// ParseExcursionTime разбирает время "ЧЧ:ММ" и возвращает час начала
func ParseExcursionTime(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("unrecognized time format")
	}
	return t.Hour(), nil
}

// ValidContactPerson минимум два слова: фамилия и имя
func ValidContactPerson(s string) bool {
	return len(strings.Fields(s)) >= 2
}

// NormalizePhone чистит номер от пробелов, дефисов и скобок и приводит
// варианты +7/8/7 к единому виду +7XXXXXXXXXX
func NormalizePhone(s string) (string, bool) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(s))

	if !phoneRe.MatchString(cleaned) {
		return "", false
	}

	switch {
	case strings.HasPrefix(cleaned, "8"):
		cleaned = "+7" + cleaned[1:]
	case strings.HasPrefix(cleaned, "7"):
		cleaned = "+" + cleaned
	}

	return cleaned, true
}

// ParseParticipants количество участников в диапазоне [1, 20]
func ParseParticipants(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < MinParticipants || n > MaxParticipants {
		return 0, false
	}
	return n, true
}
