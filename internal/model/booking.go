package model

import "time"

// Booking заявка на экскурсию. На одну дату может существовать только одна
// заявка — уникальность обеспечивается ограничением в БД.
type Booking struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	Username          string    `json:"username"`
	SchoolName        string    `json:"school_name"`
	ClassNumber       string    `json:"class_number"`
	ClassProfile      string    `json:"class_profile"`
	ExcursionDate     time.Time `json:"excursion_date"` // только дата, время отдельно
	ExcursionTime     string    `json:"excursion_time"` // "ЧЧ:ММ"
	ContactPerson     string    `json:"contact_person"`
	ContactPhone      string    `json:"contact_phone"` // нормализован к +7XXXXXXXXXX
	ParticipantsCount int       `json:"participants_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// BookingStats сводная статистика по заявкам
type BookingStats struct {
	Total             int                  `json:"total"`
	Future            int                  `json:"future"`
	TotalParticipants int                  `json:"total_participants"`
	PerWeekday        map[time.Weekday]int `json:"per_weekday"`
}
