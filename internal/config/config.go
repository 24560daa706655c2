package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string

	// Правила проведения экскурсий
	WorkingDays       []time.Weekday // дни недели, в которые проводятся экскурсии
	WorkingHoursStart int            // начало рабочего времени, час (включительно)
	WorkingHoursEnd   int            // конец рабочего времени, час (включительно)

	MigrationsPath string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	days, err := parseWorkingDays(os.Getenv("WORKING_DAYS"))
	if err != nil {
		return nil, err
	}
	cfg.WorkingDays = days

	cfg.WorkingHoursStart, err = parseHour(os.Getenv("WORKING_HOURS_START"), 10)
	if err != nil {
		return nil, fmt.Errorf("WORKING_HOURS_START: %w", err)
	}
	cfg.WorkingHoursEnd, err = parseHour(os.Getenv("WORKING_HOURS_END"), 15)
	if err != nil {
		return nil, fmt.Errorf("WORKING_HOURS_END: %w", err)
	}
	if cfg.WorkingHoursEnd < cfg.WorkingHoursStart {
		return nil, fmt.Errorf("WORKING_HOURS_END must not be before WORKING_HOURS_START")
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// IsWorkingDay проверяет, проводятся ли экскурсии в этот день недели
func (c *Config) IsWorkingDay(d time.Weekday) bool {
	for _, wd := range c.WorkingDays {
		if wd == d {
			return true
		}
	}
	return false
}

// parseWorkingDays разбирает список дней недели вида "2,3,4"
// (нумерация time.Weekday: 0=воскресенье). По умолчанию вторник-четверг.
func parseWorkingDays(raw string) ([]time.Weekday, error) {
	if raw == "" {
		return []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday}, nil
	}

	var days []time.Weekday
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("WORKING_DAYS: invalid weekday %q", part)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

func parseHour(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	h, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour %q", raw)
	}
	return h, nil
}
