package app

import (
	"os"

	"github.com/joho/godotenv"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	// HTTPAddr — адрес REST API.
	HTTPAddr string
	// MetricsAddr — адрес сервера метрик и health-проверок.
	MetricsAddr string
	// PostgresDSN — строка подключения к PostgreSQL. Пустое значение
	// переключает сервис на in-memory хранилище.
	PostgresDSN string
}

// DefaultConfig возвращает базовые адреса сервиса.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
	}
}

// ReadConfig собирает конфигурацию из .env-файла (если он есть)
// и переменных окружения с префиксом NORTHWIND_.
func ReadConfig() Config {
	// .env необязателен: при его отсутствии работаем с окружением как есть.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("NORTHWIND_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("NORTHWIND_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("NORTHWIND_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	return cfg
}
