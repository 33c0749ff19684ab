package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config неизменяемая конфигурация процесса. Загружается один раз на старте
// и передаётся в конструкторы, бизнес-логика не читает окружение напрямую.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	AmoCRM     AmoCRM
	Checkbox   Checkbox
	NovaPoshta NovaPoshta
	Telegram   Telegram
	Server     Server
	Redis      Redis
	Shifts     Shifts
	Window     Window
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
