package config

import "time"

type Server struct {
	ListenAddress   string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogFieldMaxLen  int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"5000"`

	ProbeAddress   string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8091"`
	MetricsAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":8092"`
}
