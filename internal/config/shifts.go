package config

// Shifts расписание обслуживания смен: открытие после полуночи и закрытие
// перед фискальной границей суток, по местному времени касс.
type Shifts struct {
	OpenCron  string `env:"SHIFT_OPEN_CRON" envDefault:"1 0 * * *"`
	CloseCron string `env:"SHIFT_CLOSE_CRON" envDefault:"45 23 * * *"`
}

// Window окно, в котором разрешена выдача чеков. Запросы вне окна получают
// мягкий отказ maintenance_window без записи статуса в сделку.
type Window struct {
	Timezone string `env:"RECEIPT_TIMEZONE" envDefault:"Europe/Kiev"`
	OpenAt   string `env:"RECEIPT_WINDOW_OPEN" envDefault:"00:01"`
	CloseAt  string `env:"RECEIPT_WINDOW_CLOSE" envDefault:"23:45"`
}
