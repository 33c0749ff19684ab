package config

// Redis нужен только планировщику смен (asynq). Пустой адрес отключает
// планировщик, вебхук при этом продолжает работать.
type Redis struct {
	Address        string `env:"REDIS_ADDRESS"`
	Username       string `env:"REDIS_USERNAME"`
	Password       string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber int    `env:"REDIS_DB" envDefault:"0"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}
