package config

import "time"

type NovaPoshta struct {
	APIURL  string        `env:"NP_API_URL" envDefault:"https://api.novaposhta.ua/v2.0/json/"`
	Timeout time.Duration `env:"NP_TIMEOUT" envDefault:"10s"`

	APIKey1     string `env:"NP_API_KEY_1" json:"-"`
	SenderName1 string `env:"NP_SENDER_NAME_1"`
	APIKey2     string `env:"NP_API_KEY_2" json:"-"`
	SenderName2 string `env:"NP_SENDER_NAME_2"`
}

type CourierAccount struct {
	ID         string
	APIKey     string
	SenderName string
}

// Accounts возвращает аккаунты в порядке приоритета проверки ТТН.
func (n NovaPoshta) Accounts() []CourierAccount {
	return []CourierAccount{
		{ID: "1", APIKey: n.APIKey1, SenderName: n.SenderName1},
		{ID: "2", APIKey: n.APIKey2, SenderName: n.SenderName2},
	}
}
