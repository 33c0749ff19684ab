package config

import "time"

type Checkbox struct {
	APIBase string        `env:"CHECKBOX_API_BASE" envDefault:"https://api.checkbox.in.ua/api/v1"`
	Timeout time.Duration `env:"CHECKBOX_TIMEOUT" envDefault:"5s"`

	// Профиль 1 обязателен, профиль 2 опционален. Профиль считается
	// рабочим только при заполненных логине, пароле и ключе лицензии.
	CashierLogin     string `env:"CHECKBOX_CASHIER_LOGIN,required"`
	CashierPassword  string `env:"CHECKBOX_CASHIER_PASSWORD,required" json:"-"`
	LicenseKey       string `env:"CHECKBOX_LICENSE_KEY,required" json:"-"`
	CashierLogin2    string `env:"CHECKBOX_CASHIER_LOGIN_2"`
	CashierPassword2 string `env:"CHECKBOX_CASHIER_PASSWORD_2" json:"-"`
	LicenseKey2      string `env:"CHECKBOX_LICENSE_KEY_2" json:"-"`

	SendEmail     bool   `env:"CHECKBOX_SEND_EMAIL" envDefault:"true"`
	PaymentType   string `env:"CHECKBOX_PAYMENT_TYPE" envDefault:"CASHLESS"`
	ClientName    string `env:"CHECKBOX_CLIENT_NAME" envDefault:"amo-checkbox"`
	ClientVersion string `env:"CHECKBOX_CLIENT_VERSION" envDefault:"1.0.0"`
}

type CashierProfile struct {
	ID         string
	Login      string
	Password   string
	LicenseKey string
}

func (p CashierProfile) Usable() bool {
	return p.Login != "" && p.Password != "" && p.LicenseKey != ""
}

// Profiles возвращает рабочие профили касс в фиксированном порядке "1", "2".
func (c Checkbox) Profiles() []CashierProfile {
	all := []CashierProfile{
		{ID: "1", Login: c.CashierLogin, Password: c.CashierPassword, LicenseKey: c.LicenseKey},
		{ID: "2", Login: c.CashierLogin2, Password: c.CashierPassword2, LicenseKey: c.LicenseKey2},
	}

	profiles := make([]CashierProfile, 0, len(all))

	for _, p := range all {
		if p.Usable() {
			profiles = append(profiles, p)
		}
	}

	return profiles
}
