package httpx

import "context"

// StaticTokenAuthenticator авторизация долгоживущим токеном, выданным
// заранее (интеграции AmoCRM). Повторная аутентификация невозможна и
// не нужна.
type StaticTokenAuthenticator struct {
	token string
}

func NewStaticTokenAuthenticator(token string) StaticTokenAuthenticator {
	return StaticTokenAuthenticator{token: token}
}

func (a StaticTokenAuthenticator) Authenticate(context.Context) error {
	return nil
}

func (a StaticTokenAuthenticator) BearerToken() string {
	return a.token
}
