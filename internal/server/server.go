package server

// Сервер объединяет специфичные HTTP сервера. Сейчас наружу смотрит только
// приём вебхуков AmoCRM плюс health-проба.
type Server struct {
	WebhookServer
}

func NewServer(
	webhookServer WebhookServer,
) Server {
	return Server{
		WebhookServer: webhookServer,
	}
}
