// Package httpx содержит round tripper'ы для исходящих HTTP-клиентов:
// логирование обменов с маскированием секретов и bearer-авторизацию
// с повторной аутентификацией на 401.
package httpx

import "amo_checkbox/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
