// Package middlewarex содержит HTTP middleware вебхук-сервера: trace id,
// логгер в контексте, recovery и дамп запросов/ответов.
package middlewarex

import "amo_checkbox/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
