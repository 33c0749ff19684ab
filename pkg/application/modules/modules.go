// Package modules собирает жизненный цикл процессов приложения: HTTP-сервер
// вебхука, probe- и metrics-серверы, asynq-воркер и планировщик смен.
package modules

import "amo_checkbox/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
