package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	// AmoCRM / Нова Пошта.
	UpstreamError    failure.ErrorCode = "UpstreamError"    // любой HTTP-сбой внешнего API
	LeadLoadFailed   failure.ErrorCode = "LeadLoadFailed"   // не удалось прочитать корневую сделку
	NoTrackingNumber failure.ErrorCode = "NoTrackingNumber" // в сделке нет ТТН
	ProfileNotFound  failure.ErrorCode = "ProfileNotFound"  // ТТН не относится ни к одному аккаунту
	NoSellableGoods  failure.ErrorCode = "NoSellableGoods"  // нет позиций или нулевой итог

	// Checkbox.
	FiscalAuthError   failure.ErrorCode = "FiscalAuthError"
	FiscalShiftError  failure.ErrorCode = "FiscalShiftError"
	FiscalSubmitError failure.ErrorCode = "FiscalSubmitError"
)
