package lead

import (
	"strings"

	jsoniter "github.com/json-iterator/go"

	"amo_checkbox/internal/infrastructure/amocrm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Кастомные поля AmoCRM ищутся линейным сканом коллекции field values:
// берётся первое значение первого совпавшего поля, отсутствие поля — это
// пустая строка, а не ошибка.

func findFieldValue(fields []amocrm.Field, fieldID int64) string {
	if fieldID == 0 {
		return ""
	}

	for _, field := range fields {
		if field.FieldID != fieldID {
			continue
		}

		if len(field.Values) == 0 {
			return ""
		}

		return field.Values[0].Scalar()
	}

	return ""
}

func findFieldBlock(fields []amocrm.Field, fieldID int64) (amocrm.Field, bool) {
	for _, field := range fields {
		if field.FieldID == fieldID {
			return field, true
		}
	}

	return amocrm.Field{}, false
}

func findFieldValueByCode(fields []amocrm.Field, code string) string {
	for _, field := range fields {
		if !strings.EqualFold(field.FieldCode, code) {
			continue
		}

		if len(field.Values) == 0 {
			return ""
		}

		return field.Values[0].Scalar()
	}

	return ""
}
