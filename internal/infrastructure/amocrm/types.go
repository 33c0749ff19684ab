package amocrm

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

// Scalar значение произвольного JSON-типа, приводимое к строке. Числа
// сохраняют исходную десятичную запись, чтобы деньги не проходили через
// float64.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &str); err != nil {
			return err //nolint:wrapcheck
		}

		*s = Scalar(str)

		return nil
	}

	*s = Scalar(data)

	return nil
}

func (s Scalar) String() string {
	return string(s)
}

// FieldValue одно значение кастомного поля. Для скалярных полей Value
// декодируется через Scalar, для структурного блока позиций — в
// PurchaseItem.
type FieldValue struct {
	Value jsoniter.RawMessage `json:"value"`
}

func (v FieldValue) Scalar() string {
	var s Scalar
	if err := s.UnmarshalJSON(v.Value); err != nil {
		return ""
	}

	return s.String()
}

// Field кастомное поле сущности AmoCRM.
type Field struct {
	FieldID   int64        `json:"field_id"`
	FieldCode string       `json:"field_code"`
	Values    []FieldValue `json:"values"`
}

// PurchaseItem запись структурного блока "состав покупки" элемента каталога.
type PurchaseItem struct {
	Description Scalar `json:"description"`
	UnitPrice   Scalar `json:"unit_price"`
	Quantity    Scalar `json:"quantity"`
}

type EntityRef struct {
	ID int64 `json:"id"`
}

type Embedded struct {
	Contacts []EntityRef `json:"contacts"`
	Links    []Link      `json:"links"`
}

type Lead struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	CustomFieldsValues []Field   `json:"custom_fields_values"`
	Embedded           *Embedded `json:"_embedded"`
}

type Contact struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	CustomFieldsValues []Field `json:"custom_fields_values"`
}

// Link связь сделки с другой сущностью, для нас интересны только ссылки
// на элементы каталога покупок.
type Link struct {
	ToEntityID   int64   `json:"to_entity_id"`
	ToEntityType string  `json:"to_entity_type"`
	ToCatalogID  int64   `json:"to_catalog_id"`
	Quantity     float64 `json:"quantity"`
}

type CatalogElement struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	CustomFieldsValues []Field `json:"custom_fields_values"`
}

const EntityTypeCatalogElements = "catalog_elements"

type linksResponse struct {
	Embedded struct {
		Links []Link `json:"links"`
	} `json:"_embedded"`
}

type errorResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}
