package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const (
	LocaleID = "id"
	LocaleEN = "en"
)

var (
	messages = map[string]map[string]string{
		LocaleEN: {
			"required":    "{field} is required",
			"gte":         "{field} must be greater than or equal to {param}",
			"lte":         "{field} must be less than or equal to {param}",
			"gt":          "{field} must be greater than {param}",
			"oneof":       "{field} must be one of {param}",
			"max":         "{field} must be less than or equal to {param}",
			"min":         "{field} must be greater than or equal to {param}",
			"email":       "{field} must be a valid email address",
			"uuid":        "{field} must be a valid id",
			"rfc3339":     "{field} must be an RFC3339 timestamp",
			"mimetypes":   "{field} must be one of {param}",
			"maxfilesize": "{field} must not exceed {param} MB",
		},
		LocaleID: {
			"required":    "{field} wajib diisi!",
			"gte":         "{field} harus lebih besar atau sama dengan {param}",
			"lte":         "{field} harus lebih kecil atau sama dengan {param}",
			"gt":          "{field} harus lebih besar dari {param}",
			"oneof":       "{field} harus salah satu dari {param}",
			"max":         "{field} maksimal {param}",
			"min":         "{field} minimal {param}",
			"email":       "{field} harus berupa alamat email yang valid",
			"uuid":        "{field} tidak valid",
			"rfc3339":     "{field} harus berformat waktu RFC3339",
			"mimetypes":   "{field} harus bertipe {param}",
			"maxfilesize": "{field} tidak boleh lebih dari {param} MB",
		},
	}
)

// violation is the first failing rule rendered in the active locale.
type violation struct {
	field   string
	message string
}

func translate(locale string, err error) violation {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return violation{message: err.Error()}
	}

	table, ok := messages[locale]
	if !ok {
		table = messages[LocaleEN]
	}

	for _, valErr := range valErrors {
		field := valErr.Field()

		errStr := table[valErr.Tag()]
		if errStr == "" {
			continue
		}

		errStr = strings.ReplaceAll(errStr, "{field}", field)
		errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())

		return violation{field: field, message: errStr}
	}

	if len(valErrors) > 0 {
		return violation{field: valErrors[0].Field(), message: valErrors.Error()}
	}

	return violation{message: valErrors.Error()}
}
