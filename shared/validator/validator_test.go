package validator_test

import (
	"strings"
	"testing"

	"sarana/shared/failure"
	"sarana/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomRequest struct {
	Name      string `json:"name"       validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Capacity  int    `json:"capacity"   validate:"gte=0,lte=500"`
	Kind      string `json:"kind"       validate:"oneof=asset room vehicle"`
	StartTime string `json:"start_time" validate:"omitempty,rfc3339"`
}

func validRoom() roomRequest {
	return roomRequest{
		Name:     "Aula Utama",
		Email:    "sekretariat@example.com",
		Capacity: 120,
		Kind:     "room",
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *roomRequest)
		wantErr   bool
		wantField string
	}{
		{name: "valid struct", mutate: func(*roomRequest) {}},
		{name: "missing required field", mutate: func(r *roomRequest) { r.Name = "" }, wantErr: true, wantField: "name"},
		{name: "invalid email", mutate: func(r *roomRequest) { r.Email = "invalid-email" }, wantErr: true, wantField: "email"},
		{name: "capacity out of range", mutate: func(r *roomRequest) { r.Capacity = 900 }, wantErr: true, wantField: "capacity"},
		{name: "negative capacity", mutate: func(r *roomRequest) { r.Capacity = -1 }, wantErr: true, wantField: "capacity"},
		{name: "invalid kind", mutate: func(r *roomRequest) { r.Kind = "chapel" }, wantErr: true, wantField: "kind"},
		{name: "valid rfc3339", mutate: func(r *roomRequest) { r.StartTime = "2025-03-10T10:00:00+07:00" }},
		{name: "invalid rfc3339", mutate: func(r *roomRequest) { r.StartTime = "10/03/2025 10:00" }, wantErr: true, wantField: "start_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validRoom()
			tt.mutate(&data)

			err := validator.ValidateStruct(&data)
			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			var f *failure.Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, failure.KindValidation, f.Kind)
			assert.Equal(t, tt.wantField, f.Field)
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", wantErr: true},
		{name: "valid email", field: "test@example.com", tag: "email"},
		{name: "invalid email", field: "invalid-email", tag: "email", wantErr: true},
		{name: "number in range", field: 25, tag: "gte=0,lte=100"},
		{name: "number out of range", field: 150, tag: "gte=0,lte=100", wantErr: true},
		{name: "valid oneof", field: "management", tag: "oneof=management member"},
		{name: "invalid oneof", field: "guest", tag: "oneof=management member", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		jsonBody string
		wantErr  bool
		wantKind failure.Kind
	}{
		{
			name:     "valid JSON",
			jsonBody: `{"name":"Aula","email":"a@example.com","capacity":10,"kind":"room"}`,
		},
		{
			name:     "rule violation",
			jsonBody: `{"name":"Aula","email":"invalid-email","capacity":10,"kind":"room"}`,
			wantErr:  true,
			wantKind: failure.KindValidation,
		},
		{
			name:     "malformed JSON",
			jsonBody: `{"name":"Aula","email":}`,
			wantErr:  true,
			wantKind: failure.KindBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data roomRequest

			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)
			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, failure.GetKind(err))
		})
	}
}

func TestDecodeSkipsRules(t *testing.T) {
	var data roomRequest

	err := validator.Decode(strings.NewReader(`{"kind":"chapel"}`), &data)

	require.NoError(t, err)
	assert.Equal(t, "chapel", data.Kind)
}

func TestLocalizedMessages(t *testing.T) {
	t.Cleanup(func() { validator.SetLocale(validator.LocaleID) })

	data := validRoom()
	data.Name = ""

	validator.SetLocale(validator.LocaleID)
	err := validator.ValidateStruct(&data)
	require.Error(t, err)
	assert.Equal(t, "name wajib diisi!", err.Error())

	validator.SetLocale(validator.LocaleEN)
	err = validator.ValidateStruct(&data)
	require.Error(t, err)
	assert.Equal(t, "name is required", err.Error())

	validator.SetLocale("fr")
	err = validator.ValidateStruct(&data)
	require.Error(t, err)
	assert.Equal(t, "name is required", err.Error())
}
