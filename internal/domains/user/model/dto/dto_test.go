package dto_test

import (
	"testing"
	"time"

	"sarana/internal/domains/user/model"
	"sarana/internal/domains/user/model/dto"
	"sarana/shared/constant"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestCreateUserRequest_ToModel(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)

	req := dto.CreateUserRequest{
		Email:      "budi@gereja.id",
		FullName:   "Budi",
		Role:       constant.RoleManagement,
		Privileges: []string{constant.ModuleRoom, constant.ModuleRoom, constant.ModuleVehicle},
	}

	user := req.ToModel("mgr-1", "hashed", now)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, pq.StringArray{constant.ModuleRoom, constant.ModuleVehicle}, user.Privileges)
	assert.True(t, user.Active)
	assert.Equal(t, "mgr-1", user.CreatedBy)

	req.AllModules = true
	assert.Nil(t, req.ToModel("mgr-1", "hashed", now).Privileges)
}

func TestUpdateUserRequest_Fields(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)

	assert.True(t, (&dto.UpdateUserRequest{}).Empty())

	privileges := []string{constant.ModuleAsset}
	req := dto.UpdateUserRequest{Privileges: &privileges, Active: boolPtr(false)}

	fields := req.Fields("mgr-1", now)
	assert.Equal(t, pq.StringArray{constant.ModuleAsset}, fields[model.FieldPrivileges])
	assert.Equal(t, false, fields[model.FieldActive])
	assert.NotContains(t, fields, model.FieldRole)
	assert.Equal(t, now, fields[constant.FieldModifiedAt])

	req.AllModules = boolPtr(true)
	assert.Equal(t, pq.StringArray(nil), req.Fields("mgr-1", now)[model.FieldPrivileges])
}

func TestUserResponse_FromModel(t *testing.T) {
	login := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)

	var res dto.UserResponse
	res.FromModel(model.User{ID: "u-1", Role: constant.RoleManagement, LastLogin: &login})

	assert.True(t, res.AllModules)
	assert.Equal(t, []string{}, res.Privileges)
	assert.Equal(t, "2025-03-09T10:00:00Z", *res.LastLogin)
}
