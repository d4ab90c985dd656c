package dto

import (
	"slices"
	"time"

	"sarana/internal/domains/user/model"
	"sarana/shared"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	gModel "sarana/shared/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateUserRequest struct {
	Email      string   `json:"email"       validate:"required,email"`
	Password   string   `json:"password"    validate:"required,min=8"`
	FullName   string   `json:"full_name"   validate:"required,min=2,max=100"`
	Role       string   `json:"role"        validate:"required,oneof=management member"`
	Privileges []string `json:"privileges"  validate:"omitempty,dive,oneof=Barang Ruangan Transportasi 'User Management'"`
	AllModules bool     `json:"all_modules"`
}

func (r *CreateUserRequest) ToModel(user, hashedPassword string, now time.Time) model.User {
	return model.User{
		ID:         uuid.NewString(),
		Email:      r.Email,
		Password:   hashedPassword,
		FullName:   r.FullName,
		Role:       r.Role,
		Privileges: privilegeArray(r.Privileges, r.AllModules),
		Active:     true,
		Metadata:   gModel.NewMetadata(user, now),
	}
}

type UpdateUserRequest struct {
	FullName   *string   `json:"full_name"   validate:"omitempty,min=2,max=100"`
	Role       *string   `json:"role"        validate:"omitempty,oneof=management member"`
	Privileges *[]string `json:"privileges"  validate:"omitempty,dive,oneof=Barang Ruangan Transportasi 'User Management'"`
	AllModules *bool     `json:"all_modules"`
	Active     *bool     `json:"active"`
}

func (r *UpdateUserRequest) Empty() bool {
	return r.FullName == nil && r.Role == nil && r.Privileges == nil && r.AllModules == nil && r.Active == nil
}

// Fields maps the set fields onto their columns. AllModules wins over an explicit list.
func (r *UpdateUserRequest) Fields(user string, now time.Time) map[string]any {
	fields := map[string]any{
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if r.FullName != nil {
		fields[model.FieldFullName] = *r.FullName
	}

	if r.Role != nil {
		fields[model.FieldRole] = *r.Role
	}

	if r.Active != nil {
		fields[model.FieldActive] = *r.Active
	}

	switch {
	case r.AllModules != nil && *r.AllModules:
		fields[model.FieldPrivileges] = pq.StringArray(nil)
	case r.Privileges != nil:
		fields[model.FieldPrivileges] = privilegeArray(*r.Privileges, false)
	}

	return fields
}

func privilegeArray(privileges []string, all bool) pq.StringArray {
	if all {
		return nil
	}

	out := pq.StringArray{}

	for _, p := range privileges {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}

	return out
}

type UserResponse struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	FullName   string   `json:"full_name"`
	Role       string   `json:"role"`
	Privileges []string `json:"privileges"`
	AllModules bool     `json:"all_modules"`
	LastLogin  *string  `json:"last_login,omitempty"`
	Active     bool     `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(m model.User) {
	r.ID = m.ID
	r.Email = m.Email
	r.FullName = m.FullName
	r.Role = m.Role
	r.AllModules = m.Privileges == nil
	r.Privileges = []string(m.Privileges)
	r.Active = m.Active

	if r.Privileges == nil {
		r.Privileges = []string{}
	}

	if m.LastLogin != nil {
		lastLogin := m.LastLogin.Format(constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(m.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
