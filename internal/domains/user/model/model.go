package model

import (
	"time"

	"sarana/permissions"
	"sarana/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID         = "id"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldFullName   = "full_name"
	FieldRole       = "role"
	FieldPrivileges = "privileges"
	FieldLastLogin  = "last_login"
	FieldActive     = "active"
)

// User is an account. A NULL privilege array grants every module.
type User struct {
	ID         string         `db:"id"`
	Email      string         `db:"email"`
	Password   string         `db:"password"`
	FullName   string         `db:"full_name"`
	Role       string         `db:"role"`
	Privileges pq.StringArray `db:"privileges"`
	LastLogin  *time.Time     `db:"last_login"`
	Active     bool           `db:"active"`
	model.Metadata
}

func (u User) Principal() permissions.Principal {
	return permissions.Principal{
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.FullName,
		Role:       u.Role,
		Privileges: []string(u.Privileges),
		AllModules: u.Privileges == nil,
	}
}
