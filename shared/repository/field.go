package repository

import (
	"fmt"
	"reflect"
)

// field is one selectable column. name is the column in table; db is the struct tag the
// row scans into, which differs from name for joined columns read under an alias.
type field struct {
	name  string
	table string
	db    string
}

func (f field) alias() string {
	if f.db == "" {
		return f.name
	}

	return f.db
}

func (f field) qualified() string {
	return f.table + "." + f.name
}

func (f field) selector() string {
	if f.db == "" || f.db == f.name {
		return f.qualified()
	}

	return fmt.Sprintf("%s AS %s", f.qualified(), f.db)
}

// fieldsOf walks db tags, descending into embedded structs. A `table` tag moves the column to
// a joined table and a `column` tag names it there when it differs from the db tag.
func fieldsOf(table string, t reflect.Type) []field {
	fields := []field{}

	for i := range t.NumField() {
		sf := t.Field(i)

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			fields = append(fields, fieldsOf(table, sf.Type)...)
			continue
		}

		db := sf.Tag.Get("db")
		if db == "" || db == "-" {
			continue
		}

		f := field{name: db, table: table}

		if owner := sf.Tag.Get("table"); owner != "" {
			f.table = owner
		}

		if col := sf.Tag.Get("column"); col != "" {
			f.name, f.db = col, db
		}

		fields = append(fields, f)
	}

	return fields
}
