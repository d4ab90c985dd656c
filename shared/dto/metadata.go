package dto

import (
	"time"

	"sarana/shared/constant"
	"sarana/shared/model"
	"sarana/shared/timezone"
)

// Metadata is the audit block rendered on every entity response. Timestamps that were not
// loaded stay empty instead of rendering year one.
type Metadata struct {
	CreatedAt  string `json:"created_at,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(src model.Metadata) {
	m.CreatedAt = stamp(src.CreatedAt)
	m.ModifiedAt = stamp(src.ModifiedAt)
	m.CreatedBy = src.CreatedBy
	m.ModifiedBy = src.ModifiedBy
}

func stamp(at time.Time) string {
	if at.IsZero() {
		return ""
	}

	return timezone.Format(at, constant.DateFormat)
}
