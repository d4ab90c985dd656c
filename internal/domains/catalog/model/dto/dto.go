package dto

import (
	"sarana/internal/domains/catalog/model"
	"sarana/shared"
	gDto "sarana/shared/dto"
	gModel "sarana/shared/model"
	"sarana/shared/timezone"

	"github.com/google/uuid"
)

type CreateUnitRequest struct {
	Name        string  `json:"name"         validate:"required,max=100"`
	Code        string  `json:"code"         validate:"omitempty,max=64"`
	Location    string  `json:"location"     validate:"omitempty,max=100"`
	Capacity    *int    `json:"capacity"     validate:"omitempty,min=1"`
	PlateNumber *string `json:"plate_number" validate:"omitempty,max=20"`
	PICID       *string `json:"pic_id"       validate:"omitempty,uuid"`
	TemplateID  *string `json:"template_id"  validate:"omitempty,uuid"`
}

func (c *CreateUnitRequest) ToModel(kind model.Kind, user string) model.Unit {
	id := uuid.NewString()

	code := c.Code
	if code == "" {
		code = id
	}

	now := timezone.Now()

	return model.Unit{
		ID:          id,
		Kind:        kind,
		Name:        c.Name,
		Code:        code,
		Location:    c.Location,
		Capacity:    c.Capacity,
		PlateNumber: c.PlateNumber,
		PICID:       c.PICID,
		TemplateID:  c.TemplateID,
		Status:      model.StatusAvailable,
		Metadata:    gModel.NewMetadata(user, now),
	}
}

// UpdateUnitRequest carries only the fields clients may change. Status is derived, never written here.
type UpdateUnitRequest struct {
	Name        string  `db:"name"         json:"name"         validate:"omitempty,max=100"`
	Location    string  `db:"location"     json:"location"     validate:"omitempty,max=100"`
	Capacity    *int    `db:"capacity"     json:"capacity"     validate:"omitempty,min=1"`
	PlateNumber *string `db:"plate_number" json:"plate_number" validate:"omitempty,max=20"`
	PICID       *string `db:"pic_id"       json:"pic_id"       validate:"omitempty,uuid"`
	UnderRepair *bool   `db:"under_repair" json:"under_repair"`
}

type UnitResponse struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Location    string  `json:"location"`
	Capacity    *int    `json:"capacity,omitempty"`
	PlateNumber *string `json:"plate_number,omitempty"`
	PICID       *string `json:"pic_id,omitempty"`
	TemplateID  *string `json:"template_id,omitempty"`
	UnderRepair bool    `json:"under_repair"`
	Status      string  `json:"status"`
	gDto.Metadata
}

func (r *UnitResponse) FromModel(m model.Unit) {
	r.ID = m.ID
	r.Kind = string(m.Kind)
	r.Name = m.Name
	r.Code = m.Code
	r.Location = m.Location
	r.Capacity = m.Capacity
	r.PlateNumber = m.PlateNumber
	r.PICID = m.PICID
	r.TemplateID = m.TemplateID
	r.UnderRepair = m.UnderRepair
	r.Status = string(m.Status)
	r.Metadata.FromModel(m.Metadata)
}

type GetUnitsResponse struct {
	Units     []UnitResponse `json:"units"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUnitsResponse) FromModels(models []model.Unit, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Units = make([]UnitResponse, len(models))
	for i, mod := range models {
		r.Units[i].FromModel(mod)
	}
}

type CreateTemplateRequest struct {
	Name          string `json:"name"            validate:"required,max=100"`
	Description   string `json:"description"     validate:"omitempty,max=500"`
	Category      string `json:"category"        validate:"required,max=50"`
	Photo         string `json:"photo"           validate:"omitempty"`
	UnitOfMeasure string `json:"unit_of_measure" validate:"omitempty,max=20"`
	MinStock      int    `json:"min_stock"       validate:"omitempty,min=0"`
}

func (c *CreateTemplateRequest) ToModel(user string, photoURL *string) model.Template {
	unit := c.UnitOfMeasure
	if unit == "" {
		unit = "pcs"
	}

	now := timezone.Now()

	return model.Template{
		ID:            uuid.NewString(),
		Name:          c.Name,
		Description:   c.Description,
		Category:      c.Category,
		PhotoURL:      photoURL,
		UnitOfMeasure: unit,
		MinStock:      c.MinStock,
		Metadata:      gModel.NewMetadata(user, now),
	}
}

type TemplateResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	PhotoURL      *string `json:"photo_url,omitempty"`
	UnitOfMeasure string  `json:"unit_of_measure"`
	MinStock      int     `json:"min_stock"`
	gDto.Metadata
}

func (r *TemplateResponse) FromModel(m model.Template) {
	r.ID = m.ID
	r.Name = m.Name
	r.Description = m.Description
	r.Category = m.Category
	r.PhotoURL = m.PhotoURL
	r.UnitOfMeasure = m.UnitOfMeasure
	r.MinStock = m.MinStock
	r.Metadata.FromModel(m.Metadata)
}

type GetTemplatesResponse struct {
	Templates []TemplateResponse `json:"templates"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetTemplatesResponse) FromModels(models []model.Template, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Templates = make([]TemplateResponse, len(models))
	for i, mod := range models {
		r.Templates[i].FromModel(mod)
	}
}
