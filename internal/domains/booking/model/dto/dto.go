package dto

import (
	"time"

	"sarana/internal/domains/booking/model"
	catalogModel "sarana/internal/domains/catalog/model"
	"sarana/shared"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	gModel "sarana/shared/model"

	"github.com/google/uuid"
)

type SubmitRequest struct {
	ResourceID      string  `json:"resource_id"      validate:"required,uuid"`
	StartTime       string  `json:"start_time"       validate:"required,rfc3339"`
	EndTime         string  `json:"end_time"         validate:"required,rfc3339"`
	Purpose         string  `json:"purpose"          validate:"omitempty,max=255"`
	Notes           string  `json:"notes"            validate:"omitempty,max=500"`
	Origin          *string `json:"origin"           validate:"omitempty,max=255"`
	Destination     *string `json:"destination"      validate:"omitempty,max=255"`
	PassengersCount *int    `json:"passengers_count" validate:"omitempty,min=1"`
	RequesterID     *string `json:"requester_id"     validate:"omitempty,uuid"`
}

// Window parses the RFC3339 bounds. Callers validate the struct first.
func (c *SubmitRequest) Window() (start, end time.Time, err error) {
	return parseWindow(c.StartTime, c.EndTime)
}

func (c *SubmitRequest) ToModel(unit catalogModel.Unit, requesterID, user string, start, end, now time.Time) model.Request {
	return model.Request{
		ID:              uuid.NewString(),
		ResourceID:      unit.ID,
		ResourceKind:    unit.Kind,
		RequesterID:     requesterID,
		StartTime:       start,
		EndTime:         end,
		Purpose:         c.Purpose,
		Notes:           c.Notes,
		Origin:          c.Origin,
		Destination:     c.Destination,
		PassengersCount: c.PassengersCount,
		Status:          model.StatusPending,
		Metadata:        gModel.NewMetadata(user, now),
	}
}

type RescheduleRequest struct {
	StartTime string `json:"start_time" validate:"required,rfc3339"`
	EndTime   string `json:"end_time"   validate:"required,rfc3339"`
	Notes     string `json:"notes"      validate:"omitempty,max=500"`
}

func (c *RescheduleRequest) Window() (start, end time.Time, err error) {
	return parseWindow(c.StartTime, c.EndTime)
}

type DecideRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Note     string `json:"note"     validate:"omitempty,max=500"`
}

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type CloseRequest struct {
	Note string `json:"note" validate:"omitempty,max=500"`
}

func parseWindow(startRaw, endRaw string) (start, end time.Time, err error) {
	start, err = time.Parse(constant.DateFormat, startRaw)
	if err != nil {
		return start, end, err //nolint:wrapcheck
	}

	end, err = time.Parse(constant.DateFormat, endRaw)

	return start.UTC(), end.UTC(), err //nolint:wrapcheck
}

type BookingResponse struct {
	ID              string  `json:"id"`
	ResourceID      string  `json:"resource_id"`
	ResourceKind    string  `json:"resource_kind"`
	ResourceName    string  `json:"resource_name,omitempty"`
	RequesterID     string  `json:"requester_id"`
	RequesterName   string  `json:"requester_name,omitempty"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Purpose         string  `json:"purpose"`
	Notes           string  `json:"notes"`
	Origin          *string `json:"origin,omitempty"`
	Destination     *string `json:"destination,omitempty"`
	PassengersCount *int    `json:"passengers_count,omitempty"`
	Status          string  `json:"status"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	DecisionNote    *string `json:"decision_note,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Request) {
	r.ID = m.ID
	r.ResourceID = m.ResourceID
	r.ResourceKind = string(m.ResourceKind)
	r.RequesterID = m.RequesterID
	r.StartTime = m.StartTime.Format(constant.DateFormat)
	r.EndTime = m.EndTime.Format(constant.DateFormat)
	r.Purpose = m.Purpose
	r.Notes = m.Notes
	r.Origin = m.Origin
	r.Destination = m.Destination
	r.PassengersCount = m.PassengersCount
	r.Status = string(m.Status)
	r.DecidedBy = m.DecidedBy
	r.DecisionNote = m.DecisionNote

	if m.DecidedAt != nil {
		decided := m.DecidedAt.Format(constant.DateFormat)
		r.DecidedAt = &decided
	}

	r.Metadata.FromModel(m.Metadata)
}

func (r *BookingResponse) FromDetail(m model.RequestDetail) {
	r.FromModel(m.Request)
	r.ResourceName = m.ResourceName
	r.RequesterName = m.RequesterName
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromDetails(models []model.RequestDetail, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromDetail(mod)
	}
}

type ScheduleEntry struct {
	RequestID string `json:"request_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

type ScheduleResponse struct {
	ResourceID string          `json:"resource_id"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Entries    []ScheduleEntry `json:"entries"`
}

func (r *ScheduleResponse) FromModels(resourceID string, from, to time.Time, models []model.Request) {
	r.ResourceID = resourceID
	r.From = from.Format(constant.DateFormat)
	r.To = to.Format(constant.DateFormat)

	r.Entries = make([]ScheduleEntry, len(models))
	for i, m := range models {
		r.Entries[i] = ScheduleEntry{
			RequestID: m.ID,
			StartTime: m.StartTime.Format(constant.DateFormat),
			EndTime:   m.EndTime.Format(constant.DateFormat),
			Status:    string(m.Status),
		}
	}
}
