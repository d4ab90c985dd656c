package dto

import (
	"sarana/internal/domains/notification/model"
	"sarana/shared"
	"sarana/shared/constant"
)

type NotificationResponse struct {
	ID               string  `json:"id"`
	BookingRequestID string  `json:"booking_request_id"`
	Kind             string  `json:"kind"`
	EmittedAt        string  `json:"emitted_at"`
	DeliveredAt      *string `json:"delivered_at,omitempty"`
	ReadAt           *string `json:"read_at,omitempty"`
}

func (r *NotificationResponse) FromModel(m model.Event) {
	r.ID = m.ID
	r.BookingRequestID = m.BookingRequestID
	r.Kind = string(m.Kind)
	r.EmittedAt = m.EmittedAt.Format(constant.DateFormat)

	if m.DeliveredAt != nil {
		v := m.DeliveredAt.Format(constant.DateFormat)
		r.DeliveredAt = &v
	}

	if m.ReadAt != nil {
		v := m.ReadAt.Format(constant.DateFormat)
		r.ReadAt = &v
	}
}

type GetInboxResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetInboxResponse) FromModels(models []model.Event, totalData, unread, limit int) {
	r.TotalData = totalData
	r.Unread = unread
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, m := range models {
		r.Notifications[i].FromModel(m)
	}
}
