package dto_test

import (
	"testing"
	"time"

	"sarana/internal/domains/booking/model"
	"sarana/internal/domains/booking/model/dto"
	catalogModel "sarana/internal/domains/catalog/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRequest_Window(t *testing.T) {
	req := dto.SubmitRequest{StartTime: "2025-03-09T10:00:00+07:00", EndTime: "2025-03-09T12:00:00+07:00"}

	start, end, err := req.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 9, 3, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 9, 5, 0, 0, 0, time.UTC), end)

	req.EndTime = "tomorrow"
	_, _, err = req.Window()
	assert.Error(t, err)
}

func TestSubmitRequest_ToModel(t *testing.T) {
	passengers := 4
	req := dto.SubmitRequest{Purpose: "Youth retreat", Notes: "bring keys", PassengersCount: &passengers}
	unit := catalogModel.Unit{ID: "unit-1", Kind: catalogModel.KindVehicle}
	start := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	now := start.Add(-time.Hour)

	got := req.ToModel(unit, "member-1", "manager-1", start, start.Add(time.Hour), now)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "unit-1", got.ResourceID)
	assert.Equal(t, catalogModel.KindVehicle, got.ResourceKind)
	assert.Equal(t, "member-1", got.RequesterID)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, &passengers, got.PassengersCount)
	assert.Equal(t, "manager-1", got.CreatedBy)
	assert.Equal(t, now, got.CreatedAt)
}

func TestBookingResponse_FromDetail(t *testing.T) {
	decided := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)
	detail := model.RequestDetail{
		Request: model.Request{
			ID:           "req-1",
			ResourceID:   "room-1",
			ResourceKind: catalogModel.KindRoom,
			StartTime:    time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC),
			EndTime:      time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
			Status:       model.StatusApproved,
			DecidedAt:    &decided,
		},
		ResourceName:  "Aula",
		RequesterName: "Budi",
	}

	var res dto.BookingResponse
	res.FromDetail(detail)

	assert.Equal(t, "Aula", res.ResourceName)
	assert.Equal(t, "Budi", res.RequesterName)
	assert.Equal(t, "2025-03-09T10:00:00Z", res.StartTime)
	assert.Equal(t, "approved", res.Status)
	require.NotNil(t, res.DecidedAt)
	assert.Equal(t, "2025-03-09T08:00:00Z", *res.DecidedAt)
}

func TestGetBookingsResponse_FromDetails(t *testing.T) {
	var res dto.GetBookingsResponse
	res.FromDetails([]model.RequestDetail{{}, {}, {}}, 21, 10)

	assert.Len(t, res.Bookings, 3)
	assert.Equal(t, 3, res.TotalPage)
	assert.Equal(t, 21, res.TotalData)
}
