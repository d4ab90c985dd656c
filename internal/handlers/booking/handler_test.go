package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "sarana/infras/otel/mocks"
	approvalMocks "sarana/internal/domains/approval/mocks"
	"sarana/internal/domains/booking/mocks"
	"sarana/internal/domains/booking/model/dto"
	"sarana/internal/handlers/booking"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	bookings  *mocks.MockManager
	approvals *approvalMocks.MockApproval
	router    chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		bookings:  mocks.NewMockManager(ctrl),
		approvals: approvalMocks.NewMockApproval(ctrl),
	}

	handler := booking.New(f.bookings, f.approvals, otelMocks.NewOtel())

	r := chi.NewRouter()
	r.Route("/v1", handler.Router)
	f.router = r

	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestSubmit(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().
			Submit(gomock.Any(), dto.SubmitRequest{ResourceID: "r-1", StartTime: "2025-03-09T10:00:00Z", EndTime: "2025-03-09T12:00:00Z"}).
			Return(dto.BookingResponse{ID: "b-1", Status: "pending"}, nil)

		rec := f.do(http.MethodPost, "/v1/bookings", `{"resource_id":"r-1","start_time":"2025-03-09T10:00:00Z","end_time":"2025-03-09T12:00:00Z"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"b-1"`)
	})

	t.Run("conflict names the blocking request", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.ConflictWith("r-1", "b-0"))

		rec := f.do(http.MethodPost, "/v1/bookings", `{"resource_id":"r-1"}`)

		require.Equal(t, http.StatusConflict, rec.Code)

		body := errorBody(t, rec)
		assert.Equal(t, "conflict", body["kind"])
		assert.Equal(t, "b-0", body["details"].(map[string]any)["conflicting_request_id"])
	})

	t.Run("authorization outranks validation", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.Authorization("member|management:Transportasi"))

		rec := f.do(http.MethodPost, "/v1/bookings", `{"resource_id":"not-a-uuid"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		f := newFixture(t)

		assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/v1/bookings", `{`).Code)
	})
}

func TestGetBookings_Filters(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
			assert.Equal(t, 2, req.Page)

			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "booking_requests.status = :status")
			assert.Contains(t, where, "booking_requests.start_time < :to")
			assert.Equal(t, "pending", args["status"])
			assert.Equal(t, "2025-04-01T00:00:00Z", args["to"])
			assert.NotContains(t, args, "requester_id")

			return dto.GetBookingsResponse{TotalData: 1}, nil
		})

	rec := f.do(http.MethodGet, "/v1/bookings?page=2&status=pending&to=2025-04-01T00:00:00Z", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutesResolveStaticSegments(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().ListMine(gomock.Any(), gomock.Any(), gomock.Any()).Return(dto.GetBookingsResponse{}, nil)
	f.bookings.EXPECT().PendingQueue(gomock.Any(), gomock.Any()).Return(dto.GetBookingsResponse{}, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/bookings/mine", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/bookings/pending", "").Code)
}

func TestDecide(t *testing.T) {
	t.Run("approved", func(t *testing.T) {
		f := newFixture(t)

		f.approvals.EXPECT().
			Decide(gomock.Any(), "b-1", dto.DecideRequest{Decision: dto.DecisionApprove}).
			Return(dto.BookingResponse{ID: "b-1", Status: "approved"}, nil)

		rec := f.do(http.MethodPost, "/v1/bookings/b-1/decide", `{"decision":"approve"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("already decided", func(t *testing.T) {
		f := newFixture(t)

		f.approvals.EXPECT().Decide(gomock.Any(), "b-1", gomock.Any()).Return(dto.BookingResponse{}, failure.InvalidState("approved", "rejected"))

		rec := f.do(http.MethodPost, "/v1/bookings/b-1/decide", `{"decision":"reject"}`)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "invalid_state", errorBody(t, rec)["kind"])
	})
}

func TestCompleteWithoutBody(t *testing.T) {
	f := newFixture(t)

	f.approvals.EXPECT().Complete(gomock.Any(), "b-1", dto.CloseRequest{}).Return(dto.BookingResponse{ID: "b-1", Status: "completed"}, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/v1/bookings/b-1/complete", "").Code)
}

func TestWithdrawWithNote(t *testing.T) {
	f := newFixture(t)

	f.approvals.EXPECT().Withdraw(gomock.Any(), "b-1", dto.CloseRequest{Note: "acara batal"}).Return(dto.BookingResponse{ID: "b-1"}, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/v1/bookings/b-1/withdraw", `{"note":"acara batal"}`).Code)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().Cancel(gomock.Any(), "b-1").Return(nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/v1/bookings/b-1/cancel", "").Code)
}

func TestExport(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().Export(gomock.Any(), gomock.Any()).Return([]byte("xlsx"), nil)

	rec := f.do(http.MethodGet, "/v1/bookings/export?kind=room", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.ContentTypeSpreadsheet, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Contains(t, rec.Header().Get(constant.RequestHeaderDisposition), "riwayat-peminjaman-")
	assert.Equal(t, "xlsx", rec.Body.String())
}
