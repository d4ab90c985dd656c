package resource_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	otelMocks "sarana/infras/otel/mocks"
	bookingMocks "sarana/internal/domains/booking/mocks"
	bookingDto "sarana/internal/domains/booking/model/dto"
	"sarana/internal/domains/catalog/mocks"
	"sarana/internal/domains/catalog/model"
	"sarana/internal/domains/catalog/model/dto"
	"sarana/internal/handlers/resource"
	gDto "sarana/shared/dto"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	catalog  *mocks.MockCatalog
	bookings *bookingMocks.MockManager
	router   chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		catalog:  mocks.NewMockCatalog(ctrl),
		bookings: bookingMocks.NewMockManager(ctrl),
	}

	handler := resource.New(f.catalog, f.bookings, otelMocks.NewOtel())

	r := chi.NewRouter()
	r.Route("/v1", handler.Router)
	f.router = r

	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestUnknownKind(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/v1/resources/boats", "").Code)
}

func TestCreateUnit(t *testing.T) {
	t.Run("room", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().
			CreateUnit(gomock.Any(), model.KindRoom, dto.CreateUnitRequest{Name: "Aula"}).
			Return(dto.UnitResponse{ID: "r-1", Kind: "room"}, nil)

		assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/v1/resources/rooms", `{"name":"Aula"}`).Code)
	})

	t.Run("missing name", func(t *testing.T) {
		f := newFixture(t)

		assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/v1/resources/rooms", `{}`).Code)
	})
}

func TestTemplatesRouteBeforeKind(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().ListTemplates(gomock.Any(), gomock.Any(), gomock.Any()).Return(dto.GetTemplatesResponse{}, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/resources/templates", "").Code)
}

func TestGetUnits_Filters(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().
		ListUnits(gomock.Any(), model.KindVehicle, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ model.Kind, _ gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUnitsResponse, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "available", args["status"])
			assert.Equal(t, false, args["under_repair"])
			assert.NotContains(t, args, "name")

			return dto.GetUnitsResponse{}, nil
		})

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/resources/vehicles?status=available&under_repair=false", "").Code)
}

func TestGetSchedule(t *testing.T) {
	t.Run("explicit window", func(t *testing.T) {
		f := newFixture(t)

		from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)

		f.bookings.EXPECT().Schedule(gomock.Any(), "r-1", from, to).Return(bookingDto.ScheduleResponse{}, nil)

		rec := f.do(http.MethodGet, "/v1/resources/rooms/r-1/schedule?from=2025-03-01T00:00:00Z&to=2025-03-08T00:00:00Z", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("defaults to thirty days", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().
			Schedule(gomock.Any(), "r-1", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, from, to time.Time) (bookingDto.ScheduleResponse, error) {
				assert.Equal(t, 30*24*time.Hour, to.Sub(from))
				assert.Zero(t, from.Hour())

				return bookingDto.ScheduleResponse{}, nil
			})

		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/resources/rooms/r-1/schedule", "").Code)
	})

	t.Run("malformed from", func(t *testing.T) {
		f := newFixture(t)

		assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/v1/resources/rooms/r-1/schedule?from=yesterday", "").Code)
	})
}
