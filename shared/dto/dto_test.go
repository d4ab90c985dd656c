package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"sarana/shared/constant"
	"sarana/shared/dto"
	"sarana/shared/model"
	"sarana/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	modifiedAt := createdAt.Add(26 * time.Hour)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "u-admin",
		ModifiedBy: "u-sekretariat",
	})

	assert.Equal(t, timezone.Format(createdAt, constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, timezone.Format(modifiedAt, constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "u-admin", metadata.CreatedBy)
	assert.Equal(t, "u-sekretariat", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=start_time&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_time", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "nothing without defaults",
			expected: dto.QueryParams{},
		},
		{
			name:           "malformed numbers fall back to defaults",
			query:          "page=abc&limit=-5",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "zero page falls back to default",
			query:          "page=0",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "limit is capped",
			query:    "limit=5000",
			expected: dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:     "sort column is normalised and unknown direction dropped",
			query:    "sort_by=%20Created_At%20&sort_dir=sideways",
			expected: dto.QueryParams{SortBy: "created_at"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := dto.QueryParams{}
			params.FromRequest(httptest.NewRequest("GET", "/v1/bookings?"+tt.query, nil), tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	at := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter dto.Filter
		where  string
		args   map[string]any
	}{
		{
			name:   "less",
			filter: dto.Filter{Field: "start_time", Value: at, Operator: dto.FilterOperatorLess, Table: "booking_requests"},
			where:  "booking_requests.start_time < :start_time",
			args:   map[string]any{"start_time": at},
		},
		{
			name:   "greater with arg name",
			filter: dto.Filter{ArgName: "window_start", Field: "end_time", Value: at, Operator: dto.FilterOperatorGreater},
			where:  "end_time > :window_start",
			args:   map[string]any{"window_start": at},
		},
		{
			name:   "any",
			filter: dto.Filter{Field: "privileges", Value: "Ruangan", Operator: dto.FilterOperatorAny, Table: "users"},
			where:  ":privileges = ANY(users.privileges)",
			args:   map[string]any{"privileges": "Ruangan"},
		},
		{
			name:   "like wraps the value",
			filter: dto.Filter{Field: "name", Value: "aula", Operator: dto.FilterOperatorLike, Table: "resource_units"},
			where:  "LOWER(resource_units.name) LIKE LOWER(:name)",
			args:   map[string]any{"name": "%aula%"},
		},
		{
			name:   "in spreads a slice",
			filter: dto.Filter{Field: "status", Value: []string{"pending", "approved"}, Operator: dto.FilterOperatorIn},
			where:  "status IN (:status_0, :status_1)",
			args:   map[string]any{"status_0": "pending", "status_1": "approved"},
		},
		{
			name:   "in binds a scalar",
			filter: dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorIn},
			where:  "status IN (:status_0)",
			args:   map[string]any{"status_0": "pending"},
		},
		{
			name:   "in with nothing matches nothing",
			filter: dto.Filter{Field: "status", Value: []string{}, Operator: dto.FilterOperatorIn},
			where:  "FALSE",
			args:   map[string]any{},
		},
		{
			name:   "is null",
			filter: dto.Filter{Field: "delivered_at", Operator: dto.FilterIsNull, Table: "notification_events"},
			where:  "notification_events.delivered_at IS NULL",
			args:   map[string]any{},
		},
		{
			name:   "unknown operator",
			filter: dto.Filter{Field: "x", Operator: "between"},
			where:  "",
			args:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestFilterGroup_Nested(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "resource_id", Value: "r1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "s1", Field: "status", Value: "pending", Operator: dto.FilterOperatorEq},
					dto.Filter{ArgName: "s2", Field: "status", Value: "approved", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(resource_id = :resource_id AND (status = :s1 OR status = :s2))", where)
	assert.Len(t, args, 3)
}

func TestFilterGroup_SkipsEmptyMembers(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.FilterGroup{Operator: dto.FilterGroupOperatorOr},
			dto.Filter{Field: "active", Value: true, Operator: dto.FilterOperatorEq},
			"not a filter",
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(active = :active)", where)
	assert.Equal(t, map[string]any{"active": true}, args)

	empty := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}
	where, _ = empty.GetWhereClause()
	assert.Empty(t, where)
}

func TestMetadata_FromModelLeavesUnloadedTimesEmpty(t *testing.T) {
	metadata := dto.Metadata{}
	metadata.FromModel(model.NewMetadata("u-admin", time.Time{}))

	assert.Empty(t, metadata.CreatedAt)
	assert.Empty(t, metadata.ModifiedAt)
	assert.Equal(t, "u-admin", metadata.CreatedBy)
}
