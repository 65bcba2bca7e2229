package dto_test

import (
	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/model"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	var metadata dto.Metadata
	metadata.FromModel(model.Metadata{CreatedAt: at, ModifiedAt: at, CreatedBy: "frontdesk", ModifiedBy: "manager"})

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.Equal(t, "frontdesk", metadata.CreatedBy)
	assert.Equal(t, "manager", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "explicit values",
			query:    "page=2&limit=20&sort_by=check_in&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "check_in", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults applied",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "invalid values ignored",
			query:    "page=-1&limit=x&sort_dir=sideways",
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/bookings?"+tt.query, nil)

			var q dto.QueryParams
			q.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, q)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   dto.Filter
		where    string
		argCount int
	}{
		{name: "eq", filter: dto.Filter{Field: "room_id", Value: "r1", Operator: dto.FilterOperatorEq}, where: "room_id = :room_id", argCount: 1},
		{name: "less", filter: dto.Filter{Field: "check_in", ArgName: "range_end", Value: "2024-01-02", Operator: dto.FilterOperatorLess}, where: "check_in < :range_end", argCount: 1},
		{name: "greater with table", filter: dto.Filter{Field: "check_out", Table: "bookings", Value: "2024-01-01", Operator: dto.FilterOperatorGreater}, where: "bookings.check_out > :check_out", argCount: 1},
		{name: "not in", filter: dto.Filter{Field: "status", Value: []string{"cancelled", "rejected"}, Operator: dto.FilterOperatorNotIn}, where: "status NOT IN (:status_0, :status_1) ", argCount: 2},
		{name: "is null", filter: dto.Filter{Field: "ac_rate", Operator: dto.FilterIsNull}, where: "ac_rate IS NULL", argCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.where, where)
			assert.Len(t, args, tt.argCount)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Value: "r1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", ArgName: "s1", Value: "pending", Operator: dto.FilterOperatorEq},
					dto.Filter{Field: "status", ArgName: "s2", Value: "confirmed", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND (status = :s1 OR status = :s2))", where)
	assert.Len(t, args, 3)

	empty := dto.FilterGroup{}
	where, _ = empty.GetWhereClause()
	assert.Empty(t, where)
}
