package shared_test

import (
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/dto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertStringToBool(t *testing.T) {
	assert.Nil(t, shared.ConvertStringToBool(""))
	assert.Nil(t, shared.ConvertStringToBool("maybe"))
	assert.True(t, *shared.ConvertStringToBool("true"))
	assert.False(t, *shared.ConvertStringToBool("0"))
}

func TestConvertStringToInt(t *testing.T) {
	value, err := shared.ConvertStringToInt(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, 7, value)

	_, err = shared.ConvertStringToInt("seven")
	assert.Error(t, err)
}

func TestCalculateTotalPage(t *testing.T) {
	assert.Equal(t, 1, shared.CalculateTotalPage(0, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(5, 0))
	assert.Equal(t, 3, shared.CalculateTotalPage(21, 10))
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		Remarks  string   `db:"remarks"`
		Discount *float64 `db:"discount"`
		Ignored  string
		Empty    string `db:"empty"`
	}

	zero := 0.0
	fields := shared.TransformFields(patch{Remarks: "late arrival", Discount: &zero, Ignored: "x"}, "manager")

	assert.Equal(t, "late arrival", fields["remarks"])
	assert.Equal(t, 0.0, fields["discount"])
	assert.NotContains(t, fields, "empty")
	assert.Equal(t, "manager", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get:b1", shared.BuildCacheKey("booking:get", "b1"))
	assert.Equal(t, "metrics:2024-01-01:2024-01-31", shared.BuildCacheKey("metrics", "2024-01-01", "2024-01-31"))
	assert.Equal(t, "rooms", shared.BuildCacheKey("rooms"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	first := shared.FilterByID("r1", "room_id", "bookings")
	second := shared.FilterByID("r2", "room_id", "bookings")

	assert.Equal(t, shared.BuildCacheKeyWithQuery("booking:all", params, first), shared.BuildCacheKeyWithQuery("booking:all", params, first))
	assert.NotEqual(t, shared.BuildCacheKeyWithQuery("booking:all", params, first), shared.BuildCacheKeyWithQuery("booking:all", params, second))
	assert.Contains(t, shared.BuildCacheKeyWithQuery("booking:all", params, first), "booking:all:")
}
