package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDataAccessors(t *testing.T) {
	s := NewUserState(1, 1, "test", "start")
	s.Set("name", "Ann")
	s.Set("age", 33)
	s.Set("lat", 50.45)
	s.Set("ok", true)

	assert.Equal(t, "Ann", s.GetString("name"))
	assert.Equal(t, 33, s.GetInt("age"))
	assert.InDelta(t, 50.45, s.GetFloat("lat"), 0.0001)
	assert.True(t, s.GetBool("ok"))

	assert.Empty(t, s.GetString("missing"))
	assert.Zero(t, s.GetInt("missing"))
	assert.Zero(t, s.GetFloat("missing"))
	assert.False(t, s.GetBool("missing"))

	assert.Empty(t, s.GetString("age"), "wrong type reads as zero value")
}

func TestStateSurvivesJSONRoundTrip(t *testing.T) {
	s := NewUserState(1, 1, "test", "start")
	s.Set("age", 33)
	s.Set("lat", 50.45)

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var got UserState
	require.NoError(t, json.Unmarshal(raw, &got))

	// JSON numbers come back as float64; the accessors hide that.
	assert.Equal(t, 33, got.GetInt("age"))
	assert.InDelta(t, 50.45, got.GetFloat("lat"), 0.0001)
}

func TestPaginationNavigation(t *testing.T) {
	s := NewUserState(1, 1, "test", "start")
	s.InitPagination(25, 10)

	require.NotNil(t, s.Pagination)
	assert.Equal(t, 3, s.Pagination.TotalPages)
	assert.Equal(t, 1, s.Pagination.CurrentPage)

	start, end := s.GetPageItems()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	assert.False(t, s.PrevPage(), "cannot go before the first page")
	assert.True(t, s.NextPage())
	assert.True(t, s.NextPage())
	assert.False(t, s.NextPage(), "cannot go past the last page")

	start, end = s.GetPageItems()
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end, "last page is cut to the item count")
}

func TestPaginationEmptyList(t *testing.T) {
	s := NewUserState(1, 1, "test", "start")
	s.InitPagination(0, 10)

	assert.Equal(t, 1, s.Pagination.TotalPages, "an empty list still has one page")
	assert.False(t, s.NextPage())
}
