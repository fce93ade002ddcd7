package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPageSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, GetPageSlice(items, 1, 3))
	assert.Equal(t, []int{4, 5, 6}, GetPageSlice(items, 2, 3))
	assert.Equal(t, []int{7}, GetPageSlice(items, 3, 3))
	assert.Nil(t, GetPageSlice(items, 4, 3), "past the end is empty")
	assert.Equal(t, []int{1, 2, 3}, GetPageSlice(items, 0, 3), "page is clamped to one")
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 3, CalculateTotalPages(11, 5))
	assert.Equal(t, 2, CalculateTotalPages(10, 5))
	assert.Equal(t, 1, CalculateTotalPages(0, 5))
	assert.Equal(t, 1, CalculateTotalPages(3, 0))
}

func TestPaginatedListSinglePageHasNoNav(t *testing.T) {
	items := []SelectableItem{{ID: "1", Text: "One"}, {ID: "2", Text: "Two"}}

	kb := PaginatedList(items, 1, 1)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "wf:select:1", kb.InlineKeyboard[0][0].CallbackData)
}

func TestPaginatedListNavRow(t *testing.T) {
	items := []SelectableItem{{ID: "1", Text: "One"}}

	kb := PaginatedList(items, 2, 3)
	require.Len(t, kb.InlineKeyboard, 2)

	nav := kb.InlineKeyboard[1]
	require.Len(t, nav, 3)
	assert.Equal(t, "wf:page:1", nav[0].CallbackData)
	assert.Equal(t, "2/3", nav[1].Text)
	assert.Equal(t, "wf:page:3", nav[2].CallbackData)

	first := PaginatedList(items, 1, 3).InlineKeyboard[1]
	assert.Equal(t, "wf:noop", first[0].CallbackData, "edges keep a placeholder for alignment")
}

func TestPaginatedListWithExtra(t *testing.T) {
	items := []SelectableItem{{ID: "1", Text: "One"}}
	extra := ButtonRow(map[string]string{"Close": "wf:cancel"})

	kb := PaginatedListWithExtra(items, 1, 1, extra)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "Close", kb.InlineKeyboard[1][0].Text)
}
