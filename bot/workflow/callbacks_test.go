package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	cb := ParseCallback("wf:select:42")
	require.NotNil(t, cb)
	assert.True(t, cb.IsSelect())
	assert.Equal(t, "42", cb.SelectedID())

	cb = ParseCallback("wf:confirm")
	require.NotNil(t, cb)
	assert.True(t, cb.IsConfirm())
	assert.Empty(t, cb.Value)

	assert.Nil(t, ParseCallback("show_cart"), "non-workflow data does not parse")
}

func TestParseCallbackValueWithColons(t *testing.T) {
	cb := ParseCallback("wf:menu:orders:pending")
	require.NotNil(t, cb)
	assert.Equal(t, "orders:pending", cb.MenuID(), "only the first colon after the action splits")
}

func TestBuildCallbackRoundTrip(t *testing.T) {
	data := BuildCallback(ActionPage, "3")
	assert.True(t, IsWorkflowCallback(data))

	cb := ParseCallback(data)
	require.NotNil(t, cb)
	assert.Equal(t, 3, cb.PageNumber())

	assert.Equal(t, "wf:skip", BuildCallback(ActionSkip))
	assert.Equal(t, "wf:skip", BuildCallback(ActionSkip, ""))
}

func TestPageNumberGuards(t *testing.T) {
	assert.Zero(t, ParseCallback("wf:page:abc").PageNumber())
	assert.Zero(t, ParseCallback("wf:select:3").PageNumber(), "page number only applies to page actions")
	assert.Empty(t, ParseCallback("wf:page:3").SelectedID())
}
