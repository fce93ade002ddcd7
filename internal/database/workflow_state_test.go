package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/bot/workflow"
)

func TestWorkflowStateRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	state := workflow.NewUserState(1, 10, "checkout", "request_address")
	state.Set("address", "Main st 1")
	state.Set("stars", 7)

	require.NoError(t, s.SaveWorkflowState(ctx, state))

	got, err := s.LoadWorkflowState(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.WorkflowID, got.WorkflowID)
	assert.Equal(t, state.CurrentStep, got.CurrentStep)
	assert.EqualValues(t, 10, got.ChatID)
	assert.Equal(t, "Main st 1", got.GetString("address"))
	assert.Equal(t, 7, got.GetInt("stars"))
}

func TestSaveWorkflowStateReplaces(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first := workflow.NewUserState(1, 10, "registration", "request_name")
	require.NoError(t, s.SaveWorkflowState(ctx, first))

	second := workflow.NewUserState(1, 10, "checkout", "check_cart")
	require.NoError(t, s.SaveWorkflowState(ctx, second))

	got, err := s.LoadWorkflowState(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, "checkout", got.WorkflowID)

	exists, err := s.WorkflowStateExists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWorkflowStateMissingAndDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	got, err := s.LoadWorkflowState(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got, "missing state is nil, not an error")

	require.NoError(t, s.DeleteWorkflowState(ctx, 42))

	state := workflow.NewUserState(42, 10, "review", "rate")
	require.NoError(t, s.SaveWorkflowState(ctx, state))
	require.NoError(t, s.DeleteWorkflowState(ctx, 42))

	exists, err := s.WorkflowStateExists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, exists)
}
