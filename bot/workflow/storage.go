package workflow

import (
	"context"
)

// DBStateStorage is an adapter that wraps the database operations.
type DBStateStorage struct {
	repo StateRepository
}

// StateRepository defines the database operations for workflow state.
type StateRepository interface {
	SaveWorkflowState(ctx context.Context, state *UserState) error
	LoadWorkflowState(ctx context.Context, userID int64) (*UserState, error)
	DeleteWorkflowState(ctx context.Context, userID int64) error
	WorkflowStateExists(ctx context.Context, userID int64) (bool, error)
}

// NewDBStateStorage creates a database backed state storage.
func NewDBStateStorage(repo StateRepository) *DBStateStorage {
	return &DBStateStorage{repo: repo}
}

// Save persists a user's workflow state.
func (s *DBStateStorage) Save(ctx context.Context, state *UserState) error {
	return s.repo.SaveWorkflowState(ctx, state)
}

// Load retrieves a user's workflow state.
func (s *DBStateStorage) Load(ctx context.Context, userID int64) (*UserState, error) {
	return s.repo.LoadWorkflowState(ctx, userID)
}

// Delete removes a user's workflow state.
func (s *DBStateStorage) Delete(ctx context.Context, userID int64) error {
	return s.repo.DeleteWorkflowState(ctx, userID)
}

// Exists checks if a user has a saved state.
func (s *DBStateStorage) Exists(ctx context.Context, userID int64) (bool, error) {
	return s.repo.WorkflowStateExists(ctx, userID)
}
