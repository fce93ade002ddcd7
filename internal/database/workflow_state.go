package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopbot/bot/workflow"
)

// WorkflowState is the persisted form of an in-flight workflow. The state
// itself is stored as JSON so the schema does not chase every workflow's
// data shape.
type WorkflowState struct {
	UserID    int64  `gorm:"primaryKey;autoIncrement:false"`
	State     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (WorkflowState) TableName() string { return "workflow_states" }

// SaveWorkflowState persists a user's workflow state, replacing any
// previous one.
func (s *Storage) SaveWorkflowState(ctx context.Context, state *workflow.UserState) error {
	state.UpdatedAt = time.Now()

	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	row := WorkflowState{
		UserID:    state.UserID,
		State:     string(raw),
		UpdatedAt: state.UpdatedAt,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
		}).
		Create(&row).Error
}

// LoadWorkflowState retrieves a user's workflow state. A missing state is
// returned as nil, not an error.
func (s *Storage) LoadWorkflowState(ctx context.Context, userID int64) (*workflow.UserState, error) {
	var row WorkflowState
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state workflow.UserState
	if err := json.Unmarshal([]byte(row.State), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// DeleteWorkflowState removes a user's workflow state.
func (s *Storage) DeleteWorkflowState(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&WorkflowState{}).Error
}

// WorkflowStateExists checks if a user has a saved workflow state.
func (s *Storage) WorkflowStateExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&WorkflowState{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}
