package profileedit

import (
	"context"
	"log/slog"

	"shopbot/bot/workflow"
	"shopbot/entity"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "profile_edit"
)

// Step IDs
const (
	StepSelectField workflow.StepID = "select_field"
	StepEditValue   workflow.StepID = "edit_value"
)

// Editable profile fields. The set is closed: the edit step refuses
// anything outside it.
const (
	FieldName     = "name"
	FieldPhone    = "phone"
	FieldEmail    = "email"
	FieldAge      = "age"
	FieldPhoto    = "photo"
	FieldLocation = "location"
)

// State data keys
const (
	KeyField = "field"
)

// AuthService exposes the per-field profile updates.
type AuthService interface {
	Profile(ctx context.Context, userID int64) (*entity.UserProfile, error)
	SetName(ctx context.Context, userID int64, name string) error
	SetPhone(ctx context.Context, userID int64, phone string) error
	SetEmail(ctx context.Context, userID int64, email string) error
	SetAge(ctx context.Context, userID int64, age int) error
	SetPhoto(ctx context.Context, userID int64, photoID string) error
	SetLocation(ctx context.Context, userID int64, lat, lon float64) error
}

// ProfileEditWorkflow lets a registered user change one profile field.
type ProfileEditWorkflow struct {
	steps       map[workflow.StepID]workflow.Step
	authService AuthService
	log         *slog.Logger
}

// NewProfileEditWorkflow creates a new profile edit workflow.
func NewProfileEditWorkflow(authService AuthService, log *slog.Logger) *ProfileEditWorkflow {
	w := &ProfileEditWorkflow{
		steps:       make(map[workflow.StepID]workflow.Step),
		authService: authService,
		log:         log,
	}

	w.registerSteps()

	return w
}

// ID returns the workflow ID.
func (w *ProfileEditWorkflow) ID() workflow.WorkflowID {
	return WorkflowID
}

// InitialStep returns the first step.
func (w *ProfileEditWorkflow) InitialStep() workflow.StepID {
	return StepSelectField
}

// GetStep returns a step by ID.
func (w *ProfileEditWorkflow) GetStep(id workflow.StepID) (workflow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}

// Steps returns all steps.
func (w *ProfileEditWorkflow) Steps() []workflow.Step {
	steps := make([]workflow.Step, 0, len(w.steps))
	for _, step := range w.steps {
		steps = append(steps, step)
	}
	return steps
}

func (w *ProfileEditWorkflow) registerSteps() {
	w.steps[StepSelectField] = NewSelectFieldStep(w.authService)
	w.steps[StepEditValue] = NewEditValueStep(w.authService)
}
