package registration

import (
	"context"
	"log/slog"

	"shopbot/bot/workflow"
	"shopbot/entity"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "registration"
)

// Step IDs
const (
	StepCheckRegistered workflow.StepID = "check_registered"
	StepRequestName     workflow.StepID = "request_name"
	StepRequestPhone    workflow.StepID = "request_phone"
	StepRequestLocation workflow.StepID = "request_location"
	StepRequestEmail    workflow.StepID = "request_email"
	StepRequestAge      workflow.StepID = "request_age"
	StepRequestPhoto    workflow.StepID = "request_photo"
	StepConfirm         workflow.StepID = "confirm"
)

// State data keys
const (
	KeyName    = "name"
	KeyPhone   = "phone"
	KeyLat     = "lat"
	KeyLon     = "lon"
	KeyHasGeo  = "has_geo"
	KeyEmail   = "email"
	KeyAge     = "age"
	KeyPhotoID = "photo_id"
)

// AuthService defines the registration operations the workflow needs.
type AuthService interface {
	IsRegistered(ctx context.Context, userID int64) (bool, error)
	Register(ctx context.Context, profile *entity.UserProfile) error
}

// RegistrationWorkflow collects the user's profile step by step.
type RegistrationWorkflow struct {
	steps       map[workflow.StepID]workflow.Step
	authService AuthService
	log         *slog.Logger
}

// NewRegistrationWorkflow creates a new registration workflow.
func NewRegistrationWorkflow(authService AuthService, log *slog.Logger) *RegistrationWorkflow {
	w := &RegistrationWorkflow{
		steps:       make(map[workflow.StepID]workflow.Step),
		authService: authService,
		log:         log,
	}

	w.registerSteps()

	return w
}

// ID returns the workflow ID.
func (w *RegistrationWorkflow) ID() workflow.WorkflowID {
	return WorkflowID
}

// InitialStep returns the first step.
func (w *RegistrationWorkflow) InitialStep() workflow.StepID {
	return StepCheckRegistered
}

// GetStep returns a step by ID.
func (w *RegistrationWorkflow) GetStep(id workflow.StepID) (workflow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}

// Steps returns all steps.
func (w *RegistrationWorkflow) Steps() []workflow.Step {
	steps := make([]workflow.Step, 0, len(w.steps))
	for _, step := range w.steps {
		steps = append(steps, step)
	}
	return steps
}

func (w *RegistrationWorkflow) registerSteps() {
	w.steps[StepCheckRegistered] = NewCheckRegisteredStep(w.authService)
	w.steps[StepRequestName] = NewRequestNameStep()
	w.steps[StepRequestPhone] = NewRequestPhoneStep()
	w.steps[StepRequestLocation] = NewRequestLocationStep()
	w.steps[StepRequestEmail] = NewRequestEmailStep()
	w.steps[StepRequestAge] = NewRequestAgeStep()
	w.steps[StepRequestPhoto] = NewRequestPhotoStep()
	w.steps[StepConfirm] = NewConfirmStep(w.authService)
}
