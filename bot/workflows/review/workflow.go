package review

import (
	"context"
	"log/slog"

	"shopbot/bot/workflow"
	"shopbot/entity"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "review"
)

// Step IDs
const (
	StepRate workflow.StepID = "rate"
	StepText workflow.StepID = "text"
)

// State data keys
const (
	KeyProductID = "product_id"
	KeyRating    = "rating"
)

// Repository defines the storage operations the review workflow needs.
type Repository interface {
	GetProduct(ctx context.Context, productID uint) (*entity.Product, error)
	AddReview(ctx context.Context, review *entity.Review) error
}

// ReviewWorkflow collects a star rating and an optional text review for
// a product. The product is passed in through the workflow deep link.
type ReviewWorkflow struct {
	steps map[workflow.StepID]workflow.Step
	repo  Repository
	log   *slog.Logger
}

// NewReviewWorkflow creates a new review workflow.
func NewReviewWorkflow(repo Repository, log *slog.Logger) *ReviewWorkflow {
	w := &ReviewWorkflow{
		steps: make(map[workflow.StepID]workflow.Step),
		repo:  repo,
		log:   log,
	}

	w.registerSteps()

	return w
}

// ID returns the workflow ID.
func (w *ReviewWorkflow) ID() workflow.WorkflowID {
	return WorkflowID
}

// InitialStep returns the first step.
func (w *ReviewWorkflow) InitialStep() workflow.StepID {
	return StepRate
}

// GetStep returns a step by ID.
func (w *ReviewWorkflow) GetStep(id workflow.StepID) (workflow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}

// Steps returns all steps.
func (w *ReviewWorkflow) Steps() []workflow.Step {
	steps := make([]workflow.Step, 0, len(w.steps))
	for _, step := range w.steps {
		steps = append(steps, step)
	}
	return steps
}

func (w *ReviewWorkflow) registerSteps() {
	w.steps[StepRate] = NewRateStep(w.repo)
	w.steps[StepText] = NewTextStep(w.repo)
}
