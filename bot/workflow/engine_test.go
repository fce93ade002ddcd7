package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	states map[int64]*UserState
}

func newMemStorage() *memStorage {
	return &memStorage{states: make(map[int64]*UserState)}
}

func (m *memStorage) Save(_ context.Context, state *UserState) error {
	m.states[state.UserID] = state
	return nil
}

func (m *memStorage) Load(_ context.Context, userID int64) (*UserState, error) {
	return m.states[userID], nil
}

func (m *memStorage) Delete(_ context.Context, userID int64) error {
	delete(m.states, userID)
	return nil
}

func (m *memStorage) Exists(_ context.Context, userID int64) (bool, error) {
	_, ok := m.states[userID]
	return ok, nil
}

// stubStep records entries and replays canned results.
type stubStep struct {
	id            StepID
	entered       *int
	enterResult   StepResult
	messageResult StepResult
}

func (s *stubStep) ID() StepID { return s.id }

func (s *stubStep) Enter(context.Context, *tgbotapi.Bot, *UserState) StepResult {
	if s.entered != nil {
		*s.entered++
	}
	return s.enterResult
}

func (s *stubStep) HandleMessage(context.Context, *tgbotapi.Bot, *ext.Context, *UserState) StepResult {
	return s.messageResult
}

func (s *stubStep) HandleCallback(context.Context, *tgbotapi.Bot, *ext.Context, *UserState, string) StepResult {
	return StepResult{}
}

func (s *stubStep) HandleContact(context.Context, *tgbotapi.Bot, *ext.Context, *UserState) StepResult {
	return StepResult{}
}

func (s *stubStep) HandleLocation(context.Context, *tgbotapi.Bot, *ext.Context, *UserState) StepResult {
	return StepResult{}
}

func (s *stubStep) HandlePhoto(context.Context, *tgbotapi.Bot, *ext.Context, *UserState) StepResult {
	return StepResult{}
}

type stubWorkflow struct {
	id      WorkflowID
	initial StepID
	steps   map[StepID]Step
}

func (w *stubWorkflow) ID() WorkflowID      { return w.id }
func (w *stubWorkflow) InitialStep() StepID { return w.initial }
func (w *stubWorkflow) GetStep(id StepID) (Step, bool) {
	s, ok := w.steps[id]
	return s, ok
}
func (w *stubWorkflow) Steps() []Step {
	out := make([]Step, 0, len(w.steps))
	for _, s := range w.steps {
		out = append(out, s)
	}
	return out
}

func newTestEngine(storage StateStorage) *WorkflowEngine {
	return NewWorkflowEngine(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func msgContext(userID int64) *ext.Context {
	return &ext.Context{
		EffectiveUser: &tgbotapi.User{Id: userID},
	}
}

func TestStartWorkflowAutoTransitions(t *testing.T) {
	storage := newMemStorage()
	engine := newTestEngine(storage)

	var firstEntered, secondEntered int
	first := &stubStep{
		id:          "first",
		entered:     &firstEntered,
		enterResult: StepResult{NextStep: "second", UpdateState: map[string]any{"seen": true}},
	}
	second := &stubStep{id: "second", entered: &secondEntered}

	engine.RegisterWorkflow(&stubWorkflow{
		id:      "test",
		initial: "first",
		steps:   map[StepID]Step{"first": first, "second": second},
	})

	require.NoError(t, engine.StartWorkflow(context.Background(), nil, 1, 1, "test", nil))

	assert.Equal(t, 1, firstEntered)
	assert.Equal(t, 1, secondEntered, "Enter results chain until a step waits")

	state, err := engine.GetState(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.EqualValues(t, "second", state.CurrentStep)
	assert.True(t, state.GetBool("seen"), "state updates survive the transition")
}

func TestStartWorkflowUnknown(t *testing.T) {
	engine := newTestEngine(newMemStorage())
	err := engine.StartWorkflow(context.Background(), nil, 1, 1, "missing", nil)
	require.Error(t, err)
}

func TestHandleMessageCompletesWorkflow(t *testing.T) {
	storage := newMemStorage()
	engine := newTestEngine(storage)

	step := &stubStep{id: "only", messageResult: StepResult{Complete: true}}
	engine.RegisterWorkflow(&stubWorkflow{
		id:      "test",
		initial: "only",
		steps:   map[StepID]Step{"only": step},
	})

	require.NoError(t, engine.StartWorkflow(context.Background(), nil, 1, 1, "test", nil))
	require.NoError(t, engine.HandleMessage(context.Background(), nil, msgContext(1)))

	active, err := engine.HasActiveWorkflow(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, active, "completion clears the state")
}

func TestHandleMessageWithoutWorkflow(t *testing.T) {
	engine := newTestEngine(newMemStorage())
	require.NoError(t, engine.HandleMessage(context.Background(), nil, msgContext(99)))
}

func TestStepErrorPropagates(t *testing.T) {
	storage := newMemStorage()
	engine := newTestEngine(storage)

	boom := errors.New("boom")
	step := &stubStep{id: "only", messageResult: StepResult{Error: boom}}
	engine.RegisterWorkflow(&stubWorkflow{
		id:      "test",
		initial: "only",
		steps:   map[StepID]Step{"only": step},
	})

	require.NoError(t, engine.StartWorkflow(context.Background(), nil, 1, 1, "test", nil))

	err := engine.HandleMessage(context.Background(), nil, msgContext(1))
	require.ErrorIs(t, err, boom)

	active, aerr := engine.HasActiveWorkflow(context.Background(), 1)
	require.NoError(t, aerr)
	assert.True(t, active, "errors leave the workflow resumable")
}

func TestCompleteWithErrorClearsState(t *testing.T) {
	storage := newMemStorage()
	engine := newTestEngine(storage)

	boom := errors.New("boom")
	step := &stubStep{id: "only", messageResult: StepResult{Complete: true, Error: boom}}
	engine.RegisterWorkflow(&stubWorkflow{
		id:      "test",
		initial: "only",
		steps:   map[StepID]Step{"only": step},
	})

	require.NoError(t, engine.StartWorkflow(context.Background(), nil, 1, 1, "test", nil))

	err := engine.HandleMessage(context.Background(), nil, msgContext(1))
	require.ErrorIs(t, err, boom)

	active, aerr := engine.HasActiveWorkflow(context.Background(), 1)
	require.NoError(t, aerr)
	assert.False(t, active, "a failed terminal step must not leave the user parked in it")
}

func TestStartWorkflowCarriesDeepLink(t *testing.T) {
	storage := newMemStorage()
	engine := newTestEngine(storage)

	step := &stubStep{id: "only"}
	engine.RegisterWorkflow(&stubWorkflow{
		id:      "test",
		initial: "only",
		steps:   map[StepID]Step{"only": step},
	})

	dl := &DeepLinkData{Type: DeepLinkTypeProduct, Code: "42"}
	require.NoError(t, engine.StartWorkflow(context.Background(), nil, 1, 1, "test", dl))

	state, err := engine.GetState(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, state.DeepLink)
	assert.Equal(t, "42", state.DeepLink.Code)
	assert.Equal(t, "product_42", state.DeepCode)
}
