package profileedit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/bot/workflow"
	"shopbot/entity"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// apiStub swallows outgoing API calls instead of hitting Telegram.
type apiStub struct{}

func (apiStub) RequestWithContext(_ context.Context, _ string, method string, _ map[string]string, _ map[string]tgbotapi.FileReader, _ *tgbotapi.RequestOpts) (json.RawMessage, error) {
	if method == "answerCallbackQuery" {
		return json.RawMessage(`true`), nil
	}
	return json.RawMessage(`{}`), nil
}

func (apiStub) GetAPIURL(*tgbotapi.RequestOpts) string { return "" }

func (apiStub) FileURL(string, string, *tgbotapi.RequestOpts) string { return "" }

func newTestBot() *tgbotapi.Bot {
	return &tgbotapi.Bot{BotClient: apiStub{}}
}

// stubAuth records per-field writes.
type stubAuth struct {
	phone string
	name  string
}

func (a *stubAuth) Profile(context.Context, int64) (*entity.UserProfile, error) {
	return &entity.UserProfile{UserID: 1, Name: "Sam", PhoneNumber: "+111"}, nil
}

func (a *stubAuth) SetName(_ context.Context, _ int64, name string) error {
	a.name = name
	return nil
}

func (a *stubAuth) SetPhone(_ context.Context, _ int64, phone string) error {
	a.phone = phone
	return nil
}

func (a *stubAuth) SetEmail(context.Context, int64, string) error { return nil }

func (a *stubAuth) SetAge(context.Context, int64, int) error { return nil }

func (a *stubAuth) SetPhoto(context.Context, int64, string) error { return nil }

func (a *stubAuth) SetLocation(context.Context, int64, float64, float64) error { return nil }

func editState(field string) *workflow.UserState {
	state := workflow.NewUserState(1, 1, WorkflowID, StepEditValue)
	state.Set(KeyField, field)
	return state
}

func textContext(text string) *ext.Context {
	return &ext.Context{
		EffectiveUser:    &tgbotapi.User{Id: 1},
		EffectiveChat:    &tgbotapi.Chat{Id: 1},
		EffectiveMessage: &tgbotapi.Message{Text: text},
	}
}

func TestTypedPhoneEditIsRejected(t *testing.T) {
	auth := &stubAuth{}
	step := NewEditValueStep(auth)

	res := step.HandleMessage(context.Background(), newTestBot(), textContext("+12345678901"), editState(FieldPhone))
	assert.False(t, res.Complete, "a typed number must not finish the edit")
	assert.Empty(t, auth.phone)
}

func TestContactPhoneEditSaves(t *testing.T) {
	auth := &stubAuth{}
	step := NewEditValueStep(auth)

	ctx := &ext.Context{
		EffectiveUser: &tgbotapi.User{Id: 1},
		EffectiveChat: &tgbotapi.Chat{Id: 1},
		EffectiveMessage: &tgbotapi.Message{
			Contact: &tgbotapi.Contact{PhoneNumber: "+12345678901", UserId: 1},
		},
	}

	res := step.HandleContact(context.Background(), newTestBot(), ctx, editState(FieldPhone))
	require.True(t, res.Complete)
	assert.Equal(t, "+12345678901", auth.phone)
}

func TestNameEditSaves(t *testing.T) {
	auth := &stubAuth{}
	step := NewEditValueStep(auth)

	res := step.HandleMessage(context.Background(), newTestBot(), textContext("Robin"), editState(FieldName))
	require.True(t, res.Complete)
	assert.Equal(t, "Robin", auth.name)
}
