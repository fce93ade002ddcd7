package registration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/bot/workflow"

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

func testState(step workflow.StepID) *workflow.UserState {
	return workflow.NewUserState(1, 1, WorkflowID, step)
}

func textContext(text string) *ext.Context {
	return &ext.Context{
		EffectiveUser:    &tgbotapi.User{Id: 1},
		EffectiveChat:    &tgbotapi.Chat{Id: 1},
		EffectiveMessage: &tgbotapi.Message{Text: text},
	}
}

func TestTypedPhoneIsRejected(t *testing.T) {
	step := NewRequestPhoneStep()
	state := testState(StepRequestPhone)

	res := step.HandleMessage(context.Background(), newTestBot(), textContext("+12345678901"), state)
	assert.Empty(t, res.NextStep, "a typed number must not advance the flow")
	assert.Nil(t, res.UpdateState)
}

func TestSharedContactAdvances(t *testing.T) {
	step := NewRequestPhoneStep()
	state := testState(StepRequestPhone)

	ctx := &ext.Context{
		EffectiveUser: &tgbotapi.User{Id: 1},
		EffectiveChat: &tgbotapi.Chat{Id: 1},
		EffectiveMessage: &tgbotapi.Message{
			Contact: &tgbotapi.Contact{PhoneNumber: "12345678901", UserId: 1},
		},
	}

	res := step.HandleContact(context.Background(), newTestBot(), ctx, state)
	require.Equal(t, StepRequestLocation, res.NextStep)
	assert.Equal(t, "+12345678901", res.UpdateState[KeyPhone])
}

func TestPhotoIsRequired(t *testing.T) {
	step := NewRequestPhotoStep()
	state := testState(StepRequestPhoto)

	res := step.HandleMessage(context.Background(), newTestBot(), textContext("no thanks"), state)
	assert.Empty(t, res.NextStep, "text must not substitute for the photo")

	res = step.HandleCallback(context.Background(), newTestBot(), textContext(""), state, "wf:skip")
	assert.Empty(t, res.NextStep, "the photo step offers no skip")

	photoCtx := &ext.Context{
		EffectiveUser: &tgbotapi.User{Id: 1},
		EffectiveChat: &tgbotapi.Chat{Id: 1},
		EffectiveMessage: &tgbotapi.Message{
			Photo: []tgbotapi.PhotoSize{{FileId: "small"}, {FileId: "large"}},
		},
	}
	res = step.HandlePhoto(context.Background(), newTestBot(), photoCtx, state)
	require.Equal(t, StepConfirm, res.NextStep)
	assert.Equal(t, "large", res.UpdateState[KeyPhotoID], "the largest size wins")
}
