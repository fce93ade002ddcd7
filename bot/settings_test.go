package bot

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/entity"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// apiStub records outgoing API calls instead of hitting Telegram.
type apiStub struct {
	calls []apiCall
}

type apiCall struct {
	method string
	params map[string]string
}

func (a *apiStub) RequestWithContext(_ context.Context, _ string, method string, params map[string]string, _ map[string]tgbotapi.FileReader, _ *tgbotapi.RequestOpts) (json.RawMessage, error) {
	a.calls = append(a.calls, apiCall{method: method, params: params})
	if method == "answerCallbackQuery" {
		return json.RawMessage(`true`), nil
	}
	return json.RawMessage(`{}`), nil
}

func (a *apiStub) GetAPIURL(*tgbotapi.RequestOpts) string { return "" }

func (a *apiStub) FileURL(string, string, *tgbotapi.RequestOpts) string { return "" }

func (a *apiStub) lastText() string {
	for i := len(a.calls) - 1; i >= 0; i-- {
		if a.calls[i].method == "sendMessage" {
			return a.calls[i].params["text"]
		}
	}
	return ""
}

// stubAuth covers the admin management surface; everything else panics if
// touched.
type stubAuth struct {
	AuthService
	superAdminID int64
	granted      map[int64]bool
}

func (a *stubAuth) IsSuperAdmin(userID int64) bool { return userID == a.superAdminID }

func (a *stubAuth) GrantAdmin(_ context.Context, _ int64, userID int64, isAdmin bool) error {
	if a.granted == nil {
		a.granted = make(map[int64]bool)
	}
	a.granted[userID] = isAdmin
	return nil
}

func (a *stubAuth) Admins(context.Context) ([]entity.User, error) {
	return []entity.User{{UserID: 2, Username: "helper"}}, nil
}

func newTestUserBot(api *apiStub, auth AuthService) *UserBot {
	return &UserBot{
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		authService: auth,
	}
}

func commandContext(userID int64, text string) *ext.Context {
	return &ext.Context{
		EffectiveUser:    &tgbotapi.User{Id: userID},
		EffectiveChat:    &tgbotapi.Chat{Id: userID},
		EffectiveMessage: &tgbotapi.Message{Text: text},
	}
}

func TestSuperAdminGrants(t *testing.T) {
	api := &apiStub{}
	auth := &stubAuth{superAdminID: 1}
	b := newTestUserBot(api, auth)

	err := b.handleSuperAdmin(&tgbotapi.Bot{BotClient: api}, commandContext(1, "/superadmin 42"))
	require.NoError(t, err)
	assert.True(t, auth.granted[42])
}

func TestSuperAdminRevokes(t *testing.T) {
	api := &apiStub{}
	auth := &stubAuth{superAdminID: 1}
	b := newTestUserBot(api, auth)

	err := b.handleSuperAdmin(&tgbotapi.Bot{BotClient: api}, commandContext(1, "/superadmin remove 42"))
	require.NoError(t, err)

	granted, ok := auth.granted[42]
	require.True(t, ok, "the revoke path must reach the service")
	assert.False(t, granted)
	assert.Contains(t, api.lastText(), "no longer an admin")
}

func TestSuperAdminRejectsOthers(t *testing.T) {
	api := &apiStub{}
	auth := &stubAuth{superAdminID: 1}
	b := newTestUserBot(api, auth)

	err := b.handleSuperAdmin(&tgbotapi.Bot{BotClient: api}, commandContext(7, "/superadmin 42"))
	require.NoError(t, err)
	assert.Empty(t, auth.granted)
}

func TestSuperAdminBadArgsShowUsage(t *testing.T) {
	api := &apiStub{}
	auth := &stubAuth{superAdminID: 1}
	b := newTestUserBot(api, auth)

	err := b.handleSuperAdmin(&tgbotapi.Bot{BotClient: api}, commandContext(1, "/superadmin remove forty-two"))
	require.NoError(t, err)
	assert.Empty(t, auth.granted)
	assert.Contains(t, api.lastText(), "Usage:")
}

func TestHelpTextIsValidHTML(t *testing.T) {
	api := &apiStub{}
	b := newTestUserBot(api, &stubAuth{})

	err := b.handleHelp(&tgbotapi.Bot{BotClient: api}, commandContext(1, "/help"))
	require.NoError(t, err)

	text := api.lastText()
	assert.Contains(t, text, "&lt;query&gt;")
	for _, line := range strings.Split(text, "\n") {
		assert.NotContains(t, line, "<query>", "angle brackets must be escaped in HTML mode")
	}
}
