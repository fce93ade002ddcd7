package adminpanel

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/bot/workflow"
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

func (a *apiStub) sentTo(chatID string) int {
	n := 0
	for _, c := range a.calls {
		if c.method == "sendMessage" && c.params["chat_id"] == chatID {
			n++
		}
	}
	return n
}

func newTestBot(a *apiStub) *tgbotapi.Bot {
	return &tgbotapi.Bot{BotClient: a}
}

func callbackContext(userID int64, data string) *ext.Context {
	return &ext.Context{
		Update: &tgbotapi.Update{
			CallbackQuery: &tgbotapi.CallbackQuery{Id: "cb", From: tgbotapi.User{Id: userID}, Data: data},
		},
		EffectiveUser: &tgbotapi.User{Id: userID},
		EffectiveChat: &tgbotapi.Chat{Id: userID},
	}
}

func messageContext(userID int64, text string) *ext.Context {
	return &ext.Context{
		EffectiveUser:    &tgbotapi.User{Id: userID},
		EffectiveChat:    &tgbotapi.Chat{Id: userID},
		EffectiveMessage: &tgbotapi.Message{Text: text},
	}
}

// stubRepo records catalog writes and serves canned reads.
type stubRepo struct {
	categories []entity.Category
	products   map[uint]*entity.Product
	users      []entity.User

	updatedField string
	updatedPrice decimal.Decimal
	updatedQty   int
	updatedCat   uint
	added        *entity.Product
}

func (r *stubRepo) AddCategory(_ context.Context, c *entity.Category) error { return nil }

func (r *stubRepo) DeleteCategory(context.Context, uint) error { return nil }

func (r *stubRepo) GetCategory(_ context.Context, id uint) (*entity.Category, error) {
	for i := range r.categories {
		if r.categories[i].ID == id {
			return &r.categories[i], nil
		}
	}
	return nil, assert.AnError
}

func (r *stubRepo) GetCategories(context.Context) ([]entity.Category, error) {
	return r.categories, nil
}

func (r *stubRepo) AddProduct(_ context.Context, p *entity.Product) error {
	r.added = p
	return nil
}

func (r *stubRepo) DeleteProduct(context.Context, uint) error { return nil }

func (r *stubRepo) GetProduct(_ context.Context, id uint) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, assert.AnError
	}
	return p, nil
}

func (r *stubRepo) ProductsByCategory(context.Context, uint) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubRepo) UpdateProductName(_ context.Context, _ uint, name string) error {
	r.updatedField = FieldName
	return nil
}

func (r *stubRepo) UpdateProductDescription(_ context.Context, _ uint, _ string) error {
	r.updatedField = FieldDescription
	return nil
}

func (r *stubRepo) UpdateProductPrice(_ context.Context, _ uint, price decimal.Decimal) error {
	r.updatedField = FieldPrice
	r.updatedPrice = price
	return nil
}

func (r *stubRepo) UpdateProductQuantity(_ context.Context, _ uint, qty int) error {
	r.updatedField = FieldQuantity
	r.updatedQty = qty
	return nil
}

func (r *stubRepo) UpdateProductPhoto(_ context.Context, _ uint, _ string) error {
	r.updatedField = FieldPhoto
	return nil
}

func (r *stubRepo) UpdateProductCategory(_ context.Context, _ uint, categoryID uint) error {
	r.updatedField = FieldCategory
	r.updatedCat = categoryID
	return nil
}

func (r *stubRepo) GetUser(_ context.Context, userID int64) (*entity.User, error) {
	for i := range r.users {
		if r.users[i].UserID == userID {
			return &r.users[i], nil
		}
	}
	return nil, assert.AnError
}

func (r *stubRepo) UsersWithNotifications(context.Context) ([]entity.User, error) {
	out := []entity.User{}
	for _, u := range r.users {
		if u.Notifications {
			out = append(out, u)
		}
	}
	return out, nil
}

// stubOrders serves one canned order and records status changes.
type stubOrders struct {
	order     *entity.Order
	setStatus entity.OrderStatus
}

func (o *stubOrders) PendingOrders(context.Context) ([]entity.Order, error) {
	return []entity.Order{*o.order}, nil
}

func (o *stubOrders) Order(context.Context, uint) (*entity.Order, error) { return o.order, nil }

func (o *stubOrders) Items(context.Context, uint) ([]entity.OrderItem, error) { return nil, nil }

func (o *stubOrders) SetStatus(_ context.Context, _ uint, status entity.OrderStatus) error {
	o.setStatus = status
	return nil
}

func adminState(step workflow.StepID, data map[string]any) *workflow.UserState {
	state := workflow.NewUserState(1, 1, WorkflowID, step)
	state.MergeData(data)
	return state
}

func TestMenuOffersProductEditing(t *testing.T) {
	api := &apiStub{}
	step := NewMenuStep()
	state := adminState(StepMenu, nil)

	res := step.HandleCallback(context.Background(), newTestBot(api), callbackContext(1, "wf:menu:edit_product"), state, "wf:menu:edit_product")
	assert.Equal(t, StepEditProductCat, res.NextStep)
}

func TestEditFieldRoutesToValue(t *testing.T) {
	api := &apiStub{}
	repo := &stubRepo{}
	step := NewEditFieldStep(repo)
	state := adminState(StepEditField, map[string]any{KeyProductID: 7})

	res := step.HandleCallback(context.Background(), newTestBot(api), callbackContext(1, "wf:menu:price"), state, "wf:menu:price")
	assert.Equal(t, StepEditValue, res.NextStep)
	assert.Equal(t, FieldPrice, res.UpdateState[KeyEditField])
}

func TestEditFieldDoneReturnsToMenu(t *testing.T) {
	api := &apiStub{}
	step := NewEditFieldStep(&stubRepo{})
	state := adminState(StepEditField, map[string]any{KeyProductID: 7})

	res := step.HandleCallback(context.Background(), newTestBot(api), callbackContext(1, "wf:menu:done"), state, "wf:menu:done")
	assert.Equal(t, StepMenu, res.NextStep)
}

func TestEditValueUpdatesPrice(t *testing.T) {
	api := &apiStub{}
	repo := &stubRepo{}
	step := NewEditValueStep(repo)
	state := adminState(StepEditValue, map[string]any{KeyProductID: 7, KeyEditField: FieldPrice})

	res := step.HandleMessage(context.Background(), newTestBot(api), messageContext(1, "249.90"), state)
	require.Equal(t, StepEditField, res.NextStep, "a saved field goes back to the picker")
	assert.Equal(t, FieldPrice, repo.updatedField)
	assert.True(t, repo.updatedPrice.Equal(decimal.RequireFromString("249.90")))
}

func TestEditValueRejectsBadPrice(t *testing.T) {
	api := &apiStub{}
	repo := &stubRepo{}
	step := NewEditValueStep(repo)
	state := adminState(StepEditValue, map[string]any{KeyProductID: 7, KeyEditField: FieldPrice})

	res := step.HandleMessage(context.Background(), newTestBot(api), messageContext(1, "cheap"), state)
	assert.Empty(t, res.NextStep, "invalid input re-prompts in place")
	assert.Empty(t, repo.updatedField)
}

func TestEditValueUpdatesQuantity(t *testing.T) {
	api := &apiStub{}
	repo := &stubRepo{}
	step := NewEditValueStep(repo)
	state := adminState(StepEditValue, map[string]any{KeyProductID: 7, KeyEditField: FieldQuantity})

	res := step.HandleMessage(context.Background(), newTestBot(api), messageContext(1, "12"), state)
	assert.Equal(t, StepEditField, res.NextStep)
	assert.Equal(t, 12, repo.updatedQty)
}

func TestEditValueUpdatesCategoryFromSelection(t *testing.T) {
	api := &apiStub{}
	repo := &stubRepo{}
	step := NewEditValueStep(repo)
	state := adminState(StepEditValue, map[string]any{KeyProductID: 7, KeyEditField: FieldCategory})

	res := step.HandleCallback(context.Background(), newTestBot(api), callbackContext(1, "wf:select:3"), state, "wf:select:3")
	assert.Equal(t, StepEditField, res.NextStep)
	assert.Equal(t, FieldCategory, repo.updatedField)
	assert.EqualValues(t, 3, repo.updatedCat)
}

func TestNewProductBroadcastHonorsOptOut(t *testing.T) {
	api := &apiStub{}
	repo := &stubRepo{
		users: []entity.User{
			{UserID: 1, Notifications: true},  // the admin running the flow
			{UserID: 2, Notifications: true},  // opted in
			{UserID: 3, Notifications: false}, // opted out
		},
	}
	step := NewConfirmProductStep(repo)
	state := adminState(StepConfirmProduct, map[string]any{
		KeyCategoryID:   1,
		KeyProductName:  "Lamp",
		KeyProductDesc:  "Warm light",
		KeyProductPrice: "49.90",
		KeyProductQty:   3,
	})

	res := step.HandleCallback(context.Background(), newTestBot(api), callbackContext(1, "wf:confirm"), state, "wf:confirm")
	require.Equal(t, StepMenu, res.NextStep)
	require.NotNil(t, repo.added)

	assert.Equal(t, 1, api.sentTo("2"), "opted-in users hear about the new product")
	assert.Zero(t, api.sentTo("3"), "opted-out users stay silent")
}

func TestStatusNotificationHonorsOptOut(t *testing.T) {
	order := &entity.Order{OrderID: 9, UserID: 5, Status: entity.OrderStatusPending}

	for _, tc := range []struct {
		name    string
		optedIn bool
		want    int
	}{
		{name: "opted in", optedIn: true, want: 1},
		{name: "opted out", optedIn: false, want: 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			api := &apiStub{}
			repo := &stubRepo{users: []entity.User{{UserID: 5, Notifications: tc.optedIn}}}
			orders := &stubOrders{order: order}
			step := NewOrderDetailStep(orders, repo)
			state := adminState(StepOrderDetail, map[string]any{KeyOrderID: 9})

			res := step.HandleCallback(context.Background(), newTestBot(api),
				callbackContext(1, "wf:select:processing"), state, "wf:select:processing")
			require.Equal(t, StepMenu, res.NextStep)
			assert.Equal(t, entity.OrderStatusProcessing, orders.setStatus)
			assert.Equal(t, tc.want, api.sentTo("5"))
		})
	}
}
