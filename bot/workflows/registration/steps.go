package registration

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"shopbot/bot/workflow"
	"shopbot/bot/workflow/ui"
	"shopbot/entity"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// BaseStep provides common functionality for all steps.
type BaseStep struct {
	id workflow.StepID
}

func (s *BaseStep) ID() workflow.StepID {
	return s.id
}

func (s *BaseStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandleContact(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandleLocation(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandlePhoto(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

// CheckRegisteredStep - Bail out early for users who already registered
type CheckRegisteredStep struct {
	BaseStep
	authService AuthService
}

func NewCheckRegisteredStep(authService AuthService) *CheckRegisteredStep {
	return &CheckRegisteredStep{
		BaseStep:    BaseStep{id: StepCheckRegistered},
		authService: authService,
	}
}

func (s *CheckRegisteredStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	registered, err := s.authService.IsRegistered(ctx, state.UserID)
	if err != nil {
		return workflow.StepResult{Error: err}
	}

	if registered {
		b.SendMessage(state.ChatID, "✅ You are already registered. Use /profile to view your details.", nil)
		return workflow.StepResult{Complete: true}
	}

	return workflow.StepResult{NextStep: StepRequestName}
}

// RequestNameStep - Request user's name
type RequestNameStep struct {
	BaseStep
}

func NewRequestNameStep() *RequestNameStep {
	return &RequestNameStep{BaseStep: BaseStep{id: StepRequestName}}
}

func (s *RequestNameStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "<b>Welcome! 🛍</b>\nLet's get you registered. What is your name?", &tgbotapi.SendMessageOpts{
		ParseMode: "HTML",
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{} // Wait for user input
}

func (s *RequestNameStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	name := strings.TrimSpace(c.EffectiveMessage.Text)
	if len([]rune(name)) < 2 {
		b.SendMessage(state.ChatID, "❌ The name looks too short. Please try again.", nil)
		return workflow.StepResult{}
	}

	return workflow.StepResult{
		NextStep:    StepRequestPhone,
		UpdateState: map[string]any{KeyName: name},
	}
}

// RequestPhoneStep - Request phone number via contact button
type RequestPhoneStep struct {
	BaseStep
}

func NewRequestPhoneStep() *RequestPhoneStep {
	return &RequestPhoneStep{BaseStep: BaseStep{id: StepRequestPhone}}
}

func (s *RequestPhoneStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	keyboard := ui.ContactRequestKeyboard("📱 Share phone number")
	_, err := b.SendMessage(state.ChatID, "Tap the button below to share your phone number:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *RequestPhoneStep) HandleContact(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	contact := c.EffectiveMessage.Contact
	if contact == nil {
		return workflow.StepResult{}
	}

	phone := normalizePhone(contact.PhoneNumber)
	return workflow.StepResult{
		NextStep:    StepRequestLocation,
		UpdateState: map[string]any{KeyPhone: phone},
	}
}

// Typed numbers are not accepted; the number has to come from the
// contact share so it belongs to the account.
func (s *RequestPhoneStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	b.SendMessage(state.ChatID, "Please use the 📱 button below to share your phone number.", nil)
	return workflow.StepResult{}
}

// RequestLocationStep - Optional location sharing
type RequestLocationStep struct {
	BaseStep
}

func NewRequestLocationStep() *RequestLocationStep {
	return &RequestLocationStep{BaseStep: BaseStep{id: StepRequestLocation}}
}

func (s *RequestLocationStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "📍 Share your location to speed up delivery:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.LocationRequestKeyboard("📍 Share location"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	b.SendMessage(state.ChatID, "Or skip this step:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SkipKeyboard("Skip ➡️"),
	})
	return workflow.StepResult{}
}

func (s *RequestLocationStep) HandleLocation(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	loc := c.EffectiveMessage.Location
	if loc == nil {
		return workflow.StepResult{}
	}

	return workflow.StepResult{
		NextStep: StepRequestEmail,
		UpdateState: map[string]any{
			KeyLat:    loc.Latitude,
			KeyLon:    loc.Longitude,
			KeyHasGeo: true,
		},
	}
}

func (s *RequestLocationStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSkip() {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)
	return workflow.StepResult{NextStep: StepRequestEmail}
}

// RequestEmailStep - Optional email
type RequestEmailStep struct {
	BaseStep
}

func NewRequestEmailStep() *RequestEmailStep {
	return &RequestEmailStep{BaseStep: BaseStep{id: StepRequestEmail}}
}

func (s *RequestEmailStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "📧 Enter your email for order receipts:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.RemoveKeyboard(),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	b.SendMessage(state.ChatID, "Or skip this step:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SkipKeyboard("Skip ➡️"),
	})
	return workflow.StepResult{}
}

func (s *RequestEmailStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	email := strings.TrimSpace(c.EffectiveMessage.Text)
	if !isValidEmail(email) {
		b.SendMessage(state.ChatID, "❌ That does not look like an email. Try again or skip.", nil)
		return workflow.StepResult{}
	}

	return workflow.StepResult{
		NextStep:    StepRequestAge,
		UpdateState: map[string]any{KeyEmail: email},
	}
}

func (s *RequestEmailStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSkip() {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)
	return workflow.StepResult{NextStep: StepRequestAge}
}

// RequestAgeStep - Request age as a number
type RequestAgeStep struct {
	BaseStep
}

func NewRequestAgeStep() *RequestAgeStep {
	return &RequestAgeStep{BaseStep: BaseStep{id: StepRequestAge}}
}

func (s *RequestAgeStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "🔢 How old are you?", nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *RequestAgeStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	age, err := strconv.Atoi(strings.TrimSpace(c.EffectiveMessage.Text))
	if err != nil || age < 1 || age > 120 {
		b.SendMessage(state.ChatID, "❌ Please enter your age as a number.", nil)
		return workflow.StepResult{}
	}

	return workflow.StepResult{
		NextStep:    StepRequestPhoto,
		UpdateState: map[string]any{KeyAge: age},
	}
}

// RequestPhotoStep - Required profile photo
type RequestPhotoStep struct {
	BaseStep
}

func NewRequestPhotoStep() *RequestPhotoStep {
	return &RequestPhotoStep{BaseStep: BaseStep{id: StepRequestPhoto}}
}

func (s *RequestPhotoStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "🖼 Send a profile photo:", nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *RequestPhotoStep) HandlePhoto(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	photos := c.EffectiveMessage.Photo
	if len(photos) == 0 {
		return workflow.StepResult{}
	}

	// Largest size is last
	photoID := photos[len(photos)-1].FileId
	return workflow.StepResult{
		NextStep:    StepConfirm,
		UpdateState: map[string]any{KeyPhotoID: photoID},
	}
}

func (s *RequestPhotoStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	b.SendMessage(state.ChatID, "Please send a photo to continue.", nil)
	return workflow.StepResult{}
}

// ConfirmStep - Show the collected profile and save on confirmation
type ConfirmStep struct {
	BaseStep
	authService AuthService
}

func NewConfirmStep(authService AuthService) *ConfirmStep {
	return &ConfirmStep{
		BaseStep:    BaseStep{id: StepConfirm},
		authService: authService,
	}
}

func (s *ConfirmStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	var sb strings.Builder
	sb.WriteString("<b>Please check your details:</b>\n\n")
	sb.WriteString(fmt.Sprintf("👤 Name: %s\n", state.GetString(KeyName)))
	sb.WriteString(fmt.Sprintf("📱 Phone: %s\n", state.GetString(KeyPhone)))
	if email := state.GetString(KeyEmail); email != "" {
		sb.WriteString(fmt.Sprintf("📧 Email: %s\n", email))
	}
	if age := state.GetInt(KeyAge); age > 0 {
		sb.WriteString(fmt.Sprintf("🔢 Age: %d\n", age))
	}
	if state.GetBool(KeyHasGeo) {
		sb.WriteString("📍 Location: shared\n")
	}
	if state.GetString(KeyPhotoID) != "" {
		sb.WriteString("🖼 Photo: uploaded\n")
	}

	_, err := b.SendMessage(state.ChatID, sb.String(), &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: ui.ConfirmCancelKeyboard("✅ Confirm", "❌ Cancel"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *ConfirmStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	switch {
	case cb.IsCancel():
		b.SendMessage(state.ChatID, "Registration cancelled. You can restart it anytime with /register.", nil)
		return workflow.StepResult{Complete: true}

	case cb.IsConfirm():
		profile := &entity.UserProfile{
			UserID:      state.UserID,
			Name:        state.GetString(KeyName),
			PhoneNumber: state.GetString(KeyPhone),
			Email:       state.GetString(KeyEmail),
			Age:         state.GetInt(KeyAge),
			PhotoID:     state.GetString(KeyPhotoID),
		}
		if state.GetBool(KeyHasGeo) {
			lat := state.GetFloat(KeyLat)
			lon := state.GetFloat(KeyLon)
			profile.LocationLat = &lat
			profile.LocationLon = &lon
		}

		if err := s.authService.Register(ctx, profile); err != nil {
			b.SendMessage(state.ChatID, "❌ Could not save your profile. Please try /register again.", nil)
			return workflow.StepResult{Complete: true, Error: err}
		}

		b.SendMessage(state.ChatID, "🎉 Registration complete! Browse the catalog with /catalog.", nil)
		return workflow.StepResult{Complete: true}
	}

	return workflow.StepResult{}
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func normalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	return phone
}

func isValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
