package profileedit

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"shopbot/bot/workflow"
	"shopbot/bot/workflow/ui"

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

// SelectFieldStep - Show the current profile and field menu
type SelectFieldStep struct {
	BaseStep
	authService AuthService
}

func NewSelectFieldStep(authService AuthService) *SelectFieldStep {
	return &SelectFieldStep{
		BaseStep:    BaseStep{id: StepSelectField},
		authService: authService,
	}
}

func (s *SelectFieldStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	profile, err := s.authService.Profile(ctx, state.UserID)
	if err != nil {
		b.SendMessage(state.ChatID, "❌ You need to /register before editing a profile.", nil)
		return workflow.StepResult{Complete: true}
	}

	var sb strings.Builder
	sb.WriteString("<b>Your profile:</b>\n\n")
	sb.WriteString(fmt.Sprintf("👤 Name: %s\n", profile.Name))
	sb.WriteString(fmt.Sprintf("📱 Phone: %s\n", profile.PhoneNumber))
	if profile.Email != "" {
		sb.WriteString(fmt.Sprintf("📧 Email: %s\n", profile.Email))
	}
	if profile.Age > 0 {
		sb.WriteString(fmt.Sprintf("🔢 Age: %d\n", profile.Age))
	}
	if profile.HasLocation() {
		sb.WriteString("📍 Location: shared\n")
	}
	sb.WriteString("\nWhat do you want to change?")

	keyboard := ui.MainMenuKeyboard([][]ui.SelectableItem{
		{
			{ID: FieldName, Text: "👤 Name"},
			{ID: FieldPhone, Text: "📱 Phone"},
		},
		{
			{ID: FieldEmail, Text: "📧 Email"},
			{ID: FieldAge, Text: "🔢 Age"},
		},
		{
			{ID: FieldPhoto, Text: "🖼 Photo"},
			{ID: FieldLocation, Text: "📍 Location"},
		},
	})

	_, err = b.SendMessage(state.ChatID, sb.String(), &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *SelectFieldStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsMenu() {
		return workflow.StepResult{}
	}

	field := cb.MenuID()
	switch field {
	case FieldName, FieldPhone, FieldEmail, FieldAge, FieldPhoto, FieldLocation:
	default:
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return workflow.StepResult{
		NextStep:    StepEditValue,
		UpdateState: map[string]any{KeyField: field},
	}
}

// EditValueStep - Collect and store the new value for the chosen field
type EditValueStep struct {
	BaseStep
	authService AuthService
}

func NewEditValueStep(authService AuthService) *EditValueStep {
	return &EditValueStep{
		BaseStep:    BaseStep{id: StepEditValue},
		authService: authService,
	}
}

func (s *EditValueStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	prompts := map[string]string{
		FieldName:  "👤 Enter the new name:",
		FieldPhone: "📱 Tap the button to share the new phone number:",
		FieldEmail: "📧 Enter the new email:",
		FieldAge:   "🔢 Enter the new age:",
		FieldPhoto: "🖼 Send the new photo:",
	}

	field := state.GetString(KeyField)
	if field == FieldLocation {
		_, err := b.SendMessage(state.ChatID, "📍 Share the new location:", &tgbotapi.SendMessageOpts{
			ReplyMarkup: ui.LocationRequestKeyboard("📍 Share location"),
		})
		if err != nil {
			return workflow.StepResult{Error: err}
		}
		return workflow.StepResult{}
	}
	if field == FieldPhone {
		_, err := b.SendMessage(state.ChatID, prompts[field], &tgbotapi.SendMessageOpts{
			ReplyMarkup: ui.ContactRequestKeyboard("📱 Share phone number"),
		})
		if err != nil {
			return workflow.StepResult{Error: err}
		}
		return workflow.StepResult{}
	}

	_, err := b.SendMessage(state.ChatID, prompts[field], nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *EditValueStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	text := strings.TrimSpace(c.EffectiveMessage.Text)
	field := state.GetString(KeyField)

	switch field {
	case FieldName:
		if len([]rune(text)) < 2 {
			b.SendMessage(state.ChatID, "❌ The name looks too short. Try again.", nil)
			return workflow.StepResult{}
		}
		return s.save(ctx, b, state, s.authService.SetName(ctx, state.UserID, text))

	case FieldPhone:
		// The number has to come from the contact share.
		b.SendMessage(state.ChatID, "Please use the 📱 button to share the phone number.", nil)
		return workflow.StepResult{}

	case FieldEmail:
		if !emailRe.MatchString(text) {
			b.SendMessage(state.ChatID, "❌ That does not look like an email. Try again.", nil)
			return workflow.StepResult{}
		}
		return s.save(ctx, b, state, s.authService.SetEmail(ctx, state.UserID, text))

	case FieldAge:
		age, err := strconv.Atoi(text)
		if err != nil || age < 1 || age > 120 {
			b.SendMessage(state.ChatID, "❌ Please enter the age as a number.", nil)
			return workflow.StepResult{}
		}
		return s.save(ctx, b, state, s.authService.SetAge(ctx, state.UserID, age))
	}

	b.SendMessage(state.ChatID, "Please send the value the field expects.", nil)
	return workflow.StepResult{}
}

func (s *EditValueStep) HandleContact(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	if state.GetString(KeyField) != FieldPhone {
		return workflow.StepResult{}
	}
	contact := c.EffectiveMessage.Contact
	if contact == nil {
		return workflow.StepResult{}
	}
	return s.save(ctx, b, state, s.authService.SetPhone(ctx, state.UserID, contact.PhoneNumber))
}

func (s *EditValueStep) HandleLocation(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	if state.GetString(KeyField) != FieldLocation {
		return workflow.StepResult{}
	}
	loc := c.EffectiveMessage.Location
	if loc == nil {
		return workflow.StepResult{}
	}
	return s.save(ctx, b, state, s.authService.SetLocation(ctx, state.UserID, loc.Latitude, loc.Longitude))
}

func (s *EditValueStep) HandlePhoto(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	if state.GetString(KeyField) != FieldPhoto {
		return workflow.StepResult{}
	}
	photos := c.EffectiveMessage.Photo
	if len(photos) == 0 {
		return workflow.StepResult{}
	}
	photoID := photos[len(photos)-1].FileId
	return s.save(ctx, b, state, s.authService.SetPhoto(ctx, state.UserID, photoID))
}

func (s *EditValueStep) save(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState, err error) workflow.StepResult {
	if err != nil {
		b.SendMessage(state.ChatID, "❌ Could not save the change. Try again later.", &tgbotapi.SendMessageOpts{
			ReplyMarkup: ui.RemoveKeyboard(),
		})
		return workflow.StepResult{Complete: true, Error: err}
	}

	b.SendMessage(state.ChatID, "✅ Profile updated.", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.RemoveKeyboard(),
	})
	return workflow.StepResult{Complete: true}
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
