package review

import (
	"context"
	"fmt"
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

// RateStep - Ask for a star rating
type RateStep struct {
	BaseStep
	repo Repository
}

func NewRateStep(repo Repository) *RateStep {
	return &RateStep{
		BaseStep: BaseStep{id: StepRate},
		repo:     repo,
	}
}

func (s *RateStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	if !state.DeepLink.IsProductDeepLink() || !state.DeepLink.HasCode() {
		return workflow.StepResult{Complete: true}
	}

	id, err := strconv.ParseUint(state.DeepLink.Code, 10, 32)
	if err != nil {
		return workflow.StepResult{Complete: true}
	}

	product, err := s.repo.GetProduct(ctx, uint(id))
	if err != nil {
		b.SendMessage(state.ChatID, "❌ This product is no longer available.", nil)
		return workflow.StepResult{Complete: true}
	}

	_, err = b.SendMessage(state.ChatID,
		fmt.Sprintf("⭐ Rate <b>%s</b>:", product.Name),
		&tgbotapi.SendMessageOpts{
			ParseMode:   "HTML",
			ReplyMarkup: ui.RatingKeyboard(entity.MaxRating),
		})
	if err != nil {
		return workflow.StepResult{Error: err}
	}

	return workflow.StepResult{
		UpdateState: map[string]any{KeyProductID: int(id)},
	}
}

func (s *RateStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return workflow.StepResult{}
	}

	rating, err := strconv.Atoi(cb.SelectedID())
	if err != nil || !entity.ValidRating(rating) {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return workflow.StepResult{
		NextStep:    StepText,
		UpdateState: map[string]any{KeyRating: rating},
	}
}

// TextStep - Optional review text, then save
type TextStep struct {
	BaseStep
	repo Repository
}

func NewTextStep(repo Repository) *TextStep {
	return &TextStep{
		BaseStep: BaseStep{id: StepText},
		repo:     repo,
	}
}

func (s *TextStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "✍️ Add a few words about the product:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SkipKeyboard("Skip ➡️"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *TextStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	text := strings.TrimSpace(c.EffectiveMessage.Text)
	return s.store(ctx, b, state, text)
}

func (s *TextStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSkip() {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)
	return s.store(ctx, b, state, "")
}

func (s *TextStep) store(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState, text string) workflow.StepResult {
	review := &entity.Review{
		UserID:    state.UserID,
		ProductID: uint(state.GetInt(KeyProductID)),
		Rating:    state.GetInt(KeyRating),
		Text:      text,
	}

	if err := s.repo.AddReview(ctx, review); err != nil {
		b.SendMessage(state.ChatID, "❌ Could not save the review.", nil)
		return workflow.StepResult{Complete: true, Error: err}
	}

	b.SendMessage(state.ChatID, "🙏 Thanks for the review!", nil)
	return workflow.StepResult{Complete: true}
}
