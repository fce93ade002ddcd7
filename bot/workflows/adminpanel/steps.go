package adminpanel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

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

// MenuStep - Admin panel entry menu
type MenuStep struct {
	BaseStep
}

func NewMenuStep() *MenuStep {
	return &MenuStep{BaseStep: BaseStep{id: StepMenu}}
}

func (s *MenuStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	keyboard := ui.MainMenuKeyboard([][]ui.SelectableItem{
		{
			{ID: MenuAddCategory, Text: "➕ Category"},
			{ID: MenuDeleteCategory, Text: "🗑 Category"},
		},
		{
			{ID: MenuAddProduct, Text: "➕ Product"},
			{ID: MenuEditProduct, Text: "✏️ Product"},
			{ID: MenuDeleteProduct, Text: "🗑 Product"},
		},
		{
			{ID: MenuOrders, Text: "📋 Pending orders"},
		},
		{
			{ID: MenuClose, Text: "❌ Close"},
		},
	})

	_, err := b.SendMessage(state.ChatID, "<b>⚙️ Admin panel</b>", &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *MenuStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsMenu() {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	switch cb.MenuID() {
	case MenuAddCategory:
		return workflow.StepResult{NextStep: StepAddCategory}
	case MenuDeleteCategory:
		return workflow.StepResult{NextStep: StepDeleteCategory}
	case MenuAddProduct:
		return workflow.StepResult{NextStep: StepProductName}
	case MenuEditProduct:
		return workflow.StepResult{NextStep: StepEditProductCat}
	case MenuDeleteProduct:
		return workflow.StepResult{NextStep: StepDelProductCat}
	case MenuOrders:
		return workflow.StepResult{NextStep: StepOrders}
	case MenuClose:
		b.SendMessage(state.ChatID, "Admin panel closed.", nil)
		return workflow.StepResult{Complete: true}
	}

	return workflow.StepResult{}
}

// AddCategoryStep - Create a category from a text message
type AddCategoryStep struct {
	BaseStep
	repo Repository
}

func NewAddCategoryStep(repo Repository) *AddCategoryStep {
	return &AddCategoryStep{BaseStep: BaseStep{id: StepAddCategory}, repo: repo}
}

func (s *AddCategoryStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Enter the new category name:", nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *AddCategoryStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	name := strings.TrimSpace(c.EffectiveMessage.Text)
	if name == "" {
		return workflow.StepResult{}
	}

	if err := s.repo.AddCategory(ctx, &entity.Category{Name: name}); err != nil {
		b.SendMessage(state.ChatID, "❌ Could not create the category.", nil)
		return workflow.StepResult{NextStep: StepMenu, Error: err}
	}

	b.SendMessage(state.ChatID, fmt.Sprintf("✅ Category «%s» created.", name), nil)
	return workflow.StepResult{NextStep: StepMenu}
}

// DeleteCategoryStep - Pick a category to delete
type DeleteCategoryStep struct {
	BaseStep
	repo Repository
}

func NewDeleteCategoryStep(repo Repository) *DeleteCategoryStep {
	return &DeleteCategoryStep{BaseStep: BaseStep{id: StepDeleteCategory}, repo: repo}
}

func (s *DeleteCategoryStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	if len(categories) == 0 {
		b.SendMessage(state.ChatID, "There are no categories yet.", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	items := make([]ui.SelectableItem, len(categories))
	for i, cat := range categories {
		items[i] = ui.SelectableItem{
			ID:   strconv.FormatUint(uint64(cat.ID), 10),
			Text: cat.Name,
		}
	}

	_, err = b.SendMessage(state.ChatID, "Choose the category to delete:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SelectionKeyboard(items),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *DeleteCategoryStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return workflow.StepResult{}
	}

	id, err := strconv.ParseUint(cb.SelectedID(), 10, 32)
	if err != nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return workflow.StepResult{
		NextStep:    StepConfirmDelCat,
		UpdateState: map[string]any{KeyCategoryID: int(id)},
	}
}

// ConfirmDelCatStep - Double confirmation before a cascade delete
type ConfirmDelCatStep struct {
	BaseStep
	repo Repository
}

func NewConfirmDelCatStep(repo Repository) *ConfirmDelCatStep {
	return &ConfirmDelCatStep{BaseStep: BaseStep{id: StepConfirmDelCat}, repo: repo}
}

func (s *ConfirmDelCatStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	category, err := s.repo.GetCategory(ctx, uint(state.GetInt(KeyCategoryID)))
	if err != nil {
		b.SendMessage(state.ChatID, "❌ Category not found.", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	msg := fmt.Sprintf("⚠️ Delete category «%s» with all its products?", category.Name)
	_, err = b.SendMessage(state.ChatID, msg, &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.ConfirmCancelKeyboard("✅ Yes, delete", "❌ Cancel"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{UpdateState: map[string]any{KeyCategoryName: category.Name}}
}

func (s *ConfirmDelCatStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	switch {
	case cb.IsCancel():
		b.SendMessage(state.ChatID, "Deletion cancelled.", nil)
		return workflow.StepResult{NextStep: StepMenu}

	case cb.IsConfirm():
		if err := s.repo.DeleteCategory(ctx, uint(state.GetInt(KeyCategoryID))); err != nil {
			b.SendMessage(state.ChatID, "❌ Could not delete the category.", nil)
			return workflow.StepResult{NextStep: StepMenu, Error: err}
		}
		b.SendMessage(state.ChatID, fmt.Sprintf("🗑 Category «%s» deleted.", state.GetString(KeyCategoryName)), nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	return workflow.StepResult{}
}

// ProductNameStep - First step of product creation
type ProductNameStep struct {
	BaseStep
}

func NewProductNameStep() *ProductNameStep {
	return &ProductNameStep{BaseStep: BaseStep{id: StepProductName}}
}

func (s *ProductNameStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Enter the product name:", nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *ProductNameStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	name := strings.TrimSpace(c.EffectiveMessage.Text)
	if name == "" {
		return workflow.StepResult{}
	}
	return workflow.StepResult{
		NextStep:    StepProductDesc,
		UpdateState: map[string]any{KeyProductName: name},
	}
}

// ProductDescStep - Product description
type ProductDescStep struct {
	BaseStep
}

func NewProductDescStep() *ProductDescStep {
	return &ProductDescStep{BaseStep: BaseStep{id: StepProductDesc}}
}

func (s *ProductDescStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Enter the product description:", nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *ProductDescStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{
		NextStep:    StepProductPrice,
		UpdateState: map[string]any{KeyProductDesc: strings.TrimSpace(c.EffectiveMessage.Text)},
	}
}

// ProductPriceStep - Product price as a decimal
type ProductPriceStep struct {
	BaseStep
}

func NewProductPriceStep() *ProductPriceStep {
	return &ProductPriceStep{BaseStep: BaseStep{id: StepProductPrice}}
}

func (s *ProductPriceStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Enter the price (e.g. 199.90):", nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *ProductPriceStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	price, err := decimal.NewFromString(strings.TrimSpace(c.EffectiveMessage.Text))
	if err != nil || price.IsNegative() || price.IsZero() {
		b.SendMessage(state.ChatID, "❌ Enter a positive number.", nil)
		return workflow.StepResult{}
	}
	return workflow.StepResult{
		NextStep:    StepProductQty,
		UpdateState: map[string]any{KeyProductPrice: price.String()},
	}
}

// ProductQtyStep - Initial stock quantity
type ProductQtyStep struct {
	BaseStep
}

func NewProductQtyStep() *ProductQtyStep {
	return &ProductQtyStep{BaseStep: BaseStep{id: StepProductQty}}
}

func (s *ProductQtyStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Enter the stock quantity:", nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *ProductQtyStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	qty, err := strconv.Atoi(strings.TrimSpace(c.EffectiveMessage.Text))
	if err != nil || qty < 0 {
		b.SendMessage(state.ChatID, "❌ Enter a whole number, zero or more.", nil)
		return workflow.StepResult{}
	}
	return workflow.StepResult{
		NextStep:    StepProductPhoto,
		UpdateState: map[string]any{KeyProductQty: qty},
	}
}

// ProductPhotoStep - Optional product photo
type ProductPhotoStep struct {
	BaseStep
}

func NewProductPhotoStep() *ProductPhotoStep {
	return &ProductPhotoStep{BaseStep: BaseStep{id: StepProductPhoto}}
}

func (s *ProductPhotoStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Send a product photo:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SkipKeyboard("Skip ➡️"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *ProductPhotoStep) HandlePhoto(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	photos := c.EffectiveMessage.Photo
	if len(photos) == 0 {
		return workflow.StepResult{}
	}
	return workflow.StepResult{
		NextStep:    StepProductCategory,
		UpdateState: map[string]any{KeyProductPhoto: photos[len(photos)-1].FileId},
	}
}

func (s *ProductPhotoStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSkip() {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)
	return workflow.StepResult{NextStep: StepProductCategory}
}

// ProductCategoryStep - Assign the product to a category
type ProductCategoryStep struct {
	BaseStep
	repo Repository
}

func NewProductCategoryStep(repo Repository) *ProductCategoryStep {
	return &ProductCategoryStep{BaseStep: BaseStep{id: StepProductCategory}, repo: repo}
}

func (s *ProductCategoryStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	if len(categories) == 0 {
		b.SendMessage(state.ChatID, "Create a category first.", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	items := make([]ui.SelectableItem, len(categories))
	for i, cat := range categories {
		items[i] = ui.SelectableItem{
			ID:   strconv.FormatUint(uint64(cat.ID), 10),
			Text: cat.Name,
		}
	}

	_, err = b.SendMessage(state.ChatID, "Choose the category for the product:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SelectionKeyboard(items),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *ProductCategoryStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return workflow.StepResult{}
	}

	id, err := strconv.ParseUint(cb.SelectedID(), 10, 32)
	if err != nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return workflow.StepResult{
		NextStep:    StepConfirmProduct,
		UpdateState: map[string]any{KeyCategoryID: int(id)},
	}
}

// ConfirmProductStep - Review the new product and save it
type ConfirmProductStep struct {
	BaseStep
	repo Repository
}

func NewConfirmProductStep(repo Repository) *ConfirmProductStep {
	return &ConfirmProductStep{BaseStep: BaseStep{id: StepConfirmProduct}, repo: repo}
}

func (s *ConfirmProductStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	msg := fmt.Sprintf(
		"<b>New product:</b>\n\n"+
			"📦 %s\n%s\n\n"+
			"💰 Price: %s\n"+
			"🔢 In stock: %d",
		state.GetString(KeyProductName),
		state.GetString(KeyProductDesc),
		state.GetString(KeyProductPrice),
		state.GetInt(KeyProductQty),
	)

	_, err := b.SendMessage(state.ChatID, msg, &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: ui.ConfirmCancelKeyboard("✅ Save", "❌ Cancel"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *ConfirmProductStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	switch {
	case cb.IsCancel():
		b.SendMessage(state.ChatID, "Product discarded.", nil)
		return workflow.StepResult{NextStep: StepMenu}

	case cb.IsConfirm():
		price, err := decimal.NewFromString(state.GetString(KeyProductPrice))
		if err != nil {
			return workflow.StepResult{NextStep: StepMenu, Error: err}
		}

		product := &entity.Product{
			CategoryID:  uint(state.GetInt(KeyCategoryID)),
			Name:        state.GetString(KeyProductName),
			Description: state.GetString(KeyProductDesc),
			Price:       price,
			PhotoID:     state.GetString(KeyProductPhoto),
			Quantity:    state.GetInt(KeyProductQty),
		}

		if err := s.repo.AddProduct(ctx, product); err != nil {
			b.SendMessage(state.ChatID, "❌ Could not save the product.", nil)
			return workflow.StepResult{NextStep: StepMenu, Error: err}
		}

		b.SendMessage(state.ChatID, fmt.Sprintf("✅ Product «%s» added.", product.Name), nil)
		s.broadcast(ctx, b, state.UserID, product)
		return workflow.StepResult{NextStep: StepMenu}
	}

	return workflow.StepResult{}
}

// broadcast announces the new product to users who opted in to
// notifications. Send failures are skipped; a blocked bot must not break
// the admin flow.
func (s *ConfirmProductStep) broadcast(ctx context.Context, b *tgbotapi.Bot, adminID int64, product *entity.Product) {
	users, err := s.repo.UsersWithNotifications(ctx)
	if err != nil {
		return
	}

	msg := fmt.Sprintf("🆕 New in the catalog: «%s» — %s. Check /catalog!",
		product.Name, product.Price.StringFixed(2))
	for _, u := range users {
		if u.UserID == adminID {
			continue
		}
		b.SendMessage(u.UserID, msg, nil)
	}
}

// DelProductCatStep - Pick the category of the product to delete
type DelProductCatStep struct {
	BaseStep
	repo Repository
}

func NewDelProductCatStep(repo Repository) *DelProductCatStep {
	return &DelProductCatStep{BaseStep: BaseStep{id: StepDelProductCat}, repo: repo}
}

func (s *DelProductCatStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	if len(categories) == 0 {
		b.SendMessage(state.ChatID, "There are no categories yet.", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	items := make([]ui.SelectableItem, len(categories))
	for i, cat := range categories {
		items[i] = ui.SelectableItem{
			ID:   strconv.FormatUint(uint64(cat.ID), 10),
			Text: cat.Name,
		}
	}

	_, err = b.SendMessage(state.ChatID, "Which category is the product in?", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SelectionKeyboard(items),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *DelProductCatStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return workflow.StepResult{}
	}

	id, err := strconv.ParseUint(cb.SelectedID(), 10, 32)
	if err != nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return workflow.StepResult{
		NextStep:    StepDelProduct,
		UpdateState: map[string]any{KeyCategoryID: int(id)},
	}
}

// DelProductStep - Pick the product to delete, paginated
type DelProductStep struct {
	BaseStep
	repo Repository
}

func NewDelProductStep(repo Repository) *DelProductStep {
	return &DelProductStep{BaseStep: BaseStep{id: StepDelProduct}, repo: repo}
}

func (s *DelProductStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	products, err := s.repo.ProductsByCategory(ctx, uint(state.GetInt(KeyCategoryID)))
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	if len(products) == 0 {
		b.SendMessage(state.ChatID, "The category has no products.", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	state.InitPagination(len(products), ui.DefaultItemsPerPage)
	return s.showPage(ctx, b, state, products)
}

func (s *DelProductStep) showPage(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState, products []entity.Product) workflow.StepResult {
	page := state.Pagination.CurrentPage
	pageItems := ui.GetPageSlice(products, page, state.Pagination.ItemsPerPage)

	items := make([]ui.SelectableItem, len(pageItems))
	for i, p := range pageItems {
		items[i] = ui.SelectableItem{
			ID:   strconv.FormatUint(uint64(p.ProductID), 10),
			Text: fmt.Sprintf("%s (%d in stock)", p.Name, p.Quantity),
		}
	}

	_, err := b.SendMessage(state.ChatID, "Choose the product to delete:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.PaginatedList(items, page, state.Pagination.TotalPages),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *DelProductStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}

	switch {
	case cb.IsPage():
		state.Pagination.CurrentPage = cb.PageNumber()
		c.CallbackQuery.Answer(b, nil)
		products, err := s.repo.ProductsByCategory(ctx, uint(state.GetInt(KeyCategoryID)))
		if err != nil {
			return workflow.StepResult{Error: err}
		}
		return s.showPage(ctx, b, state, products)

	case cb.IsSelect():
		id, err := strconv.ParseUint(cb.SelectedID(), 10, 32)
		if err != nil {
			return workflow.StepResult{}
		}
		c.CallbackQuery.Answer(b, nil)
		return workflow.StepResult{
			NextStep:    StepConfirmDelProd,
			UpdateState: map[string]any{KeyProductID: int(id)},
		}
	}

	return workflow.StepResult{}
}

// ConfirmDelProdStep - Double confirmation before deleting a product
type ConfirmDelProdStep struct {
	BaseStep
	repo Repository
}

func NewConfirmDelProdStep(repo Repository) *ConfirmDelProdStep {
	return &ConfirmDelProdStep{BaseStep: BaseStep{id: StepConfirmDelProd}, repo: repo}
}

func (s *ConfirmDelProdStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	product, err := s.repo.GetProduct(ctx, uint(state.GetInt(KeyProductID)))
	if err != nil {
		b.SendMessage(state.ChatID, "❌ Product not found.", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	_, err = b.SendMessage(state.ChatID,
		fmt.Sprintf("⚠️ Delete product «%s»?", product.Name),
		&tgbotapi.SendMessageOpts{
			ReplyMarkup: ui.ConfirmCancelKeyboard("✅ Yes, delete", "❌ Cancel"),
		})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{UpdateState: map[string]any{KeyProductName: product.Name}}
}

func (s *ConfirmDelProdStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	switch {
	case cb.IsCancel():
		b.SendMessage(state.ChatID, "Deletion cancelled.", nil)
		return workflow.StepResult{NextStep: StepMenu}

	case cb.IsConfirm():
		if err := s.repo.DeleteProduct(ctx, uint(state.GetInt(KeyProductID))); err != nil {
			b.SendMessage(state.ChatID, "❌ Could not delete the product.", nil)
			return workflow.StepResult{NextStep: StepMenu, Error: err}
		}
		b.SendMessage(state.ChatID, fmt.Sprintf("🗑 Product «%s» deleted.", state.GetString(KeyProductName)), nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	return workflow.StepResult{}
}

// EditProductCatStep - Pick the category of the product to edit
type EditProductCatStep struct {
	BaseStep
	repo Repository
}

func NewEditProductCatStep(repo Repository) *EditProductCatStep {
	return &EditProductCatStep{BaseStep: BaseStep{id: StepEditProductCat}, repo: repo}
}

func (s *EditProductCatStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	if len(categories) == 0 {
		b.SendMessage(state.ChatID, "There are no categories yet.", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	items := make([]ui.SelectableItem, len(categories))
	for i, cat := range categories {
		items[i] = ui.SelectableItem{
			ID:   strconv.FormatUint(uint64(cat.ID), 10),
			Text: cat.Name,
		}
	}

	_, err = b.SendMessage(state.ChatID, "Which category is the product in?", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SelectionKeyboard(items),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *EditProductCatStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return workflow.StepResult{}
	}

	id, err := strconv.ParseUint(cb.SelectedID(), 10, 32)
	if err != nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return workflow.StepResult{
		NextStep:    StepEditProduct,
		UpdateState: map[string]any{KeyCategoryID: int(id)},
	}
}

// EditProductStep - Pick the product to edit, paginated
type EditProductStep struct {
	BaseStep
	repo Repository
}

func NewEditProductStep(repo Repository) *EditProductStep {
	return &EditProductStep{BaseStep: BaseStep{id: StepEditProduct}, repo: repo}
}

func (s *EditProductStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	products, err := s.repo.ProductsByCategory(ctx, uint(state.GetInt(KeyCategoryID)))
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	if len(products) == 0 {
		b.SendMessage(state.ChatID, "The category has no products.", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	state.InitPagination(len(products), ui.DefaultItemsPerPage)
	return s.showPage(ctx, b, state, products)
}

func (s *EditProductStep) showPage(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState, products []entity.Product) workflow.StepResult {
	page := state.Pagination.CurrentPage
	pageItems := ui.GetPageSlice(products, page, state.Pagination.ItemsPerPage)

	items := make([]ui.SelectableItem, len(pageItems))
	for i, p := range pageItems {
		items[i] = ui.SelectableItem{
			ID:   strconv.FormatUint(uint64(p.ProductID), 10),
			Text: fmt.Sprintf("%s (%d in stock)", p.Name, p.Quantity),
		}
	}

	_, err := b.SendMessage(state.ChatID, "Choose the product to edit:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.PaginatedList(items, page, state.Pagination.TotalPages),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *EditProductStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}

	switch {
	case cb.IsPage():
		state.Pagination.CurrentPage = cb.PageNumber()
		c.CallbackQuery.Answer(b, nil)
		products, err := s.repo.ProductsByCategory(ctx, uint(state.GetInt(KeyCategoryID)))
		if err != nil {
			return workflow.StepResult{Error: err}
		}
		return s.showPage(ctx, b, state, products)

	case cb.IsSelect():
		id, err := strconv.ParseUint(cb.SelectedID(), 10, 32)
		if err != nil {
			return workflow.StepResult{}
		}
		c.CallbackQuery.Answer(b, nil)
		return workflow.StepResult{
			NextStep:    StepEditField,
			UpdateState: map[string]any{KeyProductID: int(id)},
		}
	}

	return workflow.StepResult{}
}

// EditFieldStep - Show the product and pick the field to change
type EditFieldStep struct {
	BaseStep
	repo Repository
}

func NewEditFieldStep(repo Repository) *EditFieldStep {
	return &EditFieldStep{BaseStep: BaseStep{id: StepEditField}, repo: repo}
}

func (s *EditFieldStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	product, err := s.repo.GetProduct(ctx, uint(state.GetInt(KeyProductID)))
	if err != nil {
		b.SendMessage(state.ChatID, "❌ Product not found.", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>✏️ %s</b>\n\n", product.Name))
	sb.WriteString(fmt.Sprintf("%s\n\n", product.Description))
	sb.WriteString(fmt.Sprintf("💰 Price: %s\n", product.Price.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("🔢 In stock: %d\n\n", product.Quantity))
	sb.WriteString("What do you want to change?")

	keyboard := ui.MainMenuKeyboard([][]ui.SelectableItem{
		{
			{ID: FieldName, Text: "📦 Name"},
			{ID: FieldDescription, Text: "📄 Description"},
		},
		{
			{ID: FieldPrice, Text: "💰 Price"},
			{ID: FieldQuantity, Text: "🔢 Quantity"},
		},
		{
			{ID: FieldPhoto, Text: "🖼 Photo"},
			{ID: FieldCategory, Text: "🗂 Category"},
		},
		{
			{ID: FieldDone, Text: "✅ Done"},
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

func (s *EditFieldStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsMenu() {
		return workflow.StepResult{}
	}

	field := cb.MenuID()
	switch field {
	case FieldDone:
		c.CallbackQuery.Answer(b, nil)
		return workflow.StepResult{NextStep: StepMenu}
	case FieldName, FieldDescription, FieldPrice, FieldQuantity, FieldPhoto, FieldCategory:
	default:
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return workflow.StepResult{
		NextStep:    StepEditValue,
		UpdateState: map[string]any{KeyEditField: field},
	}
}

// EditValueStep - Collect and store the new value for the chosen field
type EditValueStep struct {
	BaseStep
	repo Repository
}

func NewEditValueStep(repo Repository) *EditValueStep {
	return &EditValueStep{BaseStep: BaseStep{id: StepEditValue}, repo: repo}
}

func (s *EditValueStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	field := state.GetString(KeyEditField)
	if field == FieldCategory {
		categories, err := s.repo.GetCategories(ctx)
		if err != nil {
			return workflow.StepResult{Error: err}
		}

		items := make([]ui.SelectableItem, len(categories))
		for i, cat := range categories {
			items[i] = ui.SelectableItem{
				ID:   strconv.FormatUint(uint64(cat.ID), 10),
				Text: cat.Name,
			}
		}

		_, err = b.SendMessage(state.ChatID, "🗂 Choose the new category:", &tgbotapi.SendMessageOpts{
			ReplyMarkup: ui.SelectionKeyboard(items),
		})
		if err != nil {
			return workflow.StepResult{Error: err}
		}
		return workflow.StepResult{}
	}

	prompts := map[string]string{
		FieldName:        "📦 Enter the new name:",
		FieldDescription: "📄 Enter the new description:",
		FieldPrice:       "💰 Enter the new price (e.g. 199.90):",
		FieldQuantity:    "🔢 Enter the new stock quantity:",
		FieldPhoto:       "🖼 Send the new photo:",
	}

	_, err := b.SendMessage(state.ChatID, prompts[field], nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *EditValueStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	text := strings.TrimSpace(c.EffectiveMessage.Text)
	productID := uint(state.GetInt(KeyProductID))

	switch state.GetString(KeyEditField) {
	case FieldName:
		if text == "" {
			return workflow.StepResult{}
		}
		return s.save(ctx, b, state, s.repo.UpdateProductName(ctx, productID, text))

	case FieldDescription:
		return s.save(ctx, b, state, s.repo.UpdateProductDescription(ctx, productID, text))

	case FieldPrice:
		price, err := decimal.NewFromString(text)
		if err != nil || price.IsNegative() || price.IsZero() {
			b.SendMessage(state.ChatID, "❌ Enter a positive number.", nil)
			return workflow.StepResult{}
		}
		return s.save(ctx, b, state, s.repo.UpdateProductPrice(ctx, productID, price))

	case FieldQuantity:
		qty, err := strconv.Atoi(text)
		if err != nil || qty < 0 {
			b.SendMessage(state.ChatID, "❌ Enter a whole number, zero or more.", nil)
			return workflow.StepResult{}
		}
		return s.save(ctx, b, state, s.repo.UpdateProductQuantity(ctx, productID, qty))
	}

	b.SendMessage(state.ChatID, "Please send the value the field expects.", nil)
	return workflow.StepResult{}
}

func (s *EditValueStep) HandlePhoto(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	if state.GetString(KeyEditField) != FieldPhoto {
		return workflow.StepResult{}
	}
	photos := c.EffectiveMessage.Photo
	if len(photos) == 0 {
		return workflow.StepResult{}
	}
	photoID := photos[len(photos)-1].FileId
	return s.save(ctx, b, state, s.repo.UpdateProductPhoto(ctx, uint(state.GetInt(KeyProductID)), photoID))
}

func (s *EditValueStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	if state.GetString(KeyEditField) != FieldCategory {
		return workflow.StepResult{}
	}

	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return workflow.StepResult{}
	}

	id, err := strconv.ParseUint(cb.SelectedID(), 10, 32)
	if err != nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return s.save(ctx, b, state, s.repo.UpdateProductCategory(ctx, uint(state.GetInt(KeyProductID)), uint(id)))
}

// save reports the outcome and goes back to the field picker so several
// fields can be changed in a row.
func (s *EditValueStep) save(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState, err error) workflow.StepResult {
	if err != nil {
		b.SendMessage(state.ChatID, "❌ Could not save the change.", nil)
		return workflow.StepResult{NextStep: StepMenu, Error: err}
	}

	b.SendMessage(state.ChatID, "✅ Product updated.", nil)
	return workflow.StepResult{NextStep: StepEditField}
}

// OrdersStep - The pending order queue
type OrdersStep struct {
	BaseStep
	orderService OrderService
}

func NewOrdersStep(orderService OrderService) *OrdersStep {
	return &OrdersStep{BaseStep: BaseStep{id: StepOrders}, orderService: orderService}
}

func (s *OrdersStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	orders, err := s.orderService.PendingOrders(ctx)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	if len(orders) == 0 {
		b.SendMessage(state.ChatID, "No pending orders. 🎉", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	items := make([]ui.SelectableItem, len(orders))
	for i, o := range orders {
		items[i] = ui.SelectableItem{
			ID:   strconv.FormatUint(uint64(o.OrderID), 10),
			Text: fmt.Sprintf("#%d | %s | %s", o.OrderID, o.TotalAmount.StringFixed(2), o.PaymentMethod),
		}
	}

	_, err = b.SendMessage(state.ChatID, "📋 Pending orders:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SelectionKeyboard(items),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *OrdersStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return workflow.StepResult{}
	}

	id, err := strconv.ParseUint(cb.SelectedID(), 10, 32)
	if err != nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return workflow.StepResult{
		NextStep:    StepOrderDetail,
		UpdateState: map[string]any{KeyOrderID: int(id)},
	}
}

// OrderDetailStep - Show one order and move it along its status machine
type OrderDetailStep struct {
	BaseStep
	orderService OrderService
	repo         Repository
}

func NewOrderDetailStep(orderService OrderService, repo Repository) *OrderDetailStep {
	return &OrderDetailStep{BaseStep: BaseStep{id: StepOrderDetail}, orderService: orderService, repo: repo}
}

func (s *OrderDetailStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	order, err := s.orderService.Order(ctx, uint(state.GetInt(KeyOrderID)))
	if err != nil {
		b.SendMessage(state.ChatID, "❌ Order not found.", nil)
		return workflow.StepResult{NextStep: StepMenu}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Order #%d</b>\n\n", order.OrderID))
	sb.WriteString(fmt.Sprintf("👤 User: %d\n", order.UserID))
	sb.WriteString(fmt.Sprintf("💰 Total: %s\n", order.TotalAmount.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("💳 Payment: %s", order.PaymentMethod))
	if order.PaymentRef != "" {
		sb.WriteString(fmt.Sprintf(" (ref %s)", order.PaymentRef))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("🚚 Delivery: %s, %s\n", order.DeliveryMethod, order.DeliveryAddress))
	sb.WriteString(fmt.Sprintf("📌 Status: %s\n\n", order.Status))
	for _, item := range order.Items {
		sb.WriteString(fmt.Sprintf("📦 %s x %d\n", item.Product.Name, item.Quantity))
	}

	next := order.Status.NextStatuses()
	items := make([]ui.SelectableItem, len(next))
	for i, st := range next {
		items[i] = ui.SelectableItem{ID: string(st), Text: statusLabel(st)}
	}

	_, err = b.SendMessage(state.ChatID, sb.String(), &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: ui.SelectionKeyboard(items),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *OrderDetailStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return workflow.StepResult{}
	}

	status, ok := entity.ParseOrderStatus(cb.SelectedID())
	if !ok {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	orderID := uint(state.GetInt(KeyOrderID))
	if err := s.orderService.SetStatus(ctx, orderID, status); err != nil {
		b.SendMessage(state.ChatID, "❌ Could not change the status.", nil)
		return workflow.StepResult{NextStep: StepMenu, Error: err}
	}

	// Tell the customer, unless they turned notifications off
	if order, err := s.orderService.Order(ctx, orderID); err == nil {
		if user, err := s.repo.GetUser(ctx, order.UserID); err == nil && user.Notifications {
			b.SendMessage(order.UserID,
				fmt.Sprintf("📣 Your order #%d is now: %s", order.OrderID, statusLabel(order.Status)),
				nil)
		}
	}

	b.SendMessage(state.ChatID, fmt.Sprintf("✅ Order #%d moved to %s.", orderID, status), nil)
	return workflow.StepResult{NextStep: StepMenu}
}

func statusLabel(s entity.OrderStatus) string {
	switch s {
	case entity.OrderStatusPending:
		return "⏳ pending"
	case entity.OrderStatusProcessing:
		return "🔄 processing"
	case entity.OrderStatusConfirmed:
		return "✅ confirmed"
	case entity.OrderStatusDelivering:
		return "🚚 delivering"
	case entity.OrderStatusCompleted:
		return "🏁 completed"
	case entity.OrderStatusCancelled:
		return "❌ cancelled"
	}
	return string(s)
}
