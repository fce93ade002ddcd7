package adminpanel

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"shopbot/bot/workflow"
	"shopbot/entity"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "admin_panel"
)

// Step IDs
const (
	StepMenu            workflow.StepID = "menu"
	StepAddCategory     workflow.StepID = "add_category"
	StepDeleteCategory  workflow.StepID = "delete_category"
	StepConfirmDelCat   workflow.StepID = "confirm_delete_category"
	StepProductName     workflow.StepID = "product_name"
	StepProductDesc     workflow.StepID = "product_description"
	StepProductPrice    workflow.StepID = "product_price"
	StepProductQty      workflow.StepID = "product_quantity"
	StepProductPhoto    workflow.StepID = "product_photo"
	StepProductCategory workflow.StepID = "product_category"
	StepConfirmProduct  workflow.StepID = "confirm_product"
	StepDelProductCat   workflow.StepID = "delete_product_category"
	StepDelProduct      workflow.StepID = "delete_product"
	StepConfirmDelProd  workflow.StepID = "confirm_delete_product"
	StepEditProductCat  workflow.StepID = "edit_product_category"
	StepEditProduct     workflow.StepID = "edit_product"
	StepEditField       workflow.StepID = "edit_field"
	StepEditValue       workflow.StepID = "edit_value"
	StepOrders          workflow.StepID = "orders"
	StepOrderDetail     workflow.StepID = "order_detail"
)

// Menu item IDs
const (
	MenuAddCategory    = "add_category"
	MenuDeleteCategory = "delete_category"
	MenuAddProduct     = "add_product"
	MenuEditProduct    = "edit_product"
	MenuDeleteProduct  = "delete_product"
	MenuOrders         = "orders"
	MenuClose          = "close"
)

// Editable product fields. The set is closed: the edit step refuses
// anything outside it.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
	FieldPhoto       = "photo"
	FieldCategory    = "category"
	FieldDone        = "done"
)

// State data keys
const (
	KeyCategoryID   = "category_id"
	KeyCategoryName = "category_name"
	KeyProductID    = "product_id"
	KeyProductName  = "product_name"
	KeyProductDesc  = "product_desc"
	KeyProductPrice = "product_price"
	KeyProductQty   = "product_qty"
	KeyProductPhoto = "product_photo"
	KeyEditField    = "edit_field"
	KeyOrderID      = "order_id"
)

// Repository defines the catalog and user operations the admin panel needs.
type Repository interface {
	AddCategory(ctx context.Context, category *entity.Category) error
	DeleteCategory(ctx context.Context, categoryID uint) error
	GetCategory(ctx context.Context, categoryID uint) (*entity.Category, error)
	GetCategories(ctx context.Context) ([]entity.Category, error)
	AddProduct(ctx context.Context, product *entity.Product) error
	DeleteProduct(ctx context.Context, productID uint) error
	GetProduct(ctx context.Context, productID uint) (*entity.Product, error)
	ProductsByCategory(ctx context.Context, categoryID uint) ([]entity.Product, error)
	UpdateProductName(ctx context.Context, productID uint, name string) error
	UpdateProductDescription(ctx context.Context, productID uint, description string) error
	UpdateProductPrice(ctx context.Context, productID uint, price decimal.Decimal) error
	UpdateProductQuantity(ctx context.Context, productID uint, quantity int) error
	UpdateProductPhoto(ctx context.Context, productID uint, photoID string) error
	UpdateProductCategory(ctx context.Context, productID, categoryID uint) error
	GetUser(ctx context.Context, userID int64) (*entity.User, error)
	UsersWithNotifications(ctx context.Context) ([]entity.User, error)
}

// OrderService defines the order queue operations the admin panel needs.
type OrderService interface {
	PendingOrders(ctx context.Context) ([]entity.Order, error)
	Order(ctx context.Context, orderID uint) (*entity.Order, error)
	Items(ctx context.Context, orderID uint) ([]entity.OrderItem, error)
	SetStatus(ctx context.Context, orderID uint, status entity.OrderStatus) error
}

// AdminPanelWorkflow manages the catalog and the order queue. Access is
// gated by the bot layer before the workflow starts.
type AdminPanelWorkflow struct {
	steps        map[workflow.StepID]workflow.Step
	repo         Repository
	orderService OrderService
	log          *slog.Logger
}

// NewAdminPanelWorkflow creates a new admin panel workflow.
func NewAdminPanelWorkflow(repo Repository, orderService OrderService, log *slog.Logger) *AdminPanelWorkflow {
	w := &AdminPanelWorkflow{
		steps:        make(map[workflow.StepID]workflow.Step),
		repo:         repo,
		orderService: orderService,
		log:          log,
	}

	w.registerSteps()

	return w
}

// ID returns the workflow ID.
func (w *AdminPanelWorkflow) ID() workflow.WorkflowID {
	return WorkflowID
}

// InitialStep returns the first step.
func (w *AdminPanelWorkflow) InitialStep() workflow.StepID {
	return StepMenu
}

// GetStep returns a step by ID.
func (w *AdminPanelWorkflow) GetStep(id workflow.StepID) (workflow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}

// Steps returns all steps.
func (w *AdminPanelWorkflow) Steps() []workflow.Step {
	steps := make([]workflow.Step, 0, len(w.steps))
	for _, step := range w.steps {
		steps = append(steps, step)
	}
	return steps
}

func (w *AdminPanelWorkflow) registerSteps() {
	w.steps[StepMenu] = NewMenuStep()
	w.steps[StepAddCategory] = NewAddCategoryStep(w.repo)
	w.steps[StepDeleteCategory] = NewDeleteCategoryStep(w.repo)
	w.steps[StepConfirmDelCat] = NewConfirmDelCatStep(w.repo)
	w.steps[StepProductName] = NewProductNameStep()
	w.steps[StepProductDesc] = NewProductDescStep()
	w.steps[StepProductPrice] = NewProductPriceStep()
	w.steps[StepProductQty] = NewProductQtyStep()
	w.steps[StepProductPhoto] = NewProductPhotoStep()
	w.steps[StepProductCategory] = NewProductCategoryStep(w.repo)
	w.steps[StepConfirmProduct] = NewConfirmProductStep(w.repo)
	w.steps[StepDelProductCat] = NewDelProductCatStep(w.repo)
	w.steps[StepDelProduct] = NewDelProductStep(w.repo)
	w.steps[StepConfirmDelProd] = NewConfirmDelProdStep(w.repo)
	w.steps[StepEditProductCat] = NewEditProductCatStep(w.repo)
	w.steps[StepEditProduct] = NewEditProductStep(w.repo)
	w.steps[StepEditField] = NewEditFieldStep(w.repo)
	w.steps[StepEditValue] = NewEditValueStep(w.repo)
	w.steps[StepOrders] = NewOrdersStep(w.orderService)
	w.steps[StepOrderDetail] = NewOrderDetailStep(w.orderService, w.repo)
}
