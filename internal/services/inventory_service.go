package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"
	"restaurant_ops_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrInsufficientStock  = errors.New("insufficient stock for transaction")
	ErrIngredientInUse    = errors.New("ingredient is referenced by transactions")
)

// Inventory transaction type constants. Purchase credits stock, everything
// else debits it; Quantity on the wire is always a positive magnitude.
const (
	TransactionPurchase    = "Purchase"
	TransactionConsumption = "Consumption"
	TransactionAdjustment  = "Adjustment"
	TransactionWaste       = "Waste"
)

var validTransactionTypes = map[string]bool{
	TransactionPurchase:    true,
	TransactionConsumption: true,
	TransactionAdjustment:  true,
	TransactionWaste:       true,
}

// StockTransactionRequest applies one movement to an ingredient's stock.
type StockTransactionRequest struct {
	IngredientID    int64           `json:"ingredient_id" binding:"required"`
	TransactionType string          `json:"transaction_type" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Notes           *string         `json:"notes"`
}

// StockTransactionResult reports the outcome of one applied movement.
type StockTransactionResult struct {
	Transaction models.InventoryTransaction `json:"transaction"`
	NewStock    decimal.Decimal             `json:"new_stock"`
}

// TransactionFilters narrows the stock log listing.
type TransactionFilters struct {
	IngredientID    *int64  `form:"ingredient_id"`
	TransactionType *string `form:"transaction_type"`
	Page            int     `form:"page,default=1"`
	PageSize        int     `form:"page_size,default=20"`
}

// InventoryService owns the stock ledger: every stock movement appends a
// log row and adjusts the ingredient balance in the same transaction, so
// the two can never disagree. It also carries ingredient master data CRUD.
type InventoryService interface {
	ApplyTransaction(req StockTransactionRequest) (*StockTransactionResult, error)
	GetTransactions(filters TransactionFilters) ([]models.InventoryTransaction, int, error)

	CreateIngredient(ingredient *models.Ingredient) (*models.Ingredient, error)
	GetIngredientByID(id int64) (*models.Ingredient, error)
	GetIngredients() ([]models.Ingredient, error)
	UpdateIngredient(id int64, ingredient *models.Ingredient) (*models.Ingredient, error)
	DeleteIngredient(id int64) error
}

type inventoryService struct {
	ingredientRepo repositories.IngredientRepository
	txRepo         repositories.InventoryTransactionRepository
	db             *sql.DB
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(
	ir repositories.IngredientRepository,
	tr repositories.InventoryTransactionRepository,
	db *sql.DB,
) InventoryService {
	return &inventoryService{
		ingredientRepo: ir,
		txRepo:         tr,
		db:             db,
	}
}

// stockDelta translates the positive wire quantity into the signed effect
// on current_stock.
func stockDelta(transactionType string, quantity decimal.Decimal) decimal.Decimal {
	if transactionType == TransactionPurchase {
		return quantity
	}
	return quantity.Neg()
}

// ApplyTransaction appends a ledger row and moves the ingredient balance as
// one atomic unit. The ingredient row is locked first, so concurrent
// movements on the same ingredient serialize and the negative-stock guard
// sees the true balance.
func (s *inventoryService) ApplyTransaction(req StockTransactionRequest) (*StockTransactionResult, error) {
	if !validTransactionTypes[req.TransactionType] {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, req.TransactionType)
	}
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive, got %s", ErrValidation, req.Quantity)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start stock transaction: %v", ErrTransactionFailure, err)
	}
	defer tx.Rollback()

	ingredient, err := s.ingredientRepo.GetIngredientForUpdate(tx, req.IngredientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("%w: failed to lock ingredient %d: %v", ErrTransactionFailure, req.IngredientID, err)
	}

	delta := stockDelta(req.TransactionType, req.Quantity)
	projected := ingredient.CurrentStock.Add(delta)
	if projected.IsNegative() {
		return nil, fmt.Errorf("%w: ingredient %q has %s, transaction needs %s",
			ErrInsufficientStock, ingredient.Name, ingredient.CurrentStock, req.Quantity)
	}

	now := time.Now()
	transaction := models.InventoryTransaction{
		IngredientID:    req.IngredientID,
		TransactionType: req.TransactionType,
		Quantity:        req.Quantity,
		Reference:       uuid.NewString(),
		Notes:           req.Notes,
		CreatedAt:       now,
	}
	if _, err := s.txRepo.CreateTransaction(tx, &transaction); err != nil {
		return nil, fmt.Errorf("%w: failed to append stock transaction: %v", ErrTransactionFailure, err)
	}

	newStock, err := s.ingredientRepo.AdjustStock(tx, req.IngredientID, delta, now)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to adjust stock for ingredient %d: %v", ErrTransactionFailure, req.IngredientID, err)
	}

	if req.TransactionType == TransactionPurchase {
		if err := s.ingredientRepo.SetLastPurchaseDate(tx, req.IngredientID, now); err != nil {
			return nil, fmt.Errorf("%w: failed to record purchase date for ingredient %d: %v", ErrTransactionFailure, req.IngredientID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: failed to commit stock transaction: %v", ErrTransactionFailure, err)
	}

	transaction.IngredientName = &ingredient.Name
	return &StockTransactionResult{
		Transaction: transaction,
		NewStock:    newStock,
	}, nil
}

func (s *inventoryService) GetTransactions(filters TransactionFilters) ([]models.InventoryTransaction, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}
	if filters.TransactionType != nil && *filters.TransactionType != "" && !validTransactionTypes[*filters.TransactionType] {
		return nil, 0, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, *filters.TransactionType)
	}

	transactions, total, err := s.txRepo.GetTransactions(filters.IngredientID, filters.TransactionType, filters.Page, filters.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get inventory transactions: %w", err)
	}
	return transactions, total, nil
}

// --- Ingredient master data ---

func (s *inventoryService) CreateIngredient(ingredient *models.Ingredient) (*models.Ingredient, error) {
	if utils.IsEmpty(ingredient.Name) || utils.IsEmpty(ingredient.Unit) {
		return nil, fmt.Errorf("%w: ingredient name and unit are required", ErrValidation)
	}
	if ingredient.CurrentStock.IsNegative() || ingredient.MinimumStock.IsNegative() {
		return nil, fmt.Errorf("%w: stock levels cannot be negative", ErrValidation)
	}

	id, err := s.ingredientRepo.CreateIngredient(s.db, ingredient)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: ingredient %q already exists", ErrValidation, ingredient.Name)
		}
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return s.GetIngredientByID(id)
}

func (s *inventoryService) GetIngredientByID(id int64) (*models.Ingredient, error) {
	ingredient, err := s.ingredientRepo.GetIngredientByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient %d: %w", id, err)
	}
	return ingredient, nil
}

func (s *inventoryService) GetIngredients() ([]models.Ingredient, error) {
	ingredients, err := s.ingredientRepo.GetIngredients()
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}
	return ingredients, nil
}

// UpdateIngredient rewrites master data only. The stock level never moves
// here; it belongs to ApplyTransaction so the balance always agrees with
// the ledger.
func (s *inventoryService) UpdateIngredient(id int64, ingredient *models.Ingredient) (*models.Ingredient, error) {
	if utils.IsEmpty(ingredient.Name) || utils.IsEmpty(ingredient.Unit) {
		return nil, fmt.Errorf("%w: ingredient name and unit are required", ErrValidation)
	}
	if ingredient.MinimumStock.IsNegative() {
		return nil, fmt.Errorf("%w: minimum stock cannot be negative", ErrValidation)
	}

	ingredient.ID = id
	if err := s.ingredientRepo.UpdateIngredient(s.db, ingredient); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrIngredientNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: ingredient %q already exists", ErrValidation, ingredient.Name)
		}
		return nil, fmt.Errorf("failed to update ingredient %d: %w", id, err)
	}
	return s.GetIngredientByID(id)
}

func (s *inventoryService) DeleteIngredient(id int64) error {
	if err := s.ingredientRepo.DeleteIngredient(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrIngredientNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: ingredient %d", ErrIngredientInUse, id)
		}
		return fmt.Errorf("failed to delete ingredient %d: %w", id, err)
	}
	return nil
}
