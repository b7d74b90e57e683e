package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_ops_backend/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// IngredientRepository defines the interface for ingredient-related database operations.
type IngredientRepository interface {
	CreateIngredient(executor SQLExecutor, ingredient *models.Ingredient) (int64, error)
	GetIngredientByID(id int64) (*models.Ingredient, error)
	GetIngredients() ([]models.Ingredient, error)
	UpdateIngredient(executor SQLExecutor, ingredient *models.Ingredient) error
	DeleteIngredient(executor SQLExecutor, id int64) error

	// GetIngredientForUpdate reads an ingredient under a row lock. Callers
	// must hold an open transaction; the lock serializes concurrent stock
	// writers on the same ingredient.
	GetIngredientForUpdate(executor SQLExecutor, id int64) (*models.Ingredient, error)
	// AdjustStock applies a signed delta to current_stock and returns the new level.
	AdjustStock(executor SQLExecutor, id int64, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	SetLastPurchaseDate(executor SQLExecutor, id int64, purchasedAt time.Time) error
}

type ingredientRepository struct {
	db *sql.DB
}

// NewIngredientRepository creates a new instance of IngredientRepository.
func NewIngredientRepository(db *sql.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

const ingredientColumns = `id, name, unit, current_stock, minimum_stock, price_per_unit,
	supplier, last_purchase_date, expiry_date, created_at, updated_at`

func scanIngredient(row interface{ Scan(...interface{}) error }, ing *models.Ingredient) error {
	return row.Scan(
		&ing.ID, &ing.Name, &ing.Unit, &ing.CurrentStock, &ing.MinimumStock, &ing.PricePerUnit,
		&ing.Supplier, &ing.LastPurchaseDate, &ing.ExpiryDate, &ing.CreatedAt, &ing.UpdatedAt,
	)
}

func (r *ingredientRepository) CreateIngredient(executor SQLExecutor, ingredient *models.Ingredient) (int64, error) {
	query := `INSERT INTO ingredients
	            (name, unit, current_stock, minimum_stock, price_per_unit, supplier,
	             last_purchase_date, expiry_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		ingredient.Name, ingredient.Unit, ingredient.CurrentStock, ingredient.MinimumStock,
		ingredient.PricePerUnit, ingredient.Supplier, ingredient.LastPurchaseDate,
		ingredient.ExpiryDate, currentTime, currentTime,
	).Scan(&ingredient.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: ingredient name '%s' already exists (constraint: %s)", ErrDuplicateKey, ingredient.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating ingredient: %v", ErrDatabaseError, err)
	}
	return ingredient.ID, nil
}

func (r *ingredientRepository) GetIngredientByID(id int64) (*models.Ingredient, error) {
	ingredient := &models.Ingredient{}
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1`
	err := scanIngredient(r.db.QueryRow(query, id), ingredient)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting ingredient by ID %d: %v", ErrDatabaseError, id, err)
	}
	return ingredient, nil
}

func (r *ingredientRepository) GetIngredients() ([]models.Ingredient, error) {
	ingredients := []models.Ingredient{}
	query := `SELECT ` + ingredientColumns + ` FROM ingredients ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting ingredients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ingredient models.Ingredient
		if err := scanIngredient(rows, &ingredient); err != nil {
			return nil, fmt.Errorf("%w: scanning ingredient: %v", ErrDatabaseError, err)
		}
		ingredients = append(ingredients, ingredient)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating ingredients: %v", ErrDatabaseError, err)
	}
	return ingredients, nil
}

// UpdateIngredient rewrites the master-data fields. current_stock is not
// touched here: the stock level only moves through AdjustStock so it always
// agrees with the transaction log.
func (r *ingredientRepository) UpdateIngredient(executor SQLExecutor, ingredient *models.Ingredient) error {
	query := `UPDATE ingredients SET
	            name = $1, unit = $2, minimum_stock = $3, price_per_unit = $4,
	            supplier = $5, expiry_date = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		ingredient.Name, ingredient.Unit, ingredient.MinimumStock, ingredient.PricePerUnit,
		ingredient.Supplier, ingredient.ExpiryDate, time.Now(), ingredient.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: ingredient name '%s' already exists (constraint: %s)", ErrDuplicateKey, ingredient.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating ingredient ID %d: %v", ErrDatabaseError, ingredient.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ingredientRepository) DeleteIngredient(executor SQLExecutor, id int64) error {
	query := `DELETE FROM ingredients WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: ingredient ID %d is referenced by inventory transactions (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting ingredient ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ingredientRepository) GetIngredientForUpdate(executor SQLExecutor, id int64) (*models.Ingredient, error) {
	ingredient := &models.Ingredient{}
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1 FOR UPDATE`
	err := scanIngredient(executor.QueryRow(query, id), ingredient)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking ingredient ID %d: %v", ErrDatabaseError, id, err)
	}
	return ingredient, nil
}

func (r *ingredientRepository) AdjustStock(executor SQLExecutor, id int64, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	var newStock decimal.Decimal
	query := `UPDATE ingredients
	          SET current_stock = current_stock + $1, updated_at = $2
	          WHERE id = $3
	          RETURNING current_stock`
	err := executor.QueryRow(query, delta, updatedAt, id).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, ErrNotFound
		}
		return decimal.Decimal{}, fmt.Errorf("%w: adjusting stock for ingredient ID %d: %v", ErrDatabaseError, id, err)
	}
	return newStock, nil
}

func (r *ingredientRepository) SetLastPurchaseDate(executor SQLExecutor, id int64, purchasedAt time.Time) error {
	query := `UPDATE ingredients SET last_purchase_date = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, purchasedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: setting last purchase date for ingredient ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
