package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"restaurant_ops_backend/internal/models"
)

// InventoryTransactionRepository defines the interface for the append-only
// stock transaction log. Rows are inserted and read, never updated.
type InventoryTransactionRepository interface {
	CreateTransaction(executor SQLExecutor, transaction *models.InventoryTransaction) (int64, error)
	GetTransactions(ingredientID *int64, transactionType *string, page, pageSize int) ([]models.InventoryTransaction, int, error)
}

type inventoryTransactionRepository struct {
	db *sql.DB
}

// NewInventoryTransactionRepository creates a new instance of InventoryTransactionRepository.
func NewInventoryTransactionRepository(db *sql.DB) InventoryTransactionRepository {
	return &inventoryTransactionRepository{db: db}
}

func (r *inventoryTransactionRepository) CreateTransaction(executor SQLExecutor, transaction *models.InventoryTransaction) (int64, error) {
	query := `INSERT INTO inventory_transactions
	            (ingredient_id, transaction_type, quantity, reference, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		transaction.IngredientID, transaction.TransactionType, transaction.Quantity,
		transaction.Reference, transaction.Notes, transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating inventory transaction: %v", ErrDatabaseError, err)
	}
	return transaction.ID, nil
}

func (r *inventoryTransactionRepository) GetTransactions(ingredientID *int64, transactionType *string, page, pageSize int) ([]models.InventoryTransaction, int, error) {
	transactions := []models.InventoryTransaction{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    it.id, it.ingredient_id, it.transaction_type, it.quantity, it.reference,
	    it.notes, it.created_at,
	    i.name AS ingredient_name,
	    COUNT(*) OVER() AS total_count
	  FROM inventory_transactions it
	  JOIN ingredients i ON it.ingredient_id = i.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if ingredientID != nil {
		conditions = append(conditions, fmt.Sprintf("it.ingredient_id = $%d", argCount))
		args = append(args, *ingredientID)
		argCount++
	}
	if transactionType != nil && *transactionType != "" {
		conditions = append(conditions, fmt.Sprintf("it.transaction_type = $%d", argCount))
		args = append(args, *transactionType)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY it.created_at DESC, it.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting inventory transactions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var transaction models.InventoryTransaction
		var ingredientName string

		if err := rows.Scan(
			&transaction.ID, &transaction.IngredientID, &transaction.TransactionType,
			&transaction.Quantity, &transaction.Reference, &transaction.Notes, &transaction.CreatedAt,
			&ingredientName,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning inventory transaction: %v", ErrDatabaseError, err)
		}
		transaction.IngredientName = &ingredientName
		transactions = append(transactions, transaction)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating inventory transactions: %v", ErrDatabaseError, err)
	}

	return transactions, totalCount, nil
}
