package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_ops_backend/internal/models"

	"github.com/lib/pq"
)

// TableRepository defines the interface for table-related database operations.
type TableRepository interface {
	CreateTable(executor SQLExecutor, table *models.Table) (int64, error)
	GetTableByID(id int64) (*models.Table, error)
	GetTables() ([]models.Table, error)
	GetTableByUsername(username string) (*models.Table, error)
	UpdateTable(executor SQLExecutor, table *models.Table) error
	DeleteTable(executor SQLExecutor, id int64) error
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) CreateTable(executor SQLExecutor, table *models.Table) (int64, error) {
	query := `INSERT INTO tables (name, type, description, username, password_hash, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		table.Name, table.Type, table.Description, table.Username, table.PasswordHash,
		currentTime, currentTime,
	).Scan(&table.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: table name or username already exists (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating table: %v", ErrDatabaseError, err)
	}
	return table.ID, nil
}

func (r *tableRepository) GetTableByID(id int64) (*models.Table, error) {
	table := &models.Table{}
	query := `SELECT id, name, type, description, username, password_hash, created_at, updated_at
	          FROM tables WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&table.ID, &table.Name, &table.Type, &table.Description,
		&table.Username, &table.PasswordHash, &table.CreatedAt, &table.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table by ID %d: %v", ErrDatabaseError, id, err)
	}
	return table, nil
}

func (r *tableRepository) GetTables() ([]models.Table, error) {
	tables := []models.Table{}
	query := `SELECT id, name, type, description, username, password_hash, created_at, updated_at
	          FROM tables ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var table models.Table
		if err := rows.Scan(
			&table.ID, &table.Name, &table.Type, &table.Description,
			&table.Username, &table.PasswordHash, &table.CreatedAt, &table.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, table)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating tables: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) GetTableByUsername(username string) (*models.Table, error) {
	table := &models.Table{}
	query := `SELECT id, name, type, description, username, password_hash, created_at, updated_at
	          FROM tables WHERE username = $1`
	err := r.db.QueryRow(query, username).Scan(
		&table.ID, &table.Name, &table.Type, &table.Description,
		&table.Username, &table.PasswordHash, &table.CreatedAt, &table.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table by username: %v", ErrDatabaseError, err)
	}
	return table, nil
}

func (r *tableRepository) UpdateTable(executor SQLExecutor, table *models.Table) error {
	query := `UPDATE tables SET name = $1, type = $2, description = $3, username = $4, password_hash = $5, updated_at = $6
	          WHERE id = $7`
	result, err := executor.Exec(query,
		table.Name, table.Type, table.Description, table.Username, table.PasswordHash,
		time.Now(), table.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: table name or username already exists (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating table ID %d: %v", ErrDatabaseError, table.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) DeleteTable(executor SQLExecutor, id int64) error {
	query := `DELETE FROM tables WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: table ID %d cannot be deleted as it has orders (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting table ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
