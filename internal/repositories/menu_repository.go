package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_ops_backend/internal/models"

	"github.com/lib/pq"
)

// MenuRepository defines the interface for menu item database operations.
type MenuRepository interface {
	CreateMenuItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetMenuItemByID(id int64) (*models.MenuItem, error)
	GetMenuItems() ([]models.MenuItem, error)
	// GetMenuItemsByIDs resolves a set of menu item ids in one query.
	// Order creation uses it to seed unit-price snapshots.
	GetMenuItemsByIDs(ids []int64) (map[int64]models.MenuItem, error)
	UpdateMenuItem(executor SQLExecutor, item *models.MenuItem) error
	DeleteMenuItem(executor SQLExecutor, id int64) error
	GetPopularItems() ([]models.PopularMenuItem, error)
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) CreateMenuItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items (name, description, price, image_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		item.Name, item.Description, item.Price, item.ImageURL, currentTime, currentTime,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: menu item name '%s' already exists (constraint: %s)", ErrDuplicateKey, item.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *menuRepository) GetMenuItemByID(id int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `SELECT id, name, description, price, image_url, created_at, updated_at
	          FROM menu_items WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item by ID %d: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

func (r *menuRepository) GetMenuItems() ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	query := `SELECT id, name, description, price, image_url, created_at, updated_at
	          FROM menu_items ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *menuRepository) GetMenuItemsByIDs(ids []int64) (map[int64]models.MenuItem, error) {
	result := map[int64]models.MenuItem{}
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT id, name, description, price, image_url, created_at, updated_at
	          FROM menu_items WHERE id = ANY($1)`
	rows, err := r.db.Query(query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: getting menu items by ids: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		result[item.ID] = item
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu items by ids: %v", ErrDatabaseError, err)
	}
	return result, nil
}

func (r *menuRepository) UpdateMenuItem(executor SQLExecutor, item *models.MenuItem) error {
	query := `UPDATE menu_items SET name = $1, description = $2, price = $3, image_url = $4, updated_at = $5
	          WHERE id = $6`
	result, err := executor.Exec(query, item.Name, item.Description, item.Price, item.ImageURL, time.Now(), item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: menu item name '%s' already exists (constraint: %s)", ErrDuplicateKey, item.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteMenuItem(executor SQLExecutor, id int64) error {
	query := `DELETE FROM menu_items WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: menu item ID %d cannot be deleted as it is referenced by order items (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) GetPopularItems() ([]models.PopularMenuItem, error) {
	items := []models.PopularMenuItem{}
	query := `SELECT m.id, m.name, m.description, m.price, m.image_url, m.created_at, m.updated_at,
	                 COALESCE(SUM(oi.quantity), 0) AS total_ordered
	          FROM menu_items m
	          LEFT JOIN order_items oi ON m.id = oi.menu_item_id
	          GROUP BY m.id, m.name, m.description, m.price, m.image_url, m.created_at, m.updated_at
	          ORDER BY total_ordered DESC, m.name ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting popular items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.PopularMenuItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL,
			&item.CreatedAt, &item.UpdatedAt, &item.TotalOrdered,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning popular item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating popular items: %v", ErrDatabaseError, err)
	}
	return items, nil
}
