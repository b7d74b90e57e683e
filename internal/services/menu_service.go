package services

import (
	"database/sql"
	"errors"
	"fmt"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"
)

// MenuService carries menu master data. Unit prices live here only until an
// order snapshots them; editing a dish never rewrites past orders.
type MenuService interface {
	CreateMenuItem(item *models.MenuItem) (*models.MenuItem, error)
	GetMenuItemByID(id int64) (*models.MenuItem, error)
	GetMenuItems() ([]models.MenuItem, error)
	UpdateMenuItem(id int64, item *models.MenuItem) (*models.MenuItem, error)
	DeleteMenuItem(id int64) error
	GetPopularItems() ([]models.PopularMenuItem, error)
}

type menuService struct {
	menuRepo repositories.MenuRepository
	db       *sql.DB
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuRepository, db *sql.DB) MenuService {
	return &menuService{menuRepo: mr, db: db}
}

func (s *menuService) CreateMenuItem(item *models.MenuItem) (*models.MenuItem, error) {
	if item.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	id, err := s.menuRepo.CreateMenuItem(s.db, item)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: menu item %q already exists", ErrValidation, item.Name)
		}
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return s.GetMenuItemByID(id)
}

func (s *menuService) GetMenuItemByID(id int64) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetMenuItemByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item %d: %w", id, err)
	}
	return item, nil
}

func (s *menuService) GetMenuItems() ([]models.MenuItem, error) {
	items, err := s.menuRepo.GetMenuItems()
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, nil
}

func (s *menuService) UpdateMenuItem(id int64, item *models.MenuItem) (*models.MenuItem, error) {
	if item.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	item.ID = id
	if err := s.menuRepo.UpdateMenuItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: menu item %q already exists", ErrValidation, item.Name)
		}
		return nil, fmt.Errorf("failed to update menu item %d: %w", id, err)
	}
	return s.GetMenuItemByID(id)
}

func (s *menuService) DeleteMenuItem(id int64) error {
	if err := s.menuRepo.DeleteMenuItem(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("failed to delete menu item %d: %w", id, err)
	}
	return nil
}

func (s *menuService) GetPopularItems() ([]models.PopularMenuItem, error) {
	items, err := s.menuRepo.GetPopularItems()
	if err != nil {
		return nil, fmt.Errorf("failed to get popular items: %w", err)
	}
	return items, nil
}
