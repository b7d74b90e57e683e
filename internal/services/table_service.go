package services

import (
	"database/sql"
	"errors"
	"fmt"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"
	"restaurant_ops_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// TableRequest creates or updates a table. The credential pair is optional:
// when present, guests at the table can log in and follow their orders.
type TableRequest struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Description *string `json:"description"`
	Username    *string `json:"username"`
	Password    *string `json:"password"`
}

// TableService carries table master data and table credentials.
type TableService interface {
	CreateTable(req TableRequest) (*models.Table, error)
	GetTableByID(id int64) (*models.Table, error)
	GetTables() ([]models.Table, error)
	UpdateTable(id int64, req TableRequest) (*models.Table, error)
	DeleteTable(id int64) error
}

type tableService struct {
	tableRepo repositories.TableRepository
	db        *sql.DB
}

// NewTableService creates a new instance of TableService.
func NewTableService(tr repositories.TableRepository, db *sql.DB) TableService {
	return &tableService{tableRepo: tr, db: db}
}

func hashTablePassword(req TableRequest) (*string, error) {
	if req.Password == nil || utils.IsEmpty(*req.Password) {
		return nil, nil
	}
	if req.Username == nil || utils.IsEmpty(*req.Username) {
		return nil, fmt.Errorf("%w: a password requires a username", ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash table password: %w", err)
	}
	hash := string(hashed)
	return &hash, nil
}

func (s *tableService) CreateTable(req TableRequest) (*models.Table, error) {
	passwordHash, err := hashTablePassword(req)
	if err != nil {
		return nil, err
	}

	table := models.Table{
		Name:         req.Name,
		Type:         req.Type,
		Description:  req.Description,
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	id, err := s.tableRepo.CreateTable(s.db, &table)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table name or username already in use", ErrValidation)
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return s.GetTableByID(id)
}

func (s *tableService) GetTableByID(id int64) (*models.Table, error) {
	table, err := s.tableRepo.GetTableByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table %d: %w", id, err)
	}
	return table, nil
}

func (s *tableService) GetTables() ([]models.Table, error) {
	tables, err := s.tableRepo.GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	return tables, nil
}

// UpdateTable rewrites the table record. An empty password in the request
// keeps the existing credential; sending one replaces it.
func (s *tableService) UpdateTable(id int64, req TableRequest) (*models.Table, error) {
	existing, err := s.GetTableByID(id)
	if err != nil {
		return nil, err
	}

	passwordHash, err := hashTablePassword(req)
	if err != nil {
		return nil, err
	}
	if passwordHash == nil {
		passwordHash = existing.PasswordHash
	}

	table := models.Table{
		ID:           id,
		Name:         req.Name,
		Type:         req.Type,
		Description:  req.Description,
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	if err := s.tableRepo.UpdateTable(s.db, &table); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table name or username already in use", ErrValidation)
		}
		return nil, fmt.Errorf("failed to update table %d: %w", id, err)
	}
	return s.GetTableByID(id)
}

func (s *tableService) DeleteTable(id int64) error {
	if err := s.tableRepo.DeleteTable(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to delete table %d: %w", id, err)
	}
	return nil
}
