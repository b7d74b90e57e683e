package services

import (
	"errors"
	"fmt"

	"restaurant_ops_backend/internal/repositories"
	"restaurant_ops_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// CustomerLoginRequest is the credential pair for a table login.
type CustomerLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CustomerLoginResult carries the session token for an authenticated table.
type CustomerLoginResult struct {
	Token     string `json:"token"`
	TableID   int64  `json:"table_id"`
	TableName string `json:"table_name"`
}

// AuthService authenticates tables as customer sessions.
type AuthService interface {
	CustomerLogin(req CustomerLoginRequest) (*CustomerLoginResult, error)
}

type authService struct {
	tableRepo repositories.TableRepository
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(tr repositories.TableRepository) AuthService {
	return &authService{tableRepo: tr}
}

// CustomerLogin checks the credential pair against the table's stored hash
// and issues a session token. Unknown username and wrong password are
// indistinguishable to the caller.
func (s *authService) CustomerLogin(req CustomerLoginRequest) (*CustomerLoginResult, error) {
	table, err := s.tableRepo.GetTableByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up table by username: %w", err)
	}

	if table.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*table.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateCustomerToken(table.ID, table.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to issue customer token: %w", err)
	}

	return &CustomerLoginResult{
		Token:     token,
		TableID:   table.ID,
		TableName: table.Name,
	}, nil
}
