package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecretKey signs and verifies customer session tokens.
// IMPORTANT: in production this must come from secure configuration (env).
var jwtSecretKey = []byte(Getenv("JWT_SECRET", "restaurant-ops-dev-secret-change-me"))

// CustomerTokenTTL is how long a table's session token stays valid.
// A table stays logged in for a whole service day.
const CustomerTokenTTL = 12 * time.Hour

// CustomerClaims is the JWT claims structure for an authenticated table.
// Tables, not staff, log in as customers: the token identifies the table
// so order reads can be scoped to it.
type CustomerClaims struct {
	TableID   int64  `json:"table_id"`
	TableName string `json:"table_name"`
	jwt.RegisteredClaims
}

// GenerateCustomerToken creates a session token for a table.
func GenerateCustomerToken(tableID int64, tableName string) (string, error) {
	expirationTime := time.Now().Add(CustomerTokenTTL)
	claims := &CustomerClaims{
		TableID:   tableID,
		TableName: tableName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "restaurant-ops-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign customer token: %w", err)
	}
	return tokenString, nil
}

// ValidateCustomerToken parses and validates a customer token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateCustomerToken(tokenString string) (*CustomerClaims, error) {
	claims := &CustomerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
