package services

import (
	"testing"
	"time"

	"restaurant_ops_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingredientAt(name string, current, minimum float64) models.Ingredient {
	return models.Ingredient{
		Name:         name,
		Unit:         "kg",
		CurrentStock: decimal.NewFromFloat(current),
		MinimumStock: decimal.NewFromFloat(minimum),
	}
}

func TestLowStockClassification(t *testing.T) {
	ingredients := []models.Ingredient{
		ingredientAt("Flour", 5, 10),    // below minimum: Critical
		ingredientAt("Sugar", 10, 10),   // exactly at minimum: Critical
		ingredientAt("Butter", 14, 10),  // within 1.5x minimum: Low
		ingredientAt("Yeast", 15, 10),   // exactly 1.5x minimum: Low
		ingredientAt("Olives", 16, 10),  // above the band: healthy
		ingredientAt("Basil", 100, 0.5), // healthy
	}

	repo := &mockIngredientRepo{
		GetIngredientsFn: func() ([]models.Ingredient, error) {
			return ingredients, nil
		},
	}
	svc := NewAlertService(repo)

	alerts, err := svc.LowStock()
	require.NoError(t, err)
	require.Len(t, alerts, 4)

	// Critical first, alphabetical within each band.
	assert.Equal(t, "Flour", alerts[0].Ingredient.Name)
	assert.Equal(t, AlertCritical, alerts[0].AlertType)
	assert.Equal(t, "Sugar", alerts[1].Ingredient.Name)
	assert.Equal(t, AlertCritical, alerts[1].AlertType)
	assert.Equal(t, "Butter", alerts[2].Ingredient.Name)
	assert.Equal(t, AlertLow, alerts[2].AlertType)
	assert.Equal(t, "Yeast", alerts[3].Ingredient.Name)
	assert.Equal(t, AlertLow, alerts[3].AlertType)
}

func TestLowStockEmptyWhenHealthy(t *testing.T) {
	repo := &mockIngredientRepo{
		GetIngredientsFn: func() ([]models.Ingredient, error) {
			return []models.Ingredient{ingredientAt("Olives", 50, 10)}, nil
		},
	}
	svc := NewAlertService(repo)

	alerts, err := svc.LowStock()
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestAlertsUnionExpiringWithLowStock(t *testing.T) {
	soon := time.Now().Add(3 * 24 * time.Hour)
	farOut := time.Now().Add(30 * 24 * time.Hour)
	pastDue := time.Now().Add(-24 * time.Hour)

	expiringHealthy := ingredientAt("Milk", 50, 10)
	expiringHealthy.ExpiryDate = &soon

	expiringAndLow := ingredientAt("Cream", 5, 10)
	expiringAndLow.ExpiryDate = &soon

	longShelfLife := ingredientAt("Salt", 50, 10)
	longShelfLife.ExpiryDate = &farOut

	alreadyExpired := ingredientAt("Eggs", 50, 10)
	alreadyExpired.ExpiryDate = &pastDue

	repo := &mockIngredientRepo{
		GetIngredientsFn: func() ([]models.Ingredient, error) {
			return []models.Ingredient{expiringHealthy, expiringAndLow, longShelfLife, alreadyExpired}, nil
		},
	}
	svc := NewAlertService(repo)

	alerts, err := svc.Alerts(7)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	// An ingredient both low and expiring keeps its stock band.
	assert.Equal(t, "Cream", alerts[0].Ingredient.Name)
	assert.Equal(t, AlertCritical, alerts[0].AlertType)
	assert.Equal(t, "Milk", alerts[1].Ingredient.Name)
	assert.Equal(t, AlertExpiring, alerts[1].AlertType)
}

func TestAlertsDefaultWindow(t *testing.T) {
	eighthDay := time.Now().Add(8 * 24 * time.Hour)
	outsideWindow := ingredientAt("Milk", 50, 10)
	outsideWindow.ExpiryDate = &eighthDay

	repo := &mockIngredientRepo{
		GetIngredientsFn: func() ([]models.Ingredient, error) {
			return []models.Ingredient{outsideWindow}, nil
		},
	}
	svc := NewAlertService(repo)

	// A non-positive window falls back to the seven day default, which the
	// eighth day misses.
	alerts, err := svc.Alerts(0)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
