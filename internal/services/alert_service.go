package services

import (
	"fmt"
	"sort"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// Alert type constants.
const (
	AlertCritical = "Critical"
	AlertLow      = "Low"
	AlertExpiring = "Expiring"
)

// DefaultExpiryWindowDays is the lookahead for expiry alerts.
const DefaultExpiryWindowDays = 7

// lowStockFactor widens the critical threshold for the Low band: an
// ingredient at or under 1.5x its minimum is flagged before it hits the
// minimum itself.
var lowStockFactor = decimal.NewFromFloat(1.5)

// AlertService derives attention feeds from the current ingredient state.
// Everything here is recomputed on each call; there is no cached state.
type AlertService interface {
	LowStock() ([]models.StockAlert, error)
	Alerts(windowDays int) ([]models.StockAlert, error)
}

type alertService struct {
	ingredientRepo repositories.IngredientRepository
}

// NewAlertService creates a new instance of AlertService.
func NewAlertService(ir repositories.IngredientRepository) AlertService {
	return &alertService{ingredientRepo: ir}
}

// classifyStock returns the stock alert band for an ingredient, or "" when
// its level is healthy.
func classifyStock(ingredient models.Ingredient) string {
	if ingredient.CurrentStock.LessThanOrEqual(ingredient.MinimumStock) {
		return AlertCritical
	}
	if ingredient.CurrentStock.LessThanOrEqual(ingredient.MinimumStock.Mul(lowStockFactor)) {
		return AlertLow
	}
	return ""
}

func sortAlerts(alerts []models.StockAlert) {
	rank := map[string]int{AlertCritical: 0, AlertLow: 1, AlertExpiring: 2}
	sort.SliceStable(alerts, func(i, j int) bool {
		if rank[alerts[i].AlertType] != rank[alerts[j].AlertType] {
			return rank[alerts[i].AlertType] < rank[alerts[j].AlertType]
		}
		return alerts[i].Ingredient.Name < alerts[j].Ingredient.Name
	})
}

// LowStock returns ingredients at or below their minimum (Critical) or
// within half again of it (Low), Critical first, alphabetical within a band.
func (s *alertService) LowStock() ([]models.StockAlert, error) {
	ingredients, err := s.ingredientRepo.GetIngredients()
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients for low stock alerts: %w", err)
	}

	alerts := []models.StockAlert{}
	for _, ingredient := range ingredients {
		if band := classifyStock(ingredient); band != "" {
			alerts = append(alerts, models.StockAlert{Ingredient: ingredient, AlertType: band})
		}
	}
	sortAlerts(alerts)
	return alerts, nil
}

// Alerts unites the low-stock set with ingredients expiring inside the
// window. An ingredient both low and expiring keeps its stock band; expiry
// alone tags it Expiring.
func (s *alertService) Alerts(windowDays int) ([]models.StockAlert, error) {
	if windowDays <= 0 {
		windowDays = DefaultExpiryWindowDays
	}

	ingredients, err := s.ingredientRepo.GetIngredients()
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients for alerts: %w", err)
	}

	now := time.Now()
	horizon := now.AddDate(0, 0, windowDays)

	alerts := []models.StockAlert{}
	for _, ingredient := range ingredients {
		band := classifyStock(ingredient)
		if band == "" && ingredient.ExpiryDate != nil &&
			!ingredient.ExpiryDate.Before(now) && !ingredient.ExpiryDate.After(horizon) {
			band = AlertExpiring
		}
		if band != "" {
			alerts = append(alerts, models.StockAlert{Ingredient: ingredient, AlertType: band})
		}
	}
	sortAlerts(alerts)
	return alerts, nil
}
