package handlers

import (
	"errors"
	"net/http"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/services"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler holds the menu service.
type MenuHandler struct {
	menuService services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: ms}
}

// CreateMenuItem handles creation of a menu item.
func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.LogError(err, "CreateMenuItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	created, err := h.menuService.CreateMenuItem(&item)
	if err != nil {
		utils.LogError(err, "CreateMenuItem: Error from menuService.CreateMenuItem")
		respondMenuError(c, err, "Failed to create menu item.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetMenuItems lists the full menu.
func (h *MenuHandler) GetMenuItems(c *gin.Context) {
	items, err := h.menuService.GetMenuItems()
	if err != nil {
		utils.LogError(err, "GetMenuItems: Error from menuService.GetMenuItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch menu items.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetMenuItemByID fetches one menu item.
func (h *MenuHandler) GetMenuItemByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.menuService.GetMenuItemByID(id)
	if err != nil {
		utils.LogError(err, "GetMenuItemByID: Error from menuService.GetMenuItemByID")
		respondMenuError(c, err, "Failed to fetch menu item.")
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateMenuItem rewrites a menu item. Existing order lines keep their
// snapshotted prices.
func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.LogError(err, "UpdateMenuItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updated, err := h.menuService.UpdateMenuItem(id, &item)
	if err != nil {
		utils.LogError(err, "UpdateMenuItem: Error from menuService.UpdateMenuItem")
		respondMenuError(c, err, "Failed to update menu item.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteMenuItem deletes a menu item.
func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteMenuItem(id); err != nil {
		utils.LogError(err, "DeleteMenuItem: Error from menuService.DeleteMenuItem")
		respondMenuError(c, err, "Failed to delete menu item.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}

// GetPopularItems lists menu items ranked by how often they were ordered.
func (h *MenuHandler) GetPopularItems(c *gin.Context) {
	items, err := h.menuService.GetPopularItems()
	if err != nil {
		utils.LogError(err, "GetPopularItems: Error from menuService.GetPopularItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch popular items.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

func respondMenuError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrMenuItemNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
