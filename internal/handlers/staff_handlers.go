package handlers

import (
	"errors"
	"net/http"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/services"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

// CreateStaffMember handles creation of a staff record.
func (h *StaffHandler) CreateStaffMember(c *gin.Context) {
	var staff models.StaffMember
	if err := c.ShouldBindJSON(&staff); err != nil {
		utils.LogError(err, "CreateStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	created, err := h.staffService.CreateStaffMember(&staff)
	if err != nil {
		utils.LogError(err, "CreateStaffMember: Error from staffService.CreateStaffMember")
		respondStaffError(c, err, "Failed to create staff member.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetStaffMembers lists all staff.
func (h *StaffHandler) GetStaffMembers(c *gin.Context) {
	staff, err := h.staffService.GetStaffMembers()
	if err != nil {
		utils.LogError(err, "GetStaffMembers: Error from staffService.GetStaffMembers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch staff members.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, staff)
}

// GetStaffMemberByID fetches one staff record.
func (h *StaffHandler) GetStaffMemberByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	staff, err := h.staffService.GetStaffMemberByID(id)
	if err != nil {
		utils.LogError(err, "GetStaffMemberByID: Error from staffService.GetStaffMemberByID")
		respondStaffError(c, err, "Failed to fetch staff member.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

// UpdateStaffMember rewrites a staff record.
func (h *StaffHandler) UpdateStaffMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var staff models.StaffMember
	if err := c.ShouldBindJSON(&staff); err != nil {
		utils.LogError(err, "UpdateStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updated, err := h.staffService.UpdateStaffMember(id, &staff)
	if err != nil {
		utils.LogError(err, "UpdateStaffMember: Error from staffService.UpdateStaffMember")
		respondStaffError(c, err, "Failed to update staff member.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteStaffMember deletes a staff record.
func (h *StaffHandler) DeleteStaffMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.staffService.DeleteStaffMember(id); err != nil {
		utils.LogError(err, "DeleteStaffMember: Error from staffService.DeleteStaffMember")
		respondStaffError(c, err, "Failed to delete staff member.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted successfully"})
}

// --- Schedules ---

// CreateSchedule adds one shift entry to the calendar.
func (h *StaffHandler) CreateSchedule(c *gin.Context) {
	var req services.StaffScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateSchedule: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	created, err := h.staffService.CreateSchedule(req)
	if err != nil {
		utils.LogError(err, "CreateSchedule: Error from staffService.CreateSchedule")
		respondStaffError(c, err, "Failed to create staff schedule.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetSchedules lists the shift calendar.
func (h *StaffHandler) GetSchedules(c *gin.Context) {
	schedules, err := h.staffService.GetSchedules()
	if err != nil {
		utils.LogError(err, "GetSchedules: Error from staffService.GetSchedules")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch staff schedules.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// UpdateSchedule rewrites one shift entry.
func (h *StaffHandler) UpdateSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.StaffScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateSchedule: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updated, err := h.staffService.UpdateSchedule(id, req)
	if err != nil {
		utils.LogError(err, "UpdateSchedule: Error from staffService.UpdateSchedule")
		respondStaffError(c, err, "Failed to update staff schedule.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteSchedule removes one shift entry.
func (h *StaffHandler) DeleteSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.staffService.DeleteSchedule(id); err != nil {
		utils.LogError(err, "DeleteSchedule: Error from staffService.DeleteSchedule")
		respondStaffError(c, err, "Failed to delete staff schedule.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff schedule deleted successfully"})
}

func respondStaffError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrStaffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
	case errors.Is(err, services.ErrScheduleNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff schedule not found.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
