package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"
)

var (
	ErrStaffNotFound    = errors.New("staff member not found")
	ErrScheduleNotFound = errors.New("staff schedule not found")
)

// StaffScheduleRequest creates or updates one shift entry.
type StaffScheduleRequest struct {
	StaffID    int64     `json:"staff_id" binding:"required"`
	ShiftStart time.Time `json:"shift_start" binding:"required"`
	ShiftEnd   time.Time `json:"shift_end" binding:"required"`
	Role       *string   `json:"role"`
}

// StaffService carries staff master data and the shift calendar.
type StaffService interface {
	CreateStaffMember(staff *models.StaffMember) (*models.StaffMember, error)
	GetStaffMemberByID(id int64) (*models.StaffMember, error)
	GetStaffMembers() ([]models.StaffMember, error)
	UpdateStaffMember(id int64, staff *models.StaffMember) (*models.StaffMember, error)
	DeleteStaffMember(id int64) error

	CreateSchedule(req StaffScheduleRequest) (*models.StaffSchedule, error)
	GetSchedules() ([]models.StaffSchedule, error)
	UpdateSchedule(id int64, req StaffScheduleRequest) (*models.StaffSchedule, error)
	DeleteSchedule(id int64) error
}

type staffService struct {
	staffRepo repositories.StaffRepository
	db        *sql.DB
}

// NewStaffService creates a new instance of StaffService.
func NewStaffService(sr repositories.StaffRepository, db *sql.DB) StaffService {
	return &staffService{staffRepo: sr, db: db}
}

func (s *staffService) CreateStaffMember(staff *models.StaffMember) (*models.StaffMember, error) {
	if staff.HireDate.IsZero() {
		staff.HireDate = time.Now()
	}
	id, err := s.staffRepo.CreateStaffMember(s.db, staff)
	if err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	return s.GetStaffMemberByID(id)
}

func (s *staffService) GetStaffMemberByID(id int64) (*models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMemberByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member %d: %w", id, err)
	}
	return staff, nil
}

func (s *staffService) GetStaffMembers() ([]models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to get staff members: %w", err)
	}
	return staff, nil
}

func (s *staffService) UpdateStaffMember(id int64, staff *models.StaffMember) (*models.StaffMember, error) {
	staff.ID = id
	if err := s.staffRepo.UpdateStaffMember(s.db, staff); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to update staff member %d: %w", id, err)
	}
	return s.GetStaffMemberByID(id)
}

func (s *staffService) DeleteStaffMember(id int64) error {
	if err := s.staffRepo.DeleteStaffMember(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("failed to delete staff member %d: %w", id, err)
	}
	return nil
}

// --- Schedules ---

func (s *staffService) validateShift(req StaffScheduleRequest) error {
	if !req.ShiftEnd.After(req.ShiftStart) {
		return fmt.Errorf("%w: shift end must be after shift start", ErrValidation)
	}
	if _, err := s.staffRepo.GetStaffMemberByID(req.StaffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: staff member %d does not exist", ErrValidation, req.StaffID)
		}
		return fmt.Errorf("failed to resolve staff member %d: %w", req.StaffID, err)
	}
	return nil
}

func (s *staffService) CreateSchedule(req StaffScheduleRequest) (*models.StaffSchedule, error) {
	if err := s.validateShift(req); err != nil {
		return nil, err
	}

	schedule := models.StaffSchedule{
		StaffID:    req.StaffID,
		ShiftStart: req.ShiftStart,
		ShiftEnd:   req.ShiftEnd,
		Role:       req.Role,
	}
	if _, err := s.staffRepo.CreateSchedule(s.db, &schedule); err != nil {
		return nil, fmt.Errorf("failed to create staff schedule: %w", err)
	}
	return &schedule, nil
}

func (s *staffService) GetSchedules() ([]models.StaffSchedule, error) {
	schedules, err := s.staffRepo.GetSchedules()
	if err != nil {
		return nil, fmt.Errorf("failed to get staff schedules: %w", err)
	}
	return schedules, nil
}

func (s *staffService) UpdateSchedule(id int64, req StaffScheduleRequest) (*models.StaffSchedule, error) {
	if err := s.validateShift(req); err != nil {
		return nil, err
	}

	schedule := models.StaffSchedule{
		ID:         id,
		StaffID:    req.StaffID,
		ShiftStart: req.ShiftStart,
		ShiftEnd:   req.ShiftEnd,
		Role:       req.Role,
	}
	if err := s.staffRepo.UpdateSchedule(s.db, &schedule); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to update staff schedule %d: %w", id, err)
	}
	return &schedule, nil
}

func (s *staffService) DeleteSchedule(id int64) error {
	if err := s.staffRepo.DeleteSchedule(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return fmt.Errorf("failed to delete staff schedule %d: %w", id, err)
	}
	return nil
}
