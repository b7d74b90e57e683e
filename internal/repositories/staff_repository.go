package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_ops_backend/internal/models"

	"github.com/lib/pq"
)

// StaffRepository defines the interface for staff and schedule database operations.
type StaffRepository interface {
	CreateStaffMember(executor SQLExecutor, staff *models.StaffMember) (int64, error)
	GetStaffMemberByID(id int64) (*models.StaffMember, error)
	GetStaffMembers() ([]models.StaffMember, error)
	UpdateStaffMember(executor SQLExecutor, staff *models.StaffMember) error
	DeleteStaffMember(executor SQLExecutor, id int64) error

	CreateSchedule(executor SQLExecutor, schedule *models.StaffSchedule) (int64, error)
	GetSchedules() ([]models.StaffSchedule, error)
	UpdateSchedule(executor SQLExecutor, schedule *models.StaffSchedule) error
	DeleteSchedule(executor SQLExecutor, id int64) error
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) CreateStaffMember(executor SQLExecutor, staff *models.StaffMember) (int64, error) {
	query := `INSERT INTO staff (name, hire_date, work_hours, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query, staff.Name, staff.HireDate, staff.WorkHours, currentTime, currentTime).Scan(&staff.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating staff member: %v", ErrDatabaseError, err)
	}
	return staff.ID, nil
}

func (r *staffRepository) GetStaffMemberByID(id int64) (*models.StaffMember, error) {
	staff := &models.StaffMember{}
	query := `SELECT id, name, hire_date, work_hours, created_at, updated_at FROM staff WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&staff.ID, &staff.Name, &staff.HireDate, &staff.WorkHours, &staff.CreatedAt, &staff.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting staff member by ID %d: %v", ErrDatabaseError, id, err)
	}
	return staff, nil
}

func (r *staffRepository) GetStaffMembers() ([]models.StaffMember, error) {
	members := []models.StaffMember{}
	query := `SELECT id, name, hire_date, work_hours, created_at, updated_at FROM staff ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting staff members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var staff models.StaffMember
		if err := rows.Scan(
			&staff.ID, &staff.Name, &staff.HireDate, &staff.WorkHours, &staff.CreatedAt, &staff.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning staff member: %v", ErrDatabaseError, err)
		}
		members = append(members, staff)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating staff members: %v", ErrDatabaseError, err)
	}
	return members, nil
}

func (r *staffRepository) UpdateStaffMember(executor SQLExecutor, staff *models.StaffMember) error {
	query := `UPDATE staff SET name = $1, hire_date = $2, work_hours = $3, updated_at = $4 WHERE id = $5`
	result, err := executor.Exec(query, staff.Name, staff.HireDate, staff.WorkHours, time.Now(), staff.ID)
	if err != nil {
		return fmt.Errorf("%w: updating staff member ID %d: %v", ErrDatabaseError, staff.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffRepository) DeleteStaffMember(executor SQLExecutor, id int64) error {
	query := `DELETE FROM staff WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: staff member ID %d cannot be deleted as they have schedule entries (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting staff member ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Schedule Methods ---

func (r *staffRepository) CreateSchedule(executor SQLExecutor, schedule *models.StaffSchedule) (int64, error) {
	query := `INSERT INTO staff_schedules (staff_id, shift_start, shift_end, role)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := executor.QueryRow(query, schedule.StaffID, schedule.ShiftStart, schedule.ShiftEnd, schedule.Role).Scan(&schedule.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating schedule for unknown staff ID %d (constraint: %s)", ErrDatabaseError, schedule.StaffID, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating staff schedule: %v", ErrDatabaseError, err)
	}
	return schedule.ID, nil
}

func (r *staffRepository) GetSchedules() ([]models.StaffSchedule, error) {
	schedules := []models.StaffSchedule{}
	query := `SELECT ss.id, ss.staff_id, ss.shift_start, ss.shift_end, ss.role, s.name AS staff_name
	          FROM staff_schedules ss
	          JOIN staff s ON ss.staff_id = s.id
	          ORDER BY ss.shift_start`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting staff schedules: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var schedule models.StaffSchedule
		var staffName string
		if err := rows.Scan(
			&schedule.ID, &schedule.StaffID, &schedule.ShiftStart, &schedule.ShiftEnd, &schedule.Role, &staffName,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning staff schedule: %v", ErrDatabaseError, err)
		}
		schedule.StaffName = &staffName
		schedules = append(schedules, schedule)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating staff schedules: %v", ErrDatabaseError, err)
	}
	return schedules, nil
}

func (r *staffRepository) UpdateSchedule(executor SQLExecutor, schedule *models.StaffSchedule) error {
	query := `UPDATE staff_schedules SET staff_id = $1, shift_start = $2, shift_end = $3, role = $4 WHERE id = $5`
	result, err := executor.Exec(query, schedule.StaffID, schedule.ShiftStart, schedule.ShiftEnd, schedule.Role, schedule.ID)
	if err != nil {
		return fmt.Errorf("%w: updating staff schedule ID %d: %v", ErrDatabaseError, schedule.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffRepository) DeleteSchedule(executor SQLExecutor, id int64) error {
	query := `DELETE FROM staff_schedules WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting staff schedule ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
