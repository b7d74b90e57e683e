package models

import "time"

// StaffMember represents a restaurant employee.
type StaffMember struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	HireDate  time.Time `json:"hire_date" db:"hire_date"`
	WorkHours *string   `json:"work_hours,omitempty" db:"work_hours"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StaffSchedule is one shift entry on the staff calendar.
type StaffSchedule struct {
	ID         int64     `json:"id" db:"id"`
	StaffID    int64     `json:"staff_id" db:"staff_id"`
	ShiftStart time.Time `json:"shift_start" db:"shift_start"`
	ShiftEnd   time.Time `json:"shift_end" db:"shift_end"`
	Role       *string   `json:"role,omitempty" db:"role"`

	StaffName *string `json:"staff_name,omitempty"`
}
