package domain

import "time"

type Module struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeacherID   *uint     `json:"teacher_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Membership struct {
	ID       uint      `json:"id"`
	PersonID uint      `json:"person_id"`
	ModuleID uint      `json:"module_id"`
	JoinedAt time.Time `json:"joined_at"`
}

type RosterEntry struct {
	Membership Membership `json:"membership"`
	Person     Person     `json:"person"`
}

type Resource struct {
	ID          uint      `json:"id"`
	ModuleID    uint      `json:"module_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileRef     *string   `json:"file_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Task struct {
	ID          uint       `json:"id"`
	ModuleID    uint       `json:"module_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
