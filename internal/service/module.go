package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edugamify/classroom-api/internal/blob"
	"github.com/edugamify/classroom-api/internal/domain"
)

type ModuleRepository interface {
	Create(ctx context.Context, module domain.Module) (domain.Module, error)
	FindByID(ctx context.Context, id uint) (domain.Module, error)
	List(ctx context.Context) ([]domain.Module, error)
	Delete(ctx context.Context, id uint) error
	Join(ctx context.Context, moduleID, personID uint, at time.Time) (domain.Membership, error)
	IsMember(ctx context.Context, moduleID, personID uint) (bool, error)
	Roster(ctx context.Context, moduleID uint) ([]domain.RosterEntry, error)
	CreateResource(ctx context.Context, resource domain.Resource) (domain.Resource, error)
	ListResources(ctx context.Context, moduleID uint) ([]domain.Resource, error)
	CreateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	FindTaskByID(ctx context.Context, id uint) (domain.Task, error)
	ListTasks(ctx context.Context, moduleID uint) ([]domain.Task, error)
}

type ModulePersonRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Person, error)
}

type NewModule struct {
	Title       string
	Description string
	TeacherID   *uint
}

type NewResource struct {
	Title       string
	Description string
	File        *Upload
}

type NewTask struct {
	Title       string
	Description string
	Points      int
	DueAt       string
}

type ModuleService struct {
	tx      Transactor
	modules ModuleRepository
	persons ModulePersonRepository
	blobs   blob.Store
	now     func() time.Time
}

func NewModuleService(tx Transactor, modules ModuleRepository, persons ModulePersonRepository, blobs blob.Store) *ModuleService {
	return &ModuleService{
		tx:      tx,
		modules: modules,
		persons: persons,
		blobs:   blobs,
		now:     time.Now,
	}
}

func (s *ModuleService) List(ctx context.Context) ([]domain.Module, error) {
	modules, err := s.modules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.modules.List -> %w", err)
	}

	return modules, nil
}

// Create makes a teacher the owner of their own module. Admins may name any
// teacher as owner, or none.
func (s *ModuleService) Create(ctx context.Context, actor domain.Person, input NewModule) (domain.Module, error) {
	module := domain.Module{Title: input.Title, Description: input.Description}

	switch actor.Role {
	case domain.RoleTeacher:
		module.TeacherID = &actor.ID
	case domain.RoleAdmin:
		if input.TeacherID != nil {
			teacher, err := s.persons.FindByID(ctx, *input.TeacherID)
			if err != nil {
				return domain.Module{}, fmt.Errorf("s.persons.FindByID -> %w", err)
			}
			if teacher.Role != domain.RoleTeacher {
				return domain.Module{}, domain.WithDetail(domain.ErrNotATeacher, "teacher_id", teacher.ID)
			}
			module.TeacherID = &teacher.ID
		}
	default:
		return domain.Module{}, domain.WithDetail(domain.ErrRoleNotAllowed, "role", actor.Role)
	}

	created, err := s.modules.Create(ctx, module)
	if err != nil {
		return domain.Module{}, fmt.Errorf("s.modules.Create -> %w", err)
	}

	return created, nil
}

// Delete removes the module with its tasks, their submissions, resources and
// memberships. Only admins and the owning teacher may do it.
func (s *ModuleService) Delete(ctx context.Context, actor domain.Person, moduleID uint) error {
	module, err := s.modules.FindByID(ctx, moduleID)
	if err != nil {
		return fmt.Errorf("s.modules.FindByID -> %w", err)
	}
	if actor.Role != domain.RoleAdmin && (module.TeacherID == nil || *module.TeacherID != actor.ID) {
		return domain.WithDetail(domain.ErrNotModuleOwner, "module_id", moduleID)
	}

	return s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.modules.Delete(ctx, moduleID); err != nil {
			return fmt.Errorf("s.modules.Delete -> %w", err)
		}

		return nil
	})
}

func (s *ModuleService) Join(ctx context.Context, moduleID, studentID uint) (domain.Membership, error) {
	if _, err := s.modules.FindByID(ctx, moduleID); err != nil {
		return domain.Membership{}, fmt.Errorf("s.modules.FindByID -> %w", err)
	}

	joined, err := s.modules.IsMember(ctx, moduleID, studentID)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("s.modules.IsMember -> %w", err)
	}
	if joined {
		return domain.Membership{}, domain.WithDetail(domain.ErrAlreadyJoined, "module_id", moduleID)
	}

	membership, err := s.modules.Join(ctx, moduleID, studentID, s.now().UTC())
	if err != nil {
		return domain.Membership{}, fmt.Errorf("s.modules.Join -> %w", err)
	}

	return membership, nil
}

func (s *ModuleService) Roster(ctx context.Context, moduleID uint) ([]domain.RosterEntry, error) {
	if _, err := s.modules.FindByID(ctx, moduleID); err != nil {
		return nil, fmt.Errorf("s.modules.FindByID -> %w", err)
	}

	roster, err := s.modules.Roster(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("s.modules.Roster -> %w", err)
	}

	return roster, nil
}

func (s *ModuleService) ListResources(ctx context.Context, moduleID uint) ([]domain.Resource, error) {
	if _, err := s.modules.FindByID(ctx, moduleID); err != nil {
		return nil, fmt.Errorf("s.modules.FindByID -> %w", err)
	}

	resources, err := s.modules.ListResources(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("s.modules.ListResources -> %w", err)
	}

	return resources, nil
}

func (s *ModuleService) CreateResource(ctx context.Context, moduleID uint, input NewResource) (domain.Resource, error) {
	if _, err := s.modules.FindByID(ctx, moduleID); err != nil {
		return domain.Resource{}, fmt.Errorf("s.modules.FindByID -> %w", err)
	}

	fileRef, err := storeUpload(ctx, s.blobs, blob.CategoryCoursework, input.File)
	if err != nil {
		return domain.Resource{}, err
	}

	resource, err := s.modules.CreateResource(ctx, domain.Resource{
		ModuleID:    moduleID,
		Title:       input.Title,
		Description: input.Description,
		FileRef:     fileRef,
	})
	if err != nil {
		discardUpload(ctx, s.blobs, fileRef)
		return domain.Resource{}, fmt.Errorf("s.modules.CreateResource -> %w", err)
	}

	return resource, nil
}

func (s *ModuleService) ListTasks(ctx context.Context, moduleID uint) ([]domain.Task, error) {
	if _, err := s.modules.FindByID(ctx, moduleID); err != nil {
		return nil, fmt.Errorf("s.modules.FindByID -> %w", err)
	}

	tasks, err := s.modules.ListTasks(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("s.modules.ListTasks -> %w", err)
	}

	return tasks, nil
}

func (s *ModuleService) CreateTask(ctx context.Context, moduleID uint, input NewTask) (domain.Task, error) {
	if input.Points < 0 {
		return domain.Task{}, domain.WithDetail(domain.ErrNegativePoints, "points", input.Points)
	}
	dueAt, err := ParseDueDate(input.DueAt)
	if err != nil {
		return domain.Task{}, err
	}
	if _, err := s.modules.FindByID(ctx, moduleID); err != nil {
		return domain.Task{}, fmt.Errorf("s.modules.FindByID -> %w", err)
	}

	task, err := s.modules.CreateTask(ctx, domain.Task{
		ModuleID:    moduleID,
		Title:       input.Title,
		Description: input.Description,
		Points:      input.Points,
		DueAt:       dueAt,
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("s.modules.CreateTask -> %w", err)
	}

	return task, nil
}

var dueDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDueDate accepts RFC 3339, an HTML datetime-local value or a bare
// date. Values without a zone are read as UTC. An empty value means no due
// date.
func ParseDueDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, domain.WithDetail(domain.ErrInvalidDueDate, "due_at", value)
}
