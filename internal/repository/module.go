package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/repository/dao"
)

type ModuleDAO interface {
	Insert(ctx context.Context, module dao.Module) (dao.Module, error)
	FindByID(ctx context.Context, id uint) (dao.Module, error)
	List(ctx context.Context) ([]dao.Module, error)
	Delete(ctx context.Context, id uint) error
	InsertMembership(ctx context.Context, membership dao.Membership) (dao.Membership, error)
	FindMembership(ctx context.Context, moduleID, personID uint) (dao.Membership, error)
	Roster(ctx context.Context, moduleID uint) ([]dao.RosterRow, error)
	InsertResource(ctx context.Context, resource dao.Resource) (dao.Resource, error)
	ListResources(ctx context.Context, moduleID uint) ([]dao.Resource, error)
	InsertTask(ctx context.Context, task dao.Task) (dao.Task, error)
	FindTaskByID(ctx context.Context, id uint) (dao.Task, error)
	ListTasks(ctx context.Context, moduleID uint) ([]dao.Task, error)
}

type ModuleRepository struct {
	dao ModuleDAO
}

func NewModuleRepository(dao ModuleDAO) *ModuleRepository {
	return &ModuleRepository{
		dao: dao,
	}
}

func (r *ModuleRepository) Create(ctx context.Context, module domain.Module) (domain.Module, error) {
	created, err := r.dao.Insert(ctx, dao.Module{
		Title:       module.Title,
		Description: module.Description,
		TeacherID:   module.TeacherID,
	})
	if err != nil {
		return domain.Module{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return moduleDaoToDomain(created), nil
}

func (r *ModuleRepository) FindByID(ctx context.Context, id uint) (domain.Module, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Module{}, fmt.Errorf("r.dao.FindByID -> %w", notFound(err, domain.WithDetail(domain.ErrModuleNotFound, "id", id)))
	}

	return moduleDaoToDomain(found), nil
}

func (r *ModuleRepository) List(ctx context.Context) ([]domain.Module, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	modules := make([]domain.Module, len(found))
	for i, m := range found {
		modules[i] = moduleDaoToDomain(m)
	}

	return modules, nil
}

func (r *ModuleRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", notFound(err, domain.WithDetail(domain.ErrModuleNotFound, "id", id)))
	}

	return nil
}

func (r *ModuleRepository) Join(ctx context.Context, moduleID, personID uint, at time.Time) (domain.Membership, error) {
	created, err := r.dao.InsertMembership(ctx, dao.Membership{
		PersonID: personID,
		ModuleID: moduleID,
		JoinedAt: at,
	})
	if err != nil {
		return domain.Membership{}, fmt.Errorf("r.dao.InsertMembership -> %w", conflict(err, domain.WithDetail(domain.ErrAlreadyJoined, "module_id", moduleID)))
	}

	return membershipDaoToDomain(created), nil
}

// IsMember reports whether the person already joined the module.
func (r *ModuleRepository) IsMember(ctx context.Context, moduleID, personID uint) (bool, error) {
	_, err := r.dao.FindMembership(ctx, moduleID, personID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, dao.ErrRecordNotFound) {
		return false, nil
	}

	return false, fmt.Errorf("r.dao.FindMembership -> %w", err)
}

func (r *ModuleRepository) Roster(ctx context.Context, moduleID uint) ([]domain.RosterEntry, error) {
	rows, err := r.dao.Roster(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Roster -> %w", err)
	}

	roster := make([]domain.RosterEntry, len(rows))
	for i, row := range rows {
		roster[i] = domain.RosterEntry{
			Membership: membershipDaoToDomain(row.Membership),
			Person:     personDaoToDomain(row.Person),
		}
	}

	return roster, nil
}

func (r *ModuleRepository) CreateResource(ctx context.Context, resource domain.Resource) (domain.Resource, error) {
	created, err := r.dao.InsertResource(ctx, dao.Resource{
		ModuleID:    resource.ModuleID,
		Title:       resource.Title,
		Description: resource.Description,
		FileRef:     resource.FileRef,
	})
	if err != nil {
		return domain.Resource{}, fmt.Errorf("r.dao.InsertResource -> %w", err)
	}

	return resourceDaoToDomain(created), nil
}

func (r *ModuleRepository) ListResources(ctx context.Context, moduleID uint) ([]domain.Resource, error) {
	found, err := r.dao.ListResources(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListResources -> %w", err)
	}

	resources := make([]domain.Resource, len(found))
	for i, res := range found {
		resources[i] = resourceDaoToDomain(res)
	}

	return resources, nil
}

func (r *ModuleRepository) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	created, err := r.dao.InsertTask(ctx, dao.Task{
		ModuleID:    task.ModuleID,
		Title:       task.Title,
		Description: task.Description,
		Points:      task.Points,
		DueAt:       task.DueAt,
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("r.dao.InsertTask -> %w", err)
	}

	return taskDaoToDomain(created), nil
}

func (r *ModuleRepository) FindTaskByID(ctx context.Context, id uint) (domain.Task, error) {
	found, err := r.dao.FindTaskByID(ctx, id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("r.dao.FindTaskByID -> %w", notFound(err, domain.WithDetail(domain.ErrTaskNotFound, "id", id)))
	}

	return taskDaoToDomain(found), nil
}

func (r *ModuleRepository) ListTasks(ctx context.Context, moduleID uint) ([]domain.Task, error) {
	found, err := r.dao.ListTasks(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListTasks -> %w", err)
	}

	tasks := make([]domain.Task, len(found))
	for i, t := range found {
		tasks[i] = taskDaoToDomain(t)
	}

	return tasks, nil
}

func moduleDaoToDomain(m dao.Module) domain.Module {
	return domain.Module{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		TeacherID:   m.TeacherID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func membershipDaoToDomain(m dao.Membership) domain.Membership {
	return domain.Membership{
		ID:       m.ID,
		PersonID: m.PersonID,
		ModuleID: m.ModuleID,
		JoinedAt: m.JoinedAt,
	}
}

func resourceDaoToDomain(r dao.Resource) domain.Resource {
	return domain.Resource{
		ID:          r.ID,
		ModuleID:    r.ModuleID,
		Title:       r.Title,
		Description: r.Description,
		FileRef:     r.FileRef,
		CreatedAt:   r.CreatedAt,
	}
}

func taskDaoToDomain(t dao.Task) domain.Task {
	return domain.Task{
		ID:          t.ID,
		ModuleID:    t.ModuleID,
		Title:       t.Title,
		Description: t.Description,
		Points:      t.Points,
		DueAt:       t.DueAt,
		CreatedAt:   t.CreatedAt,
	}
}
