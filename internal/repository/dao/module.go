package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Module struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	TeacherID   *uint `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Membership struct {
	ID       uint `gorm:"primaryKey"`
	PersonID uint `gorm:"not null;uniqueIndex:idx_memberships_person_module"`
	ModuleID uint `gorm:"not null;uniqueIndex:idx_memberships_person_module;index"`
	JoinedAt time.Time
}

type Resource struct {
	ID          uint   `gorm:"primaryKey"`
	ModuleID    uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	FileRef     *string
	CreatedAt   time.Time
}

type Task struct {
	ID          uint   `gorm:"primaryKey"`
	ModuleID    uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Points      int `gorm:"not null;default:0"`
	DueAt       *time.Time
	CreatedAt   time.Time
}

// RosterRow is a membership with its person.
type RosterRow struct {
	Membership Membership
	Person     Person
}

type ModuleDAO struct {
	db *gorm.DB
}

func NewModuleDAO(db *gorm.DB) *ModuleDAO {
	return &ModuleDAO{
		db: db,
	}
}

func (d *ModuleDAO) Insert(ctx context.Context, module Module) (Module, error) {
	if err := conn(ctx, d.db).Create(&module).Error; err != nil {
		return Module{}, translate(err)
	}

	return module, nil
}

func (d *ModuleDAO) FindByID(ctx context.Context, id uint) (Module, error) {
	var module Module
	if err := conn(ctx, d.db).First(&module, id).Error; err != nil {
		return Module{}, translate(err)
	}

	return module, nil
}

func (d *ModuleDAO) List(ctx context.Context) ([]Module, error) {
	var modules []Module
	if err := conn(ctx, d.db).Order("id ASC").Find(&modules).Error; err != nil {
		return nil, translate(err)
	}

	return modules, nil
}

// Delete cascades to the module's submissions, tasks, resources and
// memberships, in that order.
func (d *ModuleDAO) Delete(ctx context.Context, id uint) error {
	db := conn(ctx, d.db)

	taskIDs := db.Model(&Task{}).Select("id").Where("module_id = ?", id)
	steps := []func() error{
		func() error { return db.Where("task_id IN (?)", taskIDs).Delete(&Submission{}).Error },
		func() error { return db.Where("module_id = ?", id).Delete(&Task{}).Error },
		func() error { return db.Where("module_id = ?", id).Delete(&Resource{}).Error },
		func() error { return db.Where("module_id = ?", id).Delete(&Membership{}).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return translate(err)
		}
	}

	return affected(db.Delete(&Module{}, id))
}

func (d *ModuleDAO) InsertMembership(ctx context.Context, membership Membership) (Membership, error) {
	if err := conn(ctx, d.db).Create(&membership).Error; err != nil {
		return Membership{}, translate(err)
	}

	return membership, nil
}

func (d *ModuleDAO) FindMembership(ctx context.Context, moduleID, personID uint) (Membership, error) {
	var membership Membership
	err := conn(ctx, d.db).
		Where("module_id = ? AND person_id = ?", moduleID, personID).
		First(&membership).Error
	if err != nil {
		return Membership{}, translate(err)
	}

	return membership, nil
}

func (d *ModuleDAO) Roster(ctx context.Context, moduleID uint) ([]RosterRow, error) {
	db := conn(ctx, d.db)

	var memberships []Membership
	if err := db.Where("module_id = ?", moduleID).Order("id ASC").Find(&memberships).Error; err != nil {
		return nil, translate(err)
	}
	if len(memberships) == 0 {
		return []RosterRow{}, nil
	}

	ids := make([]uint, len(memberships))
	for i, m := range memberships {
		ids[i] = m.PersonID
	}
	var persons []Person
	if err := db.Where("id IN ?", ids).Find(&persons).Error; err != nil {
		return nil, translate(err)
	}
	byID := make(map[uint]Person, len(persons))
	for _, p := range persons {
		byID[p.ID] = p
	}

	rows := make([]RosterRow, 0, len(memberships))
	for _, m := range memberships {
		rows = append(rows, RosterRow{Membership: m, Person: byID[m.PersonID]})
	}

	return rows, nil
}

func (d *ModuleDAO) InsertResource(ctx context.Context, resource Resource) (Resource, error) {
	if err := conn(ctx, d.db).Create(&resource).Error; err != nil {
		return Resource{}, translate(err)
	}

	return resource, nil
}

func (d *ModuleDAO) ListResources(ctx context.Context, moduleID uint) ([]Resource, error) {
	var resources []Resource
	if err := conn(ctx, d.db).Where("module_id = ?", moduleID).Order("id ASC").Find(&resources).Error; err != nil {
		return nil, translate(err)
	}

	return resources, nil
}

func (d *ModuleDAO) InsertTask(ctx context.Context, task Task) (Task, error) {
	if err := conn(ctx, d.db).Create(&task).Error; err != nil {
		return Task{}, translate(err)
	}

	return task, nil
}

func (d *ModuleDAO) FindTaskByID(ctx context.Context, id uint) (Task, error) {
	var task Task
	if err := conn(ctx, d.db).First(&task, id).Error; err != nil {
		return Task{}, translate(err)
	}

	return task, nil
}

func (d *ModuleDAO) ListTasks(ctx context.Context, moduleID uint) ([]Task, error) {
	var tasks []Task
	if err := conn(ctx, d.db).Where("module_id = ?", moduleID).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, translate(err)
	}

	return tasks, nil
}
