package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Person struct {
	ID uint `gorm:"primaryKey"`

	Username string `gorm:"uniqueIndex:idx_persons_username;not null"`
	Email    string `gorm:"uniqueIndex:idx_persons_email;not null"`
	Password string `gorm:"not null"`

	Role      string `gorm:"not null;index"`
	Points    int    `gorm:"not null;default:0"`
	AvatarRef *string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Person) TableName() string {
	return "persons"
}

type PersonDAO struct {
	db *gorm.DB
}

func NewPersonDAO(db *gorm.DB) *PersonDAO {
	return &PersonDAO{
		db: db,
	}
}

func (d *PersonDAO) Insert(ctx context.Context, person Person) (Person, error) {
	if err := conn(ctx, d.db).Create(&person).Error; err != nil {
		return Person{}, translate(err)
	}

	return person, nil
}

func (d *PersonDAO) FindByID(ctx context.Context, id uint) (Person, error) {
	var person Person
	if err := conn(ctx, d.db).First(&person, id).Error; err != nil {
		return Person{}, translate(err)
	}

	return person, nil
}

func (d *PersonDAO) FindByUsername(ctx context.Context, username string) (Person, error) {
	var person Person
	if err := conn(ctx, d.db).First(&person, "username = ?", username).Error; err != nil {
		return Person{}, translate(err)
	}

	return person, nil
}

func (d *PersonDAO) FindByEmail(ctx context.Context, email string) (Person, error) {
	var person Person
	if err := conn(ctx, d.db).First(&person, "email = ?", email).Error; err != nil {
		return Person{}, translate(err)
	}

	return person, nil
}

func (d *PersonDAO) List(ctx context.Context) ([]Person, error) {
	var persons []Person
	if err := conn(ctx, d.db).Order("id ASC").Find(&persons).Error; err != nil {
		return nil, translate(err)
	}

	return persons, nil
}

// TopByRole orders by points descending, ties by insertion order.
func (d *PersonDAO) TopByRole(ctx context.Context, role string, limit int) ([]Person, error) {
	var persons []Person
	result := conn(ctx, d.db).
		Where("role = ?", role).
		Order("points DESC").
		Order("id ASC").
		Limit(limit).
		Find(&persons)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return persons, nil
}

// UpdateProfile writes only the non-balance profile columns.
func (d *PersonDAO) UpdateProfile(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	return affected(conn(ctx, d.db).Model(&Person{}).Where("id = ?", id).Updates(fields))
}

func (d *PersonDAO) UpdateRole(ctx context.Context, id uint, role string) error {
	return affected(conn(ctx, d.db).Model(&Person{}).Where("id = ?", id).Updates(map[string]any{
		"role":       role,
		"updated_at": time.Now(),
	}))
}

// AddPoints increments the balance in place so concurrent credits never
// lose an update.
func (d *PersonDAO) AddPoints(ctx context.Context, id uint, amount int) (Person, error) {
	result := conn(ctx, d.db).Model(&Person{}).Where("id = ?", id).Updates(map[string]any{
		"points":     gorm.Expr("points + ?", amount),
		"updated_at": time.Now(),
	})
	if err := affected(result); err != nil {
		return Person{}, err
	}

	return d.FindByID(ctx, id)
}

// Delete removes a person and everything hanging off it. References that
// survive the person (module ownership, grader) are cleared.
func (d *PersonDAO) Delete(ctx context.Context, id uint) error {
	db := conn(ctx, d.db)

	steps := []func() error{
		func() error { return db.Where("person_id = ?", id).Delete(&Session{}).Error },
		func() error { return db.Where("person_id = ?", id).Delete(&PlaySession{}).Error },
		func() error { return db.Where("person_id = ?", id).Delete(&TrophyOwnership{}).Error },
		func() error { return db.Where("student_id = ?", id).Delete(&Submission{}).Error },
		func() error { return db.Where("person_id = ?", id).Delete(&Membership{}).Error },
		func() error {
			return db.Model(&Module{}).Where("teacher_id = ?", id).Update("teacher_id", nil).Error
		},
		func() error {
			return db.Model(&Submission{}).Where("grader_id = ?", id).Update("grader_id", nil).Error
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return translate(err)
		}
	}

	return affected(db.Delete(&Person{}, id))
}
