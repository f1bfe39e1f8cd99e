package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Trophy struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"uniqueIndex:idx_trophies_name;not null"`
	Description    string
	PointsRequired int `gorm:"not null;index"`
	CreatedAt      time.Time
}

type TrophyOwnership struct {
	ID       uint `gorm:"primaryKey"`
	PersonID uint `gorm:"not null;uniqueIndex:idx_trophy_ownerships_person_trophy"`
	TrophyID uint `gorm:"not null;uniqueIndex:idx_trophy_ownerships_person_trophy"`
	EarnedAt time.Time
}

type OwnedTrophy struct {
	Trophy   Trophy
	EarnedAt time.Time
}

type TrophyDAO struct {
	db *gorm.DB
}

func NewTrophyDAO(db *gorm.DB) *TrophyDAO {
	return &TrophyDAO{
		db: db,
	}
}

func (d *TrophyDAO) Insert(ctx context.Context, trophy Trophy) (Trophy, error) {
	if err := conn(ctx, d.db).Create(&trophy).Error; err != nil {
		return Trophy{}, translate(err)
	}

	return trophy, nil
}

func (d *TrophyDAO) List(ctx context.Context) ([]Trophy, error) {
	var trophies []Trophy
	if err := conn(ctx, d.db).Order("points_required ASC").Order("id ASC").Find(&trophies).Error; err != nil {
		return nil, translate(err)
	}

	return trophies, nil
}

// ListUnownedWithin returns the trophies a person does not hold whose
// threshold is at most points.
func (d *TrophyDAO) ListUnownedWithin(ctx context.Context, personID uint, points int) ([]Trophy, error) {
	db := conn(ctx, d.db)
	owned := db.Model(&TrophyOwnership{}).Select("trophy_id").Where("person_id = ?", personID)

	var trophies []Trophy
	err := db.
		Where("points_required <= ?", points).
		Where("id NOT IN (?)", owned).
		Order("points_required ASC").
		Order("id ASC").
		Find(&trophies).Error
	if err != nil {
		return nil, translate(err)
	}

	return trophies, nil
}

// Grant records ownership unless it already exists. It reports whether a
// new row was written; a concurrent grant of the same pair is a no-op.
func (d *TrophyDAO) Grant(ctx context.Context, personID, trophyID uint, at time.Time) (bool, error) {
	ownership := TrophyOwnership{PersonID: personID, TrophyID: trophyID, EarnedAt: at}
	result := conn(ctx, d.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "person_id"}, {Name: "trophy_id"}},
			DoNothing: true,
		}).
		Create(&ownership)
	if result.Error != nil {
		return false, translate(result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (d *TrophyDAO) ListOwned(ctx context.Context, personID uint) ([]OwnedTrophy, error) {
	db := conn(ctx, d.db)

	var ownerships []TrophyOwnership
	if err := db.Where("person_id = ?", personID).Order("earned_at ASC").Order("id ASC").Find(&ownerships).Error; err != nil {
		return nil, translate(err)
	}
	if len(ownerships) == 0 {
		return []OwnedTrophy{}, nil
	}

	ids := make([]uint, len(ownerships))
	for i, o := range ownerships {
		ids[i] = o.TrophyID
	}
	var trophies []Trophy
	if err := db.Where("id IN ?", ids).Find(&trophies).Error; err != nil {
		return nil, translate(err)
	}
	byID := make(map[uint]Trophy, len(trophies))
	for _, t := range trophies {
		byID[t.ID] = t
	}

	owned := make([]OwnedTrophy, 0, len(ownerships))
	for _, o := range ownerships {
		owned = append(owned, OwnedTrophy{Trophy: byID[o.TrophyID], EarnedAt: o.EarnedAt})
	}

	return owned, nil
}

func (d *TrophyDAO) CountOwnerships(ctx context.Context, personID, trophyID uint) (int64, error) {
	var count int64
	err := conn(ctx, d.db).Model(&TrophyOwnership{}).
		Where("person_id = ? AND trophy_id = ?", personID, trophyID).
		Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}

	return count, nil
}
