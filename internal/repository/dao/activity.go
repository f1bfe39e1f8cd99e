package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Activity struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"uniqueIndex:idx_activities_name;not null"`
	Description   string
	PointsPerPlay int `gorm:"not null;default:0"`
	CreatedAt     time.Time
}

type PlaySession struct {
	ID         uint `gorm:"primaryKey"`
	ActivityID uint `gorm:"not null;index"`
	PersonID   uint `gorm:"not null;index"`
	Score      int  `gorm:"not null"`
	PlayedAt   time.Time
}

type ScoredPlay struct {
	Play     PlaySession
	Username string
}

type ActivityDAO struct {
	db *gorm.DB
}

func NewActivityDAO(db *gorm.DB) *ActivityDAO {
	return &ActivityDAO{
		db: db,
	}
}

func (d *ActivityDAO) Insert(ctx context.Context, activity Activity) (Activity, error) {
	if err := conn(ctx, d.db).Create(&activity).Error; err != nil {
		return Activity{}, translate(err)
	}

	return activity, nil
}

func (d *ActivityDAO) FindByID(ctx context.Context, id uint) (Activity, error) {
	var activity Activity
	if err := conn(ctx, d.db).First(&activity, id).Error; err != nil {
		return Activity{}, translate(err)
	}

	return activity, nil
}

func (d *ActivityDAO) List(ctx context.Context) ([]Activity, error) {
	var activities []Activity
	if err := conn(ctx, d.db).Order("id ASC").Find(&activities).Error; err != nil {
		return nil, translate(err)
	}

	return activities, nil
}

func (d *ActivityDAO) InsertPlay(ctx context.Context, play PlaySession) (PlaySession, error) {
	if err := conn(ctx, d.db).Create(&play).Error; err != nil {
		return PlaySession{}, translate(err)
	}

	return play, nil
}

// HighScores orders plays of one activity by score descending, ties by
// insertion order.
func (d *ActivityDAO) HighScores(ctx context.Context, activityID uint, limit int) ([]ScoredPlay, error) {
	db := conn(ctx, d.db)

	var plays []PlaySession
	err := db.Where("activity_id = ?", activityID).
		Order("score DESC").
		Order("id ASC").
		Limit(limit).
		Find(&plays).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(plays) == 0 {
		return []ScoredPlay{}, nil
	}

	ids := make([]uint, 0, len(plays))
	for _, p := range plays {
		ids = append(ids, p.PersonID)
	}
	var persons []Person
	if err := db.Select("id", "username").Where("id IN ?", ids).Find(&persons).Error; err != nil {
		return nil, translate(err)
	}
	names := make(map[uint]string, len(persons))
	for _, p := range persons {
		names[p.ID] = p.Username
	}

	scored := make([]ScoredPlay, 0, len(plays))
	for _, p := range plays {
		scored = append(scored, ScoredPlay{Play: p, Username: names[p.PersonID]})
	}

	return scored, nil
}
