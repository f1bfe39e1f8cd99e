package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Session struct {
	ID        uint      `gorm:"primaryKey"`
	TokenHash string    `gorm:"uniqueIndex:idx_sessions_token_hash;not null"`
	PersonID  uint      `gorm:"not null;index"`
	Role      string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

type SessionDAO struct {
	db *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{
		db: db,
	}
}

func (d *SessionDAO) Insert(ctx context.Context, session Session) (Session, error) {
	if err := conn(ctx, d.db).Create(&session).Error; err != nil {
		return Session{}, translate(err)
	}

	return session, nil
}

func (d *SessionDAO) FindByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	var session Session
	if err := conn(ctx, d.db).First(&session, "token_hash = ?", tokenHash).Error; err != nil {
		return Session{}, translate(err)
	}

	return session, nil
}

func (d *SessionDAO) Touch(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	return affected(conn(ctx, d.db).Model(&Session{}).
		Where("token_hash = ?", tokenHash).
		Update("expires_at", expiresAt))
}

func (d *SessionDAO) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return translate(conn(ctx, d.db).Where("token_hash = ?", tokenHash).Delete(&Session{}).Error)
}

func (d *SessionDAO) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := conn(ctx, d.db).Where("expires_at <= ?", now).Delete(&Session{})
	if result.Error != nil {
		return 0, translate(result.Error)
	}

	return result.RowsAffected, nil
}
