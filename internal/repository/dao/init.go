package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Person{},
		&Session{},
		&Module{},
		&Membership{},
		&Resource{},
		&Task{},
		&Submission{},
		&Trophy{},
		&TrophyOwnership{},
		&Activity{},
		&PlaySession{},
	)
}
