package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Submission struct {
	ID            uint   `gorm:"primaryKey"`
	TaskID        uint   `gorm:"not null;uniqueIndex:idx_submissions_task_student"`
	StudentID     uint   `gorm:"not null;uniqueIndex:idx_submissions_task_student;index"`
	Content       string `gorm:"type:text"`
	FileRef       *string
	DeliveredAt   time.Time `gorm:"not null"`
	Grade         *int
	Feedback      *string `gorm:"type:text"`
	GraderID      *uint
	GradedAt      *time.Time
	CreditedGrade int `gorm:"not null;default:0"`
}

type SubmissionDAO struct {
	db *gorm.DB
}

func NewSubmissionDAO(db *gorm.DB) *SubmissionDAO {
	return &SubmissionDAO{
		db: db,
	}
}

func (d *SubmissionDAO) Insert(ctx context.Context, submission Submission) (Submission, error) {
	if err := conn(ctx, d.db).Create(&submission).Error; err != nil {
		return Submission{}, translate(err)
	}

	return submission, nil
}

func (d *SubmissionDAO) FindByID(ctx context.Context, id uint) (Submission, error) {
	var submission Submission
	if err := conn(ctx, d.db).First(&submission, id).Error; err != nil {
		return Submission{}, translate(err)
	}

	return submission, nil
}

func (d *SubmissionDAO) CountByTaskAndStudent(ctx context.Context, taskID, studentID uint) (int64, error) {
	var count int64
	err := conn(ctx, d.db).Model(&Submission{}).
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}

	return count, nil
}

func (d *SubmissionDAO) ListByTask(ctx context.Context, taskID uint) ([]Submission, error) {
	var submissions []Submission
	if err := conn(ctx, d.db).Where("task_id = ?", taskID).Order("id ASC").Find(&submissions).Error; err != nil {
		return nil, translate(err)
	}

	return submissions, nil
}

// UpdateGrade overwrites the grading columns of an existing submission.
func (d *SubmissionDAO) UpdateGrade(ctx context.Context, submission Submission) error {
	return affected(conn(ctx, d.db).Model(&Submission{}).Where("id = ?", submission.ID).Updates(map[string]any{
		"grade":          submission.Grade,
		"feedback":       submission.Feedback,
		"grader_id":      submission.GraderID,
		"graded_at":      submission.GradedAt,
		"credited_grade": submission.CreditedGrade,
	}))
}
