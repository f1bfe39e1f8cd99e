package repository

import (
	"context"
	"fmt"

	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/repository/dao"
)

type SubmissionDAO interface {
	Insert(ctx context.Context, submission dao.Submission) (dao.Submission, error)
	FindByID(ctx context.Context, id uint) (dao.Submission, error)
	CountByTaskAndStudent(ctx context.Context, taskID, studentID uint) (int64, error)
	ListByTask(ctx context.Context, taskID uint) ([]dao.Submission, error)
	UpdateGrade(ctx context.Context, submission dao.Submission) error
}

type SubmissionRepository struct {
	dao SubmissionDAO
}

func NewSubmissionRepository(dao SubmissionDAO) *SubmissionRepository {
	return &SubmissionRepository{
		dao: dao,
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission domain.Submission) (domain.Submission, error) {
	created, err := r.dao.Insert(ctx, submissionDomainToDao(submission))
	if err != nil {
		err = conflict(err, domain.WithDetail(domain.ErrDuplicateSubmission, "task_id", submission.TaskID))
		return domain.Submission{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return submissionDaoToDomain(created), nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id uint) (domain.Submission, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.FindByID -> %w", notFound(err, domain.WithDetail(domain.ErrSubmissionNotFound, "id", id)))
	}

	return submissionDaoToDomain(found), nil
}

func (r *SubmissionRepository) Exists(ctx context.Context, taskID, studentID uint) (bool, error) {
	count, err := r.dao.CountByTaskAndStudent(ctx, taskID, studentID)
	if err != nil {
		return false, fmt.Errorf("r.dao.CountByTaskAndStudent -> %w", err)
	}

	return count > 0, nil
}

func (r *SubmissionRepository) ListByTask(ctx context.Context, taskID uint) ([]domain.Submission, error) {
	found, err := r.dao.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByTask -> %w", err)
	}

	submissions := make([]domain.Submission, len(found))
	for i, s := range found {
		submissions[i] = submissionDaoToDomain(s)
	}

	return submissions, nil
}

func (r *SubmissionRepository) SaveGrade(ctx context.Context, submission domain.Submission) error {
	if err := r.dao.UpdateGrade(ctx, submissionDomainToDao(submission)); err != nil {
		return fmt.Errorf("r.dao.UpdateGrade -> %w", notFound(err, domain.WithDetail(domain.ErrSubmissionNotFound, "id", submission.ID)))
	}

	return nil
}

func submissionDomainToDao(s domain.Submission) dao.Submission {
	return dao.Submission{
		ID:            s.ID,
		TaskID:        s.TaskID,
		StudentID:     s.StudentID,
		Content:       s.Content,
		FileRef:       s.FileRef,
		DeliveredAt:   s.DeliveredAt,
		Grade:         s.Grade,
		Feedback:      s.Feedback,
		GraderID:      s.GraderID,
		GradedAt:      s.GradedAt,
		CreditedGrade: s.CreditedGrade,
	}
}

func submissionDaoToDomain(s dao.Submission) domain.Submission {
	return domain.Submission{
		ID:            s.ID,
		TaskID:        s.TaskID,
		StudentID:     s.StudentID,
		Content:       s.Content,
		FileRef:       s.FileRef,
		DeliveredAt:   s.DeliveredAt,
		Grade:         s.Grade,
		Feedback:      s.Feedback,
		GraderID:      s.GraderID,
		GradedAt:      s.GradedAt,
		CreditedGrade: s.CreditedGrade,
	}
}
