package service

import (
	"context"
	"fmt"
	"time"

	"github.com/edugamify/classroom-api/internal/blob"
	"github.com/edugamify/classroom-api/internal/domain"
)

type Creditor interface {
	Credit(ctx context.Context, personID uint, amount int) (domain.CreditResult, error)
}

type SubmissionTaskRepository interface {
	FindTaskByID(ctx context.Context, id uint) (domain.Task, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission domain.Submission) (domain.Submission, error)
	FindByID(ctx context.Context, id uint) (domain.Submission, error)
	Exists(ctx context.Context, taskID, studentID uint) (bool, error)
	ListByTask(ctx context.Context, taskID uint) ([]domain.Submission, error)
	SaveGrade(ctx context.Context, submission domain.Submission) error
}

type SubmissionOptions struct {
	DeliveryBonus int
	// ReconcileRegrades pays only the increase over the best grade already
	// credited for a submission instead of the full grade on every call.
	ReconcileRegrades bool
}

type DeliveryResult struct {
	Submission domain.Submission   `json:"submission"`
	Credit     domain.CreditResult `json:"credit"`
}

type GradeResult struct {
	Submission domain.Submission    `json:"submission"`
	Credit     *domain.CreditResult `json:"credit,omitempty"`
}

type SubmissionService struct {
	tx          Transactor
	tasks       SubmissionTaskRepository
	submissions SubmissionRepository
	ledger      Creditor
	blobs       blob.Store
	opts        SubmissionOptions
	now         func() time.Time
}

func NewSubmissionService(
	tx Transactor,
	tasks SubmissionTaskRepository,
	submissions SubmissionRepository,
	ledger Creditor,
	blobs blob.Store,
	opts SubmissionOptions,
) *SubmissionService {
	return &SubmissionService{
		tx:          tx,
		tasks:       tasks,
		submissions: submissions,
		ledger:      ledger,
		blobs:       blobs,
		opts:        opts,
		now:         time.Now,
	}
}

func (s *SubmissionService) Deliver(ctx context.Context, taskID, studentID uint, content string, file *Upload) (DeliveryResult, error) {
	if _, err := s.tasks.FindTaskByID(ctx, taskID); err != nil {
		return DeliveryResult{}, fmt.Errorf("s.tasks.FindTaskByID -> %w", err)
	}

	exists, err := s.submissions.Exists(ctx, taskID, studentID)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("s.submissions.Exists -> %w", err)
	}
	if exists {
		return DeliveryResult{}, domain.WithDetail(domain.ErrDuplicateSubmission, "task_id", taskID)
	}

	fileRef, err := storeUpload(ctx, s.blobs, blob.CategorySubmission, file)
	if err != nil {
		return DeliveryResult{}, err
	}

	var result DeliveryResult
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		created, err := s.submissions.Create(ctx, domain.Submission{
			TaskID:      taskID,
			StudentID:   studentID,
			Content:     content,
			FileRef:     fileRef,
			DeliveredAt: s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("s.submissions.Create -> %w", err)
		}

		credit, err := s.ledger.Credit(ctx, studentID, s.opts.DeliveryBonus)
		if err != nil {
			return fmt.Errorf("s.ledger.Credit -> %w", err)
		}

		result = DeliveryResult{Submission: created, Credit: credit}
		return nil
	})
	if err != nil {
		discardUpload(ctx, s.blobs, fileRef)
		return DeliveryResult{}, err
	}

	return result, nil
}

func (s *SubmissionService) Grade(ctx context.Context, submissionID, graderID uint, grade int, feedback string) (GradeResult, error) {
	if grade < 0 {
		return GradeResult{}, domain.WithDetail(domain.ErrNegativeGrade, "grade", grade)
	}

	var result GradeResult
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		submission, err := s.submissions.FindByID(ctx, submissionID)
		if err != nil {
			return fmt.Errorf("s.submissions.FindByID -> %w", err)
		}

		amount := s.creditFor(submission, grade)
		if grade > submission.CreditedGrade || !s.opts.ReconcileRegrades {
			submission.CreditedGrade = grade
		}
		submission.ApplyGrade(graderID, grade, feedback, s.now().UTC())

		if err := s.submissions.SaveGrade(ctx, submission); err != nil {
			return fmt.Errorf("s.submissions.SaveGrade -> %w", err)
		}
		result.Submission = submission

		if amount > 0 {
			credit, err := s.ledger.Credit(ctx, submission.StudentID, amount)
			if err != nil {
				return fmt.Errorf("s.ledger.Credit -> %w", err)
			}
			result.Credit = &credit
		}

		return nil
	})
	if err != nil {
		return GradeResult{}, err
	}

	return result, nil
}

// creditFor returns the points a grading call pays out. Without
// reconciliation every positive grade is paid in full, re-grades included.
func (s *SubmissionService) creditFor(submission domain.Submission, grade int) int {
	if !s.opts.ReconcileRegrades {
		return grade
	}
	if delta := grade - submission.CreditedGrade; delta > 0 {
		return delta
	}

	return 0
}

func (s *SubmissionService) ListByTask(ctx context.Context, taskID uint) ([]domain.Submission, error) {
	if _, err := s.tasks.FindTaskByID(ctx, taskID); err != nil {
		return nil, fmt.Errorf("s.tasks.FindTaskByID -> %w", err)
	}

	submissions, err := s.submissions.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("s.submissions.ListByTask -> %w", err)
	}

	return submissions, nil
}
