package domain

import "time"

type SubmissionStatus string

const (
	SubmissionDelivered SubmissionStatus = "delivered"
	SubmissionGraded    SubmissionStatus = "graded"
)

type Submission struct {
	ID          uint       `json:"id"`
	TaskID      uint       `json:"task_id"`
	StudentID   uint       `json:"student_id"`
	Content     string     `json:"content"`
	FileRef     *string    `json:"file_ref,omitempty"`
	DeliveredAt time.Time  `json:"delivered_at"`
	Grade       *int       `json:"grade"`
	Feedback    *string    `json:"feedback,omitempty"`
	GraderID    *uint      `json:"grader_id,omitempty"`
	GradedAt    *time.Time `json:"graded_at,omitempty"`

	// CreditedGrade is the grade amount already paid out through the ledger.
	CreditedGrade int `json:"-"`
}

func (s Submission) Status() SubmissionStatus {
	if s.GradedAt != nil {
		return SubmissionGraded
	}

	return SubmissionDelivered
}

// ApplyGrade moves the submission to the graded state. Re-grading overwrites
// the previous grade.
func (s *Submission) ApplyGrade(graderID uint, grade int, feedback string, at time.Time) {
	s.Grade = &grade
	s.GraderID = &graderID
	s.GradedAt = &at
	if feedback != "" {
		s.Feedback = &feedback
	} else {
		s.Feedback = nil
	}
}
