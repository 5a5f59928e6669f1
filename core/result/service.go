package result

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/grading"
)

var NowFunc = time.Now // mockable

type Service struct {
	store  Store
	logger core.Logger
}

func NewService(store Store, logger core.Logger) *Service {
	vala.BeginValidation().Validate(
		core.IsNotNil(store, "store"),
		core.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{store: store, logger: logger}
}

// RecordResult writes the result of nr's (student, subject, semester), creating the enrollment on first write.
// Calling it again for the same triple overwrites the result in place: there is never more than
// one enrollment and one result per triple.
func (svc *Service) RecordResult(ctx context.Context, nr NewResult) (Outcome, error) {
	if err := nr.Validate(); err != nil {
		return Outcome{}, err
	}
	grade, pct, err := grading.EvaluateMarks(nr.ObtainedMarks, nr.TotalMarks)
	if err != nil {
		return Outcome{}, err
	}

	key := nr.Key()
	var out Outcome
	err = svc.store.WithinTx(ctx, func(tx Tx) error {
		if err := tx.CheckReferences(ctx, key); err != nil {
			return err
		}

		enr, err := svc.findOrCreateEnrollment(ctx, tx, key)
		if err != nil {
			return err
		}

		now := NowFunc().UTC()
		res := Result{
			EnrollmentID:  enr.ID,
			ExamType:      nr.ExamType,
			TotalMarks:    nr.TotalMarks,
			ObtainedMarks: nr.ObtainedMarks,
			GPA:           grade.GPA,
			GradeLetter:   grade.Letter,
			Remarks:       nr.Remarks,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		created := false
		prev, err := tx.FindResult(ctx, enr.ID)
		switch {
		case err == nil:
			res.ID = prev.ID
			res.CreatedAt = prev.CreatedAt
		case errors.Is(err, ErrResultNotFound):
			res.ID = uuid.New().String()
			created = true
		default:
			return errors.Wrap(err, "finding result")
		}

		saved, err := tx.SaveResult(ctx, res)
		if err != nil {
			return errors.Wrap(err, "saving result")
		}
		out = Outcome{
			ResultID:     saved.ID,
			EnrollmentID: enr.ID,
			Created:      created,
			Percentage:   pct,
			Grade:        grade,
		}
		return nil
	})
	if err != nil {
		return Outcome{}, svc.classify("recording result", err)
	}

	msg := "result updated"
	if out.Created {
		msg = "result created"
	}
	svc.logger.Info(msg, map[string]interface{}{
		"result_id":     out.ResultID,
		"enrollment_id": out.EnrollmentID,
		"grade_letter":  out.Letter,
	})
	return out, nil
}

// findOrCreateEnrollment retries the lookup exactly once when the create loses a race for the key.
func (svc *Service) findOrCreateEnrollment(ctx context.Context, tx Tx, key Key) (Enrollment, error) {
	enr, err := tx.FindEnrollment(ctx, key)
	if err == nil {
		return enr, nil
	}
	if !errors.Is(err, ErrEnrollmentNotFound) {
		return Enrollment{}, errors.Wrap(err, "finding enrollment")
	}

	enr, err = tx.CreateEnrollment(ctx, Enrollment{
		ID:         uuid.New().String(),
		StudentID:  key.StudentID,
		SubjectID:  key.SubjectID,
		SemesterID: key.SemesterID,
		CreatedAt:  NowFunc().UTC(),
	})
	if err == nil {
		return enr, nil
	}
	if !errors.Is(err, ErrEnrollmentExists) {
		return Enrollment{}, errors.Wrap(err, "creating enrollment")
	}

	svc.logger.Warn("enrollment created concurrently; fetching it", map[string]interface{}{
		"student_id":  key.StudentID,
		"subject_id":  key.SubjectID,
		"semester_id": key.SemesterID,
	})
	enr, err = tx.FindEnrollment(ctx, key)
	if err == nil {
		return enr, nil
	}
	if errors.Is(err, ErrEnrollmentNotFound) {
		return Enrollment{}, core.NewConflictError(errors.Wrap(ErrEnrollmentExists, "enrollment still missing after conflict"))
	}
	return Enrollment{}, errors.Wrap(err, "re-fetching enrollment")
}

// GetResult returns the enrollment and result recorded for key.
func (svc *Service) GetResult(ctx context.Context, key Key) (Enrollment, Result, error) {
	enr, res, err := svc.store.GetResult(ctx, key)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) || errors.Is(err, ErrResultNotFound) {
			return Enrollment{}, Result{}, core.NewNotFoundError("result", "")
		}
		return Enrollment{}, Result{}, svc.classify("getting result", err)
	}
	return enr, res, nil
}

// DeleteResult removes a result. Its enrollment is kept.
func (svc *Service) DeleteResult(ctx context.Context, id string) error {
	id = core.CleanString(id)
	if err := svc.store.DeleteResult(ctx, id); err != nil {
		if errors.Is(err, ErrResultNotFound) {
			return core.NewNotFoundError("result", id)
		}
		return svc.classify("deleting result", err)
	}
	svc.logger.Info("result deleted", map[string]interface{}{"result_id": id})
	return nil
}

// classify keeps typed errors as they are; anything else is a storage failure.
func (svc *Service) classify(op string, err error) error {
	if core.IsTyped(err) {
		return err
	}
	svc.logger.Error(op+" failed", err)
	return core.NewPersistenceError(op, err)
}
