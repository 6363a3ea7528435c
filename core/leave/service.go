package leave

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/trezcool/makazi/core"
)

var (
	ErrNotFound       = errors.New("leave request not found")
	errAlreadyDecided = errors.New("leave request has already been decided")
)

type (
	Repository interface {
		CreateLeave(ctx context.Context, lv Leave) (Leave, error)
		GetLeaveByID(ctx context.Context, id string) (Leave, error)
		FilterLeaves(ctx context.Context, filter Filter) ([]Leave, error)
		UpdateLeaveStatus(ctx context.Context, id string, status Status, updatedAt time.Time) (Leave, error)
	}

	// StudentDirectory resolves a student's mailing address; implemented by
	// the user module at wiring time.
	StudentDirectory interface {
		GetStudentAddress(ctx context.Context, studentID string) (mail.Address, error)
	}

	Service struct {
		repo     Repository
		students StudentDirectory
		mailSvc  core.EmailService
	}
)

func NewService(repo Repository, students StudentDirectory, mailSvc core.EmailService) *Service {
	return &Service{
		repo:     repo,
		students: students,
		mailSvc:  mailSvc,
	}
}

func (svc *Service) Create(ctx context.Context, studentID string, nl NewLeave) (Leave, error) {
	now := time.Now().UTC()
	lv := Leave{
		StudentID: studentID,
		Reason:    nl.Reason,
		FromDate:  nl.FromDate,
		ToDate:    nl.ToDate,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateLeave(ctx, lv)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Leave, error) {
	return svc.repo.GetLeaveByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter Filter) ([]Leave, error) {
	return svc.repo.FilterLeaves(ctx, filter)
}

// Decide approves or rejects a pending leave request and emails the student.
func (svc *Service) Decide(ctx context.Context, id string, approve bool) (Leave, error) {
	lv, err := svc.repo.GetLeaveByID(ctx, id)
	if err != nil {
		return Leave{}, err
	}
	if lv.Status != StatusPending {
		return Leave{}, core.NewValidationError(errAlreadyDecided)
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
	}
	lv, err = svc.repo.UpdateLeaveStatus(ctx, id, status, time.Now().UTC())
	if err != nil {
		return Leave{}, err
	}
	svc.sendDecisionMail(ctx, lv)
	return lv, nil
}

func (svc *Service) sendDecisionMail(ctx context.Context, lv Leave) {
	addr, err := svc.students.GetStudentAddress(ctx, lv.StudentID)
	if err != nil {
		return // no address, no mail; the in-app notification still fires
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{addr},
		Subject: fmt.Sprintf("Leave request %s", lv.Status),
		TextContent: fmt.Sprintf(
			"Hi %s,\n\nYour leave request (%s — %s) has been %s.\n",
			addr.Name, lv.FromDate.Format("Jan 2"), lv.ToDate.Format("Jan 2, 2006"), lv.Status,
		),
	})
}
