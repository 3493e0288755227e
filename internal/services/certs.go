package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
	certrepo "github.com/yungbote/materialhub-backend/internal/data/repos/certs"
	"github.com/yungbote/materialhub-backend/internal/data/repos/entities"
	materialrepo "github.com/yungbote/materialhub-backend/internal/data/repos/materials"
	"github.com/yungbote/materialhub-backend/internal/data/repos/users"
	"github.com/yungbote/materialhub-backend/internal/domain/certs"
	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// CertService issues and approves final certificates for homework submissions.
type CertService interface {
	// EnsurePending links a pending cert to a final submission when the slot awards one.
	EnsurePending(dbc dbctx.Context, slot *learning.HomeworkSlot, m *materials.Material, actor *user.User) (*certs.FinalCert, error)
	// Unfinalize drops the pending cert of a submission that is no longer final.
	Unfinalize(dbc dbctx.Context, m *materials.Material, actor *user.User) error
	// SubmissionRemoved deletes a pending cert and detaches an approved one.
	SubmissionRemoved(dbc dbctx.Context, m *materials.Material, actor *user.User) error
	// Approve approves the cert once, commits, then notifies the recipient.
	Approve(ctx context.Context, certID string, u *user.User) (map[string]any, error)
}

type certService struct {
	log         *logger.Logger
	tx          aggregates.TxRunner
	hooks       aggregates.Hooks
	certs       certrepo.FinalCertRepo
	certLog     certrepo.CertLogRepo
	submissions materialrepo.SubmissionRepo
	entities    entities.EntityRepo
	users       users.UserRepo
	perms       PermissionGate
	formatter   ResponseFormatter
	notifier    CertNotifier
	now         func() time.Time
}

type CertServiceDeps struct {
	Tx          aggregates.TxRunner
	Hooks       aggregates.Hooks
	Certs       certrepo.FinalCertRepo
	CertLog     certrepo.CertLogRepo
	Submissions materialrepo.SubmissionRepo
	Entities    entities.EntityRepo
	Users       users.UserRepo
	Perms       PermissionGate
	Formatter   ResponseFormatter
	Notifier    CertNotifier
	Clock       func() time.Time
}

var (
	slotModel        = entities.ModelOf[learning.HomeworkSlot]()
	appointmentModel = entities.ModelOf[learning.Appointment]()
)

func NewCertService(baseLog *logger.Logger, deps CertServiceDeps) CertService {
	hooks := deps.Hooks
	if hooks == nil {
		hooks = aggregates.NoopHooks()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &certService{
		log:         baseLog.With("service", "CertService"),
		tx:          deps.Tx,
		hooks:       hooks,
		certs:       deps.Certs,
		certLog:     deps.CertLog,
		submissions: deps.Submissions,
		entities:    deps.Entities,
		users:       deps.Users,
		perms:       deps.Perms,
		formatter:   deps.Formatter,
		notifier:    deps.Notifier,
		now:         clock,
	}
}

func (s *certService) logEvent(dbc dbctx.Context, certID uuid.UUID, ev certs.LogEvent, actor *user.User, payload map[string]any) error {
	entry := &certs.LogEntry{CertID: certID, Event: ev, ActorID: userID(actor), CreatedAt: s.now().UTC()}
	if len(payload) > 0 {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		entry.Payload = datatypes.JSON(raw)
	}
	return s.certLog.Create(dbc, entry)
}

func (s *certService) certOf(dbc dbctx.Context, m *materials.Material) (*certs.FinalCert, error) {
	if m.Submission != nil && m.Submission.FinalCertID != nil {
		c, err := s.certs.GetByID(dbc, *m.Submission.FinalCertID)
		if err != nil || c != nil {
			return c, err
		}
	}
	return s.certs.GetBySubmissionID(dbc, m.RowID)
}

func (s *certService) EnsurePending(dbc dbctx.Context, slot *learning.HomeworkSlot, m *materials.Material, actor *user.User) (*certs.FinalCert, error) {
	if !m.IsFinal() || slot == nil || !slot.AwardsCert {
		return nil, nil
	}
	existing, err := s.certOf(dbc, m)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		m.Submission.FinalCertID = &existing.ID
		return existing, nil
	}
	subID := m.RowID
	c := &certs.FinalCert{SubmissionID: &subID, RecipientID: m.AuthorID}
	if err := s.certs.Create(dbc, c); err != nil {
		return nil, err
	}
	if err := s.logEvent(dbc, c.ID, certs.EventCertRequested, actor, map[string]any{"submission": m.UUID}); err != nil {
		return nil, err
	}
	m.Submission.FinalCertID = &c.ID
	s.log.Info("Final cert requested", "cert", c.UUID, "submission", m.UUID, "recipient_id", m.AuthorID)
	return c, nil
}

func (s *certService) Unfinalize(dbc dbctx.Context, m *materials.Material, actor *user.User) error {
	const op = "certs.unfinalize"
	c, err := s.certOf(dbc, m)
	if err != nil || c == nil {
		return err
	}
	if c.Approved {
		return apierr.BadData(op, "submission already has an approved certificate")
	}
	if err := s.certs.SoftDelete(dbc, c.ID); err != nil {
		return err
	}
	if m.Submission != nil {
		m.Submission.FinalCertID = nil
	}
	return nil
}

func (s *certService) SubmissionRemoved(dbc dbctx.Context, m *materials.Material, actor *user.User) error {
	c, err := s.certOf(dbc, m)
	if err != nil || c == nil {
		return err
	}
	if !c.Approved {
		return s.certs.SoftDelete(dbc, c.ID)
	}
	c.SubmissionID = nil
	if err := s.certs.Save(dbc, c); err != nil {
		return err
	}
	s.log.Info("Approved cert kept without submission", "cert", c.UUID, "submission", m.UUID)
	return s.logEvent(dbc, c.ID, certs.EventCertOrphaned, actor, map[string]any{"submission": m.UUID})
}

func (s *certService) Approve(ctx context.Context, certID string, u *user.User) (view map[string]any, err error) {
	const op = "certs.approve"
	start := time.Now()
	defer func() { aggregates.Observe(s.hooks, op, start, err) }()

	var approved *CertApproved
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		c, err := s.certs.GetByUUID(dbc, certID)
		if err != nil {
			return err
		}
		if c == nil || c.SubmissionID == nil {
			return notFound(op, "certificate")
		}
		sub, err := s.submissions.GetByID(dbc, *c.SubmissionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return notFound(op, "certificate")
		}
		found, err := s.entities.FindByPK(dbc, slotModel, sub.SlotID)
		if err != nil {
			return err
		}
		slot, _ := found.(*learning.HomeworkSlot)
		if slot == nil {
			return notFound(op, "certificate")
		}
		if err := s.perms.RequireEdit(slot, u, "certificate"); err != nil {
			return err
		}

		if !c.Approved {
			params, err := s.templateParams(dbc, c, sub, slot, u)
			if err != nil {
				return err
			}
			at := s.now().UTC()
			params["approvedAt"] = at.Format("2006-01-02")
			raw, err := json.Marshal(params)
			if err != nil {
				return apierr.Internal(op, err)
			}
			c.Approve(at, u.ID)
			c.UserData = datatypes.JSON(raw)
			if err := s.certs.Save(dbc, c); err != nil {
				return err
			}
			if err := s.logEvent(dbc, c.ID, certs.EventCertApproved, u, map[string]any{"instructor": u.UUID}); err != nil {
				return err
			}
			approved = &CertApproved{
				CertID:       c.UUID,
				SubmissionID: sub.UUID,
				RecipientID:  c.RecipientID,
				InstructorID: u.ID,
				ApprovedAt:   at,
				Params:       params,
			}
		}

		v, err := s.formatter.Project(dbc, c, nil)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if approved != nil && s.notifier != nil {
		if nerr := s.notifier.CertApproved(ctx, *approved); nerr != nil {
			s.log.Error("Cert approval notification failed", "error", nerr, "cert", approved.CertID)
		}
	}
	return view, nil
}

func (s *certService) templateParams(dbc dbctx.Context, c *certs.FinalCert, sub *materials.SubmissionRow, slot *learning.HomeworkSlot, instructor *user.User) (map[string]string, error) {
	student, err := s.users.GetByID(dbc, c.RecipientID)
	if err != nil {
		return nil, err
	}
	aptTitle := ""
	found, err := s.entities.FindByPK(dbc, appointmentModel, slot.AppointmentID)
	if err != nil {
		return nil, err
	}
	if apt, ok := found.(*learning.Appointment); ok && apt != nil {
		aptTitle = apt.Title
	}
	return map[string]string{
		"student":       student.DisplayName(),
		"instructor":    instructor.DisplayName(),
		"homework":      slot.Title,
		"appointment":   aptTitle,
		"submission":    sub.Title,
		"certificateId": c.UUID,
	}, nil
}
