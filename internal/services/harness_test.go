package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/materialhub-backend/internal/data/aggregates/testutil"
	certrepo "github.com/yungbote/materialhub-backend/internal/data/repos/certs"
	"github.com/yungbote/materialhub-backend/internal/data/repos/entities"
	learningrepo "github.com/yungbote/materialhub-backend/internal/data/repos/learning"
	materialrepo "github.com/yungbote/materialhub-backend/internal/data/repos/materials"
	"github.com/yungbote/materialhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/materialhub-backend/internal/data/repos/users"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/registry"
)

const testDomain = "materialhub.test"

type fakeStorage struct{}

func (fakeStorage) PublicURL(key string) string { return "https://cdn.test/" + key }

func (fakeStorage) PresignUpload(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://upload.test/" + key, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []CertApproved
}

func (n *recordingNotifier) CertApproved(_ context.Context, ev CertApproved) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

// stepClock advances one second per reading.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type harness struct {
	db        *gorm.DB
	seed      *gorm.DB
	dbc       dbctx.Context
	reg       *registry.Registry
	materials MaterialService
	entities  EntityService
	factory   EntityFactory
	files     FileService
	certs     CertService
	perms     PermissionGate
	formatter ResponseFormatter
	notifier  *recordingNotifier
	hooks     *aggtest.HooksRecorder
}

// newHarness wires every service against a fresh database. With rollback the
// test runs inside one transaction; otherwise services talk to the database
// directly, which CertService.Approve needs for its own transaction.
func newHarness(t *testing.T, rollback bool) *harness {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)

	h := &harness{db: gdb, seed: gdb, dbc: dbctx.Context{Ctx: context.Background()}}
	if rollback {
		tx := testutil.Tx(t, gdb)
		h.seed = tx
		h.dbc = dbctx.Context{Ctx: context.Background(), Tx: tx}
	}

	h.reg = registry.Default(log)
	entityRepo := entities.NewEntityRepo(gdb, log)
	userRepo := users.NewUserRepo(gdb, log)
	submissions := materialrepo.NewSubmissionRepo(gdb, log)

	h.perms = NewPermissionGate(log, learningrepo.NewParticipantRepo(gdb, log))
	h.formatter = NewResponseFormatter(log, StorefrontCallbacks(learningrepo.NewStorefrontRepo(gdb, log), testDomain))

	files, err := NewFileService(log, materialrepo.NewAssetRepo(gdb, log), fakeStorage{}, 16)
	if err != nil {
		t.Fatalf("file service: %v", err)
	}
	h.files = files

	h.notifier = &recordingNotifier{}
	h.hooks = &aggtest.HooksRecorder{}
	clock := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	h.certs = NewCertService(log, CertServiceDeps{
		Tx:          aggregates.NewGormTxRunner(gdb),
		Certs:       certrepo.NewFinalCertRepo(gdb, log),
		CertLog:     certrepo.NewCertLogRepo(gdb, log),
		Submissions: submissions,
		Entities:    entityRepo,
		Users:       userRepo,
		Perms:       h.perms,
		Formatter:   h.formatter,
		Notifier:    h.notifier,
		Clock:       clock.Now,
	})
	h.materials = NewMaterialService(log, MaterialServiceDeps{
		Registry: h.reg,
		Entities: entityRepo,
		Users:    userRepo,
		Converters: NewConverters(
			materialrepo.NewMaterialRowRepo(gdb, log),
			materialrepo.NewQuizElementRepo(gdb, log),
			submissions,
		),
		Perms: h.perms,
		Files: h.files,
		Certs: h.certs,
		Hooks: h.hooks,
		Clock: clock.Now,
	})
	h.factory = NewEntityFactory(log, h.reg, entityRepo)
	h.entities = NewEntityService(log, h.reg, entityRepo, h.factory, h.perms, h.formatter, h.hooks)
	return h
}

func (h *harness) parent(t *testing.T, section, id string) *MaterialParent {
	t.Helper()
	p, err := h.materials.ResolveParent(h.dbc, section, id)
	if err != nil {
		t.Fatalf("resolve %s %s: %v", section, id, err)
	}
	return p
}
