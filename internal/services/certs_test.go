package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	certrepo "github.com/yungbote/materialhub-backend/internal/data/repos/certs"
	"github.com/yungbote/materialhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/materialhub-backend/internal/domain/certs"
	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
)

type certFixture struct {
	h          *harness
	owner      *user.User
	student    *user.User
	slot       *learning.HomeworkSlot
	parent     *MaterialParent
	certs      certrepo.FinalCertRepo
	certLog    certrepo.CertLogRepo
	submission *materials.Material
}

func newCertFixture(t *testing.T) *certFixture {
	t.Helper()
	h := newHarness(t, false)
	f := &certFixture{
		h:       h,
		owner:   testutil.SeedUser(t, h.seed, "owner@test.io", user.RoleInstructor),
		student: testutil.SeedUser(t, h.seed, "student@test.io", user.RoleStudent),
		certs:   certrepo.NewFinalCertRepo(h.db, testutil.Logger(t)),
		certLog: certrepo.NewCertLogRepo(h.db, testutil.Logger(t)),
	}
	apt := testutil.SeedAppointment(t, h.seed, f.owner.ID)
	testutil.SeedParticipant(t, h.seed, apt.ID, f.student.ID)
	f.slot = testutil.SeedHomeworkSlot(t, h.seed, apt)
	f.parent = h.parent(t, "hii", f.slot.UUID)

	m, err := h.materials.Create(h.dbc, map[string]any{
		"type":    "text",
		"title":   "My essay",
		"payload": "It was a dark and stormy night.",
		"final":   true,
	}, f.parent, f.student)
	require.NoError(t, err)
	require.NotNil(t, m.Submission)
	require.NotNil(t, m.Submission.FinalCertID)
	f.submission = m
	return f
}

func (f *certFixture) cert(t *testing.T) *certs.FinalCert {
	t.Helper()
	c, err := f.certs.GetByID(f.h.dbc, *f.submission.Submission.FinalCertID)
	require.NoError(t, err)
	return c
}

func TestFinalSubmissionRequestsCert(t *testing.T) {
	f := newCertFixture(t)
	c := f.cert(t)
	require.NotNil(t, c)
	assert.False(t, c.Approved)
	assert.Equal(t, f.student.ID, c.RecipientID)

	entries, err := f.certLog.ListByCert(f.h.dbc, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, certs.EventCertRequested, entries[0].Event)

	views, err := f.h.materials.List(f.h.dbc, f.parent, f.owner)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, true, views[0]["final"])
	assert.Equal(t, "Test student", views[0]["authorName"])
}

func TestApproveCertOnce(t *testing.T) {
	f := newCertFixture(t)
	c := f.cert(t)

	view, err := f.h.certs.Approve(context.Background(), c.UUID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, true, view["approved"])

	var params map[string]string
	require.NoError(t, json.Unmarshal(view["userData"].(datatypes.JSON), &params))
	assert.Equal(t, "Test student", params["student"])
	assert.Equal(t, "Test instructor", params["instructor"])
	assert.Equal(t, "Week 1 essay", params["homework"])
	assert.Equal(t, "My essay", params["submission"])
	assert.Equal(t, c.UUID, params["certificateId"])
	assert.Equal(t, "2024-03-01", params["approvedAt"])
	assert.Equal(t, 1, f.h.notifier.count())

	_, err = f.h.certs.Approve(context.Background(), c.UUID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 1, f.h.notifier.count())

	entries, err := f.certLog.ListByCert(f.h.dbc, c.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestApproveCertRequiresSlotEditor(t *testing.T) {
	f := newCertFixture(t)
	c := f.cert(t)

	_, err := f.h.certs.Approve(context.Background(), c.UUID, f.student)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))

	_, err = f.h.certs.Approve(context.Background(), "nosuchcert01", f.owner)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))
	assert.Equal(t, 0, f.h.notifier.count())
}

func TestDeletingSubmissionDropsPendingCert(t *testing.T) {
	f := newCertFixture(t)
	c := f.cert(t)

	require.NoError(t, f.h.materials.Delete(f.h.dbc, f.parent, f.submission, f.student, true))

	gone, err := f.certs.GetByID(f.h.dbc, c.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDeletingSubmissionKeepsApprovedCert(t *testing.T) {
	f := newCertFixture(t)
	c := f.cert(t)
	_, err := f.h.certs.Approve(context.Background(), c.UUID, f.owner)
	require.NoError(t, err)

	_, err = f.h.materials.Edit(f.h.dbc, map[string]any{"final": false}, f.parent, f.submission, f.owner, true)
	assert.True(t, apierr.IsKind(err, apierr.KindBadData))

	require.NoError(t, f.h.materials.Delete(f.h.dbc, f.parent, f.submission, f.owner, true))

	kept, err := f.certs.GetByID(f.h.dbc, c.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.True(t, kept.Approved)
	assert.Nil(t, kept.SubmissionID)
}

func TestUnfinalizeDropsPendingCert(t *testing.T) {
	f := newCertFixture(t)
	c := f.cert(t)

	edited, err := f.h.materials.Edit(f.h.dbc, map[string]any{"final": false}, f.parent, f.submission, f.student, true)
	require.NoError(t, err)
	assert.False(t, edited.IsFinal())
	assert.Nil(t, edited.Submission.FinalCertID)

	gone, err := f.certs.GetByID(f.h.dbc, c.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSubmissionOwnership(t *testing.T) {
	f := newCertFixture(t)
	other := testutil.SeedUser(t, f.h.seed, "other@test.io", user.RoleStudent)
	testutil.SeedParticipant(t, f.h.seed, f.slot.AppointmentID, other.ID)

	_, err := f.h.materials.Edit(f.h.dbc, map[string]any{"title": "mine now"}, f.parent, f.submission, other, true)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))
	err = f.h.materials.Delete(f.h.dbc, f.parent, f.submission, other, true)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))

	own, err := f.h.materials.Create(f.h.dbc, map[string]any{"type": "text", "title": "Draft", "payload": "wip"}, f.parent, other)
	require.NoError(t, err)
	assert.False(t, own.IsFinal())

	edited, err := f.h.materials.Edit(f.h.dbc, map[string]any{"title": "Draft 2"}, f.parent, own, other, true)
	require.NoError(t, err)
	assert.Equal(t, "Draft 2", edited.Title)
}
