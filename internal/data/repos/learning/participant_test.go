package learning

import (
	"context"
	"testing"

	"github.com/yungbote/materialhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
)

func TestParticipantRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewParticipantRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, tx, "owner@example.com", user.RoleInstructor)
	student := testutil.SeedUser(t, tx, "student@example.com", user.RoleStudent)
	apt := testutil.SeedAppointment(t, tx, owner.ID)

	if ok, err := repo.IsParticipant(dbc, apt.ID, student.ID); err != nil || ok {
		t.Fatalf("IsParticipant before enroll: ok=%v err=%v", ok, err)
	}
	if err := repo.Add(dbc, apt.ID, student.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ok, err := repo.IsParticipant(dbc, apt.ID, student.ID); err != nil || !ok {
		t.Fatalf("IsParticipant after enroll: ok=%v err=%v", ok, err)
	}
	ids, err := repo.ListUserIDs(dbc, apt.ID)
	if err != nil || len(ids) != 1 || ids[0] != student.ID {
		t.Fatalf("ListUserIDs: ids=%v err=%v", ids, err)
	}
}
