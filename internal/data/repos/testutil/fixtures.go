package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, tx *gorm.DB, email string, role user.Role) *user.User {
	tb.Helper()
	u := &user.User{Email: email, FirstName: "Test", LastName: string(role), Role: role}
	if err := tx.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAppointment(tb testing.TB, tx *gorm.DB, ownerID uuid.UUID) *learning.Appointment {
	tb.Helper()
	a := &learning.Appointment{OwnerID: ownerID, Title: "Intro session"}
	if err := tx.Create(a).Error; err != nil {
		tb.Fatalf("seed appointment: %v", err)
	}
	return a
}

func SeedParticipant(tb testing.TB, tx *gorm.DB, appointmentID, userID uuid.UUID) {
	tb.Helper()
	p := &learning.AppointmentParticipant{AppointmentID: appointmentID, UserID: userID}
	if err := tx.Create(p).Error; err != nil {
		tb.Fatalf("seed participant: %v", err)
	}
}

func SeedQuiz(tb testing.TB, tx *gorm.DB, apt *learning.Appointment) *learning.Quiz {
	tb.Helper()
	q := &learning.Quiz{AppointmentID: apt.ID, OwnerID: apt.OwnerID, AuthorID: apt.OwnerID, Title: "Quiz"}
	if err := tx.Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedQuizQuestion(tb testing.TB, tx *gorm.DB, quiz *learning.Quiz) *learning.QuizQuestion {
	tb.Helper()
	q := &learning.QuizQuestion{
		QuizID:        quiz.ID,
		AppointmentID: quiz.AppointmentID,
		OwnerID:       quiz.OwnerID,
		AuthorID:      quiz.OwnerID,
		Prompt:        "What is shown?",
		Points:        1,
	}
	if err := tx.Create(q).Error; err != nil {
		tb.Fatalf("seed quiz question: %v", err)
	}
	return q
}

func SeedQuizAnswer(tb testing.TB, tx *gorm.DB, q *learning.QuizQuestion) *learning.QuizAnswer {
	tb.Helper()
	a := &learning.QuizAnswer{
		QuestionID:    q.ID,
		AppointmentID: q.AppointmentID,
		OwnerID:       q.OwnerID,
		AuthorID:      q.OwnerID,
		Text:          "A cat",
	}
	if err := tx.Create(a).Error; err != nil {
		tb.Fatalf("seed quiz answer: %v", err)
	}
	return a
}

func SeedHomeworkSlot(tb testing.TB, tx *gorm.DB, apt *learning.Appointment) *learning.HomeworkSlot {
	tb.Helper()
	h := &learning.HomeworkSlot{
		AppointmentID: apt.ID,
		OwnerID:       apt.OwnerID,
		AuthorID:      apt.OwnerID,
		Title:         "Week 1 essay",
		AwardsCert:    true,
	}
	if err := tx.Create(h).Error; err != nil {
		tb.Fatalf("seed homework slot: %v", err)
	}
	return h
}

func SeedStorefront(tb testing.TB, tx *gorm.DB, ownerID uuid.UUID, prefix string) *learning.Storefront {
	tb.Helper()
	s := &learning.Storefront{OwnerID: ownerID, Prefix: prefix, Title: "Shop " + prefix}
	if err := tx.Create(s).Error; err != nil {
		tb.Fatalf("seed storefront: %v", err)
	}
	return s
}

func SeedCourse(tb testing.TB, tx *gorm.DB, sf *learning.Storefront, title string, published bool) *learning.Course {
	tb.Helper()
	c := &learning.Course{StorefrontID: sf.ID, OwnerID: sf.OwnerID, AuthorID: sf.OwnerID, Title: title, Published: published}
	if err := tx.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedAsset(tb testing.TB, tx *gorm.DB, ownerID uuid.UUID, contentType string) *materials.Asset {
	tb.Helper()
	a := &materials.Asset{OwnerID: ownerID, ContentType: contentType, SizeBytes: 1024}
	a.EnsureIdentity()
	a.StorageKey = fmt.Sprintf("user_files/%s/%s", ownerID, a.UUID)
	a.FileName = a.UUID + ".bin"
	if err := tx.Create(a).Error; err != nil {
		tb.Fatalf("seed asset: %v", err)
	}
	return a
}
