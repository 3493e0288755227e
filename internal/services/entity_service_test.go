package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/materialhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/registry"
)

func route(t *testing.T, h *harness, parent, child string) *registry.ChildRoute {
	t.Helper()
	r, err := h.reg.Route(parent, child)
	require.NoError(t, err)
	return r
}

func TestEntityAddAttachesChild(t *testing.T) {
	h := newHarness(t, true)
	owner := testutil.SeedUser(t, h.seed, "owner@test.io", user.RoleInstructor)
	apt := testutil.SeedAppointment(t, h.seed, owner.ID)
	quiz := testutil.SeedQuiz(t, h.seed, apt)
	questions := route(t, h, learning.TypeQuiz, learning.TypeQuizQuestion)

	view, err := h.entities.Add(h.dbc, questions, quiz.UUID, map[string]any{"prompt": "Name the bone"}, owner)
	require.NoError(t, err)
	assert.Equal(t, "Name the bone", view["prompt"])
	assert.Equal(t, 1, view["points"])

	qv, err := h.entities.Find(h.dbc, learning.TypeQuiz, quiz.UUID, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{view["uuid"].(string)}, qv["questions"])

	list, err := h.entities.List(h.dbc, questions, quiz.UUID, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, view["uuid"], list[0]["uuid"])

	require.NoError(t, h.entities.Delete(h.dbc, questions, quiz.UUID, view["uuid"].(string), owner))
	qv, err = h.entities.Find(h.dbc, learning.TypeQuiz, quiz.UUID, owner)
	require.NoError(t, err)
	assert.Empty(t, qv["questions"])
}

func TestEntityFactoryMissingFieldLeavesNoTrace(t *testing.T) {
	h := newHarness(t, true)
	owner := testutil.SeedUser(t, h.seed, "owner@test.io", user.RoleInstructor)
	apt := testutil.SeedAppointment(t, h.seed, owner.ID)
	quiz := testutil.SeedQuiz(t, h.seed, apt)
	questions := route(t, h, learning.TypeQuiz, learning.TypeQuizQuestion)

	_, err := h.entities.Add(h.dbc, questions, quiz.UUID, map[string]any{"points": 3}, owner)
	require.Error(t, err)
	assert.Equal(t, apierr.KindBadData, apierr.KindOf(err))
	assert.Contains(t, err.Error(), `"prompt"`)

	list, err := h.entities.List(h.dbc, questions, quiz.UUID, owner)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = h.factory.Build(h.dbc, "nonsense", map[string]any{}, nil, owner)
	assert.True(t, apierr.IsKind(err, apierr.KindUnknownType))
}

func TestEntityFactoryResolvesReferences(t *testing.T) {
	h := newHarness(t, true)
	owner := testutil.SeedUser(t, h.seed, "owner@test.io", user.RoleInstructor)
	sf := testutil.SeedStorefront(t, h.seed, owner.ID, "anatomy")
	other := testutil.SeedStorefront(t, h.seed, owner.ID, "physics")
	course := testutil.SeedCourse(t, h.seed, sf, "Bones 101", true)
	foreign := testutil.SeedCourse(t, h.seed, other, "Optics", true)
	testutil.SeedCourse(t, h.seed, sf, "Draft", false)
	pages := route(t, h, learning.TypeStorefront, learning.TypeStorefrontPage)

	_, err := h.entities.Add(h.dbc, pages, sf.UUID, map[string]any{"title": "Home", "featuredCourseId": "nosuchcours"}, owner)
	assert.True(t, apierr.IsKind(err, apierr.KindBadData))

	_, err = h.entities.Add(h.dbc, pages, sf.UUID, map[string]any{"title": "Home", "featuredCourseId": foreign.UUID}, owner)
	assert.True(t, apierr.IsKind(err, apierr.KindBadData))

	view, err := h.entities.Add(h.dbc, pages, sf.UUID, map[string]any{"title": "Home", "featuredCourseId": course.UUID, "body": "Welcome"}, owner)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", view["body"])
	assert.Equal(t, "https://anatomy.materialhub.test/desktop/#/market", view["url"])

	courses, ok := view["courses"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, courses, 1)
	assert.Equal(t, course.UUID, courses[0]["uuid"])
	assert.Equal(t, "https://anatomy.materialhub.test/desktop/#/market/"+course.UUID, courses[0]["url"])
}

func TestEntityAccessAndScoping(t *testing.T) {
	h := newHarness(t, true)
	owner := testutil.SeedUser(t, h.seed, "owner@test.io", user.RoleInstructor)
	student := testutil.SeedUser(t, h.seed, "student@test.io", user.RoleStudent)
	stranger := testutil.SeedUser(t, h.seed, "stranger@test.io", user.RoleStudent)
	apt := testutil.SeedAppointment(t, h.seed, owner.ID)
	testutil.SeedParticipant(t, h.seed, apt.ID, student.ID)
	quizA := testutil.SeedQuiz(t, h.seed, apt)
	quizB := testutil.SeedQuiz(t, h.seed, apt)
	question := testutil.SeedQuizQuestion(t, h.seed, quizA)
	quizzes := route(t, h, learning.TypeAppointment, learning.TypeQuiz)
	questions := route(t, h, learning.TypeQuiz, learning.TypeQuizQuestion)

	list, err := h.entities.List(h.dbc, quizzes, apt.UUID, owner)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = h.entities.List(h.dbc, quizzes, apt.UUID, student)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))

	_, err = h.entities.List(h.dbc, quizzes, apt.UUID, stranger)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))

	_, err = h.entities.Add(h.dbc, quizzes, apt.UUID, map[string]any{"title": "Pop quiz"}, student)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))

	_, err = h.entities.Get(h.dbc, questions, quizB.UUID, question.UUID, owner)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))

	_, err = h.entities.Get(h.dbc, questions, quizA.UUID, question.UUID, student)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))

	got, err := h.entities.Get(h.dbc, questions, quizA.UUID, question.UUID, owner)
	require.NoError(t, err)
	assert.Equal(t, question.UUID, got["uuid"])
}

func TestEnrolledStudentCannotReadQuizAnswers(t *testing.T) {
	h := newHarness(t, true)
	owner := testutil.SeedUser(t, h.seed, "owner@test.io", user.RoleInstructor)
	student := testutil.SeedUser(t, h.seed, "student@test.io", user.RoleStudent)
	apt := testutil.SeedAppointment(t, h.seed, owner.ID)
	testutil.SeedParticipant(t, h.seed, apt.ID, student.ID)
	question := testutil.SeedQuizQuestion(t, h.seed, testutil.SeedQuiz(t, h.seed, apt))
	answer := testutil.SeedQuizAnswer(t, h.seed, question)
	require.NoError(t, h.seed.Model(answer).Update("correct", true).Error)
	answers := route(t, h, learning.TypeQuizQuestion, learning.TypeQuizAnswer)

	views, err := h.entities.List(h.dbc, answers, question.UUID, student)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))
	assert.Nil(t, views)

	view, err := h.entities.Find(h.dbc, learning.TypeQuizAnswer, answer.UUID, student)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))
	assert.Nil(t, view)

	view, err = h.entities.Find(h.dbc, learning.TypeQuizAnswer, answer.UUID, owner)
	require.NoError(t, err)
	assert.Equal(t, true, view["correct"])
}

func TestEntityEdit(t *testing.T) {
	h := newHarness(t, true)
	owner := testutil.SeedUser(t, h.seed, "owner@test.io", user.RoleInstructor)
	sf := testutil.SeedStorefront(t, h.seed, owner.ID, "anatomy")
	course := testutil.SeedCourse(t, h.seed, sf, "Bones 101", false)
	courses := route(t, h, learning.TypeStorefront, learning.TypeCourse)

	view, err := h.entities.Edit(h.dbc, courses, sf.UUID, course.UUID, map[string]any{"published": true, "title": "Bones 102"}, owner)
	require.NoError(t, err)
	assert.Equal(t, true, view["published"])
	assert.Equal(t, "Bones 102", view["title"])
	assert.Equal(t, "https://anatomy.materialhub.test/desktop/#/market/"+course.UUID, view["url"])

	_, err = h.entities.Edit(h.dbc, courses, sf.UUID, course.UUID, map[string]any{"published": "yes please"}, owner)
	assert.True(t, apierr.IsKind(err, apierr.KindBadData))

	sv, err := h.entities.Find(h.dbc, learning.TypeStorefront, sf.UUID, owner)
	require.NoError(t, err)
	assert.Len(t, sv["courses"], 1)
}
