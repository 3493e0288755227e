package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/materialhub-backend/internal/data/repos/entities"
	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

func TestLookupResolvesNamesAndAliases(t *testing.T) {
	r := Default(logger.Nop())

	info, err := r.Lookup("apt")
	require.NoError(t, err)
	assert.Equal(t, learning.TypeAppointment, info.Name)

	info, err = r.Lookup("hii")
	require.NoError(t, err)
	assert.Equal(t, learning.TypeHomeworkSlot, info.Name)
	require.NotNil(t, info.Material)
	assert.Equal(t, ClassSubmission, info.Material.Class)
	assert.True(t, info.Material.Contributions)

	_, err = r.Lookup("spaceship")
	assert.True(t, apierr.IsKind(err, apierr.KindUnknownType))
}

func TestMaterialParentRejectsTypesWithoutMaterials(t *testing.T) {
	r := Default(logger.Nop())

	info, err := r.MaterialParent(learning.TypeQuizAnswer)
	require.NoError(t, err)
	assert.Equal(t, ClassQuizElement, info.Material.Class)
	assert.Equal(t, materials.ParentQuizAnswer, info.Material.ParentKind)

	_, err = r.MaterialParent(learning.TypeQuiz)
	assert.True(t, apierr.IsKind(err, apierr.KindUnknownType))
}

func TestRegisterTwicePanics(t *testing.T) {
	r := New(logger.Nop())
	info := &TypeInfo{Name: "thing", Model: entities.ModelOf[learning.Quiz]()}
	r.Register(info)
	assert.Equal(t, "things", info.Plural)
	assert.Equal(t, "thing", info.DataKey)
	assert.Panics(t, func() {
		r.Register(&TypeInfo{Name: "thing", Model: entities.ModelOf[learning.Quiz]()})
	})
	assert.Panics(t, func() { r.Alias("x", "nope") })
	assert.Panics(t, func() { r.AddRoute(ChildRoute{Parent: "thing", Child: "nope"}) })
}

func TestRoutes(t *testing.T) {
	r := Default(logger.Nop())

	route, err := r.Route(learning.TypeStorefront, learning.TypeStorefrontPage)
	require.NoError(t, err)
	require.Len(t, route.Refs, 1)
	assert.Equal(t, "featuredCourse", route.Refs[0].Target())
	assert.Equal(t, "storefront_id", route.ParentColumn)

	_, err = r.Route(learning.TypeQuiz, learning.TypeCourse)
	assert.True(t, apierr.IsKind(err, apierr.KindUnknownType))
	assert.Len(t, r.Routes(), 6)
}

func TestBuildersDeclareRequiredParams(t *testing.T) {
	r := Default(logger.Nop())
	info, err := r.Lookup(learning.TypeQuizQuestion)
	require.NoError(t, err)
	require.NotNil(t, info.Builder)

	params := info.Builder.Params
	require.Len(t, params, 3)
	assert.Equal(t, Param{Name: "quiz", Required: true}, params[0])
	assert.Equal(t, Param{Name: "prompt", Required: true}, params[1])
	assert.Equal(t, Param{Name: "points", Default: 1}, params[2])
}

func TestHomeworkBuilderCopiesParentScope(t *testing.T) {
	r := Default(logger.Nop())
	info, err := r.Lookup(learning.TypeHomeworkSlot)
	require.NoError(t, err)

	apt := &learning.Appointment{}
	apt.EnsureIdentity()
	apt.OwnerID = apt.ID

	e, err := info.Builder.New(Args{
		"appointment": apt,
		"title":       "Essay",
		"dueAt":       "2026-01-02T15:04:05Z",
		"awardsCert":  true,
	})
	require.NoError(t, err)
	slot := e.(*learning.HomeworkSlot)
	assert.Equal(t, apt.ID, slot.AppointmentID)
	assert.Equal(t, apt.OwnerID, slot.OwnerID)
	require.NotNil(t, slot.DueAt)
	assert.True(t, slot.DueAt.Equal(time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.True(t, slot.AwardsCert)

	_, err = info.Builder.New(Args{"appointment": apt, "title": 7})
	assert.True(t, apierr.IsKind(err, apierr.KindBadData))
}

func TestStorefrontPageRejectsForeignFeaturedCourse(t *testing.T) {
	r := Default(logger.Nop())
	info, err := r.Lookup(learning.TypeStorefrontPage)
	require.NoError(t, err)

	sf := &learning.Storefront{}
	sf.EnsureIdentity()
	other := &learning.Course{}
	other.EnsureIdentity()

	_, err = info.Builder.New(Args{"storefront": sf, "title": "Home", "featuredCourse": other})
	assert.True(t, apierr.IsKind(err, apierr.KindBadData))

	own := &learning.Course{StorefrontID: sf.ID}
	own.EnsureIdentity()
	e, err := info.Builder.New(Args{"storefront": sf, "title": "Home", "featuredCourse": own})
	require.NoError(t, err)
	page := e.(*learning.StorefrontPage)
	require.NotNil(t, page.FeaturedCourseID)
	assert.Equal(t, own.ID, *page.FeaturedCourseID)
}

func TestArgsInt(t *testing.T) {
	n, err := Args{"points": float64(3)}.Int("points")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = Args{"points": 2.5}.Int("points")
	assert.True(t, apierr.IsKind(err, apierr.KindBadData))
}

func TestSections(t *testing.T) {
	r := Default(logger.Nop())

	assert.Equal(t, "apt", r.Section(learning.TypeAppointment))
	assert.Equal(t, "hii", r.Section(learning.TypeHomeworkSlot))
	assert.Equal(t, learning.TypeQuiz, r.Section(learning.TypeQuiz))
	assert.Equal(t, []string{"apt", "hii", "quizAnswer", "quizQuestion"}, r.MaterialSections())
}
