package registry

import (
	"github.com/yungbote/materialhub-backend/internal/data/repos/entities"
	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// Default returns the registry of every type this service serves.
func Default(log *logger.Logger) *Registry {
	r := New(log)

	r.Register(&TypeInfo{
		Name:    learning.TypeAppointment,
		Plural:  "appointments",
		DataKey: "appointment",
		Model:   entities.ModelOf[learning.Appointment](),
		Material: &MaterialBinding{
			Class:      ClassDirect,
			ParentKind: materials.ParentAppointment,
			DataKey:    "material",
			ListKey:    "materials",
		},
	})
	r.Register(&TypeInfo{
		Name:    learning.TypeQuiz,
		Plural:  "quizzes",
		DataKey: "quiz",
		Model:   entities.ModelOf[learning.Quiz](),
		Builder: quizBuilder(),
	})
	r.Register(&TypeInfo{
		Name:    learning.TypeQuizQuestion,
		Plural:  "quizQuestions",
		DataKey: "quizQuestion",
		Model:   entities.ModelOf[learning.QuizQuestion](),
		Builder: quizQuestionBuilder(),
		Material: &MaterialBinding{
			Class:      ClassQuizElement,
			ParentKind: materials.ParentQuizQuestion,
			DataKey:    "material",
			ListKey:    "materials",
		},
	})
	r.Register(&TypeInfo{
		Name:    learning.TypeQuizAnswer,
		Plural:  "quizAnswers",
		DataKey: "quizAnswer",
		Model:   entities.ModelOf[learning.QuizAnswer](),
		Builder: quizAnswerBuilder(),
		Material: &MaterialBinding{
			Class:      ClassQuizElement,
			ParentKind: materials.ParentQuizAnswer,
			DataKey:    "material",
			ListKey:    "materials",
		},
	})
	r.Register(&TypeInfo{
		Name:    learning.TypeHomeworkSlot,
		Plural:  "aptMaterialHiis",
		DataKey: "aptMaterialHii",
		Model:   entities.ModelOf[learning.HomeworkSlot](),
		Builder: homeworkSlotBuilder(),
		Material: &MaterialBinding{
			Class:         ClassSubmission,
			ParentKind:    materials.ParentHomeworkSlot,
			DataKey:       "submission",
			ListKey:       "submissions",
			Contributions: true,
		},
	})
	r.Register(&TypeInfo{
		Name:    learning.TypeStorefront,
		Plural:  "storefronts",
		DataKey: "storefront",
		Model:   entities.ModelOf[learning.Storefront](),
	})
	r.Register(&TypeInfo{
		Name:    learning.TypeCourse,
		Plural:  "courses",
		DataKey: "course",
		Model:   entities.ModelOf[learning.Course](),
		Builder: courseBuilder(),
	})
	r.Register(&TypeInfo{
		Name:    learning.TypeStorefrontPage,
		Plural:  "storefrontPages",
		DataKey: "storefrontPage",
		Model:   entities.ModelOf[learning.StorefrontPage](),
		Builder: storefrontPageBuilder(),
	})

	r.Alias("apt", learning.TypeAppointment)
	r.Alias("hii", learning.TypeHomeworkSlot)

	r.AddRoute(ChildRoute{Parent: learning.TypeAppointment, Child: learning.TypeQuiz, ParentField: "appointment", ParentColumn: "appointment_id"})
	r.AddRoute(ChildRoute{Parent: learning.TypeAppointment, Child: learning.TypeHomeworkSlot, ParentField: "appointment", ParentColumn: "appointment_id"})
	r.AddRoute(ChildRoute{Parent: learning.TypeQuiz, Child: learning.TypeQuizQuestion, ParentField: "quiz", ParentColumn: "quiz_id"})
	r.AddRoute(ChildRoute{Parent: learning.TypeQuizQuestion, Child: learning.TypeQuizAnswer, ParentField: "quizQuestion", ParentColumn: "question_id"})
	r.AddRoute(ChildRoute{Parent: learning.TypeStorefront, Child: learning.TypeCourse, ParentField: "storefront", ParentColumn: "storefront_id"})
	r.AddRoute(ChildRoute{
		Parent:       learning.TypeStorefront,
		Child:        learning.TypeStorefrontPage,
		ParentField:  "storefront",
		ParentColumn: "storefront_id",
		Refs:         []ReferenceSpec{{Field: "featuredCourseId", Type: learning.TypeCourse, Rename: "featuredCourse"}},
	})
	return r
}

func required(name string) Param { return Param{Name: name, Required: true} }

func optional(name string, def any) Param { return Param{Name: name, Default: def} }

// mustParent returns the required parent reference of a builder.
func mustParent[T entity.Entity](args Args, name string) (T, error) {
	if v, ok := args[name]; !ok || v == nil {
		var zero T
		return zero, apierr.New(apierr.KindInternal, "registry.build", "missing parent "+name, nil)
	}
	return Entity[T](args, name)
}

func quizBuilder() *Builder {
	return &Builder{
		Params: []Param{required("appointment"), required("title"), optional("description", "")},
		New: func(args Args) (entity.Entity, error) {
			apt, err := mustParent[*learning.Appointment](args, "appointment")
			if err != nil {
				return nil, err
			}
			title, err := args.String("title")
			if err != nil {
				return nil, err
			}
			desc, err := args.String("description")
			if err != nil {
				return nil, err
			}
			return &learning.Quiz{AppointmentID: apt.ID, OwnerID: apt.OwnerID, Title: title, Description: desc}, nil
		},
	}
}

func quizQuestionBuilder() *Builder {
	return &Builder{
		Params: []Param{required("quiz"), required("prompt"), optional("points", 1)},
		New: func(args Args) (entity.Entity, error) {
			quiz, err := mustParent[*learning.Quiz](args, "quiz")
			if err != nil {
				return nil, err
			}
			prompt, err := args.String("prompt")
			if err != nil {
				return nil, err
			}
			points, err := args.Int("points")
			if err != nil {
				return nil, err
			}
			return &learning.QuizQuestion{
				QuizID:        quiz.ID,
				AppointmentID: quiz.AppointmentID,
				OwnerID:       quiz.OwnerID,
				Prompt:        prompt,
				Points:        points,
			}, nil
		},
	}
}

func quizAnswerBuilder() *Builder {
	return &Builder{
		Params: []Param{required("quizQuestion"), required("text"), optional("correct", false)},
		New: func(args Args) (entity.Entity, error) {
			q, err := mustParent[*learning.QuizQuestion](args, "quizQuestion")
			if err != nil {
				return nil, err
			}
			text, err := args.String("text")
			if err != nil {
				return nil, err
			}
			correct, err := args.Bool("correct")
			if err != nil {
				return nil, err
			}
			return &learning.QuizAnswer{
				QuestionID:    q.ID,
				AppointmentID: q.AppointmentID,
				OwnerID:       q.OwnerID,
				Text:          text,
				Correct:       correct,
			}, nil
		},
	}
}

func homeworkSlotBuilder() *Builder {
	return &Builder{
		Params: []Param{
			required("appointment"),
			required("title"),
			optional("instructions", ""),
			optional("dueAt", nil),
			optional("awardsCert", true),
		},
		New: func(args Args) (entity.Entity, error) {
			apt, err := mustParent[*learning.Appointment](args, "appointment")
			if err != nil {
				return nil, err
			}
			title, err := args.String("title")
			if err != nil {
				return nil, err
			}
			instructions, err := args.String("instructions")
			if err != nil {
				return nil, err
			}
			due, err := args.Time("dueAt")
			if err != nil {
				return nil, err
			}
			awards, err := args.Bool("awardsCert")
			if err != nil {
				return nil, err
			}
			return &learning.HomeworkSlot{
				AppointmentID: apt.ID,
				OwnerID:       apt.OwnerID,
				Title:         title,
				Instructions:  instructions,
				DueAt:         due,
				AwardsCert:    awards,
			}, nil
		},
	}
}

func courseBuilder() *Builder {
	return &Builder{
		Params: []Param{required("storefront"), required("title"), optional("summary", ""), optional("published", false)},
		New: func(args Args) (entity.Entity, error) {
			sf, err := mustParent[*learning.Storefront](args, "storefront")
			if err != nil {
				return nil, err
			}
			title, err := args.String("title")
			if err != nil {
				return nil, err
			}
			summary, err := args.String("summary")
			if err != nil {
				return nil, err
			}
			published, err := args.Bool("published")
			if err != nil {
				return nil, err
			}
			return &learning.Course{StorefrontID: sf.ID, OwnerID: sf.OwnerID, Title: title, Summary: summary, Published: published}, nil
		},
	}
}

func storefrontPageBuilder() *Builder {
	return &Builder{
		Params: []Param{required("storefront"), required("title"), optional("body", ""), optional("featuredCourse", nil)},
		New: func(args Args) (entity.Entity, error) {
			sf, err := mustParent[*learning.Storefront](args, "storefront")
			if err != nil {
				return nil, err
			}
			title, err := args.String("title")
			if err != nil {
				return nil, err
			}
			body, err := args.String("body")
			if err != nil {
				return nil, err
			}
			featured, err := Entity[*learning.Course](args, "featuredCourse")
			if err != nil {
				return nil, err
			}
			page := &learning.StorefrontPage{StorefrontID: sf.ID, OwnerID: sf.OwnerID, Title: title, Body: body}
			if featured != nil {
				if featured.StorefrontID != sf.ID {
					return nil, apierr.BadData("registry.build", "featured course belongs to another storefront")
				}
				id := featured.ID
				page.FeaturedCourseID = &id
			}
			return page, nil
		},
	}
}
