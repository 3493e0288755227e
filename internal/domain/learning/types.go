package learning

// Registered type names. They double as route sections and wire keys.
const (
	TypeAppointment    = "appointment"
	TypeQuiz           = "quiz"
	TypeQuizQuestion   = "quizQuestion"
	TypeQuizAnswer     = "quizAnswer"
	TypeHomeworkSlot   = "aptMaterialHii"
	TypeStorefront     = "storefront"
	TypeCourse         = "course"
	TypeStorefrontPage = "storefrontPage"
)
