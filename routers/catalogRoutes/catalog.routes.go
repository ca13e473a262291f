package catalogRoutes

import (
	catalogControllers "lms/controllers/catalog"
	quizControllers "lms/controllers/quiz"
	"lms/middleware"
	quizValidators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupCatalogRoutes sets up course browsing and quiz routes. Listing
// and course detail work for anonymous visitors; stage content and
// quizzes require a logged-in user.
func SetupCatalogRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")

	courseGroup.Get("/", middleware.OptionalJWT, catalogControllers.GetCatalog)
	courseGroup.Get("/:slug", middleware.OptionalJWT, catalogControllers.GetCourseDetail)
	courseGroup.Get("/:courseSlug/stages/:stageSlug", middleware.JWTMiddleware, catalogControllers.GetStageDetail)

	courseGroup.Get("/:courseSlug/stages/:stageSlug/quiz", middleware.JWTMiddleware, quizControllers.GetQuiz)
	courseGroup.Post("/:courseSlug/stages/:stageSlug/quiz", middleware.JWTMiddleware, quizValidators.SubmitQuiz(), quizControllers.SubmitQuiz)
}
