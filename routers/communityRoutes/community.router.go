package communityRoutes

import (
	"github.com/gofiber/fiber/v2"

	communityController "peerlearn/controllers/community"
	"peerlearn/middleware"
	communityValidators "peerlearn/validators/community"
)

// SetupCommunityRoutes sets up learning community routes
func SetupCommunityRoutes(app *fiber.App) {
	communityGroup := app.Group("/community")

	communityGroup.Post("/", middleware.JWTMiddleware, communityValidators.CreateCommunity(), communityController.CreateCommunity)
	communityGroup.Get("/list", middleware.JWTMiddleware, communityController.GetCommunities)
	communityGroup.Put("/:id", middleware.JWTMiddleware, communityController.UpdateCommunity)

	communityGroup.Post("/:id/join", middleware.JWTMiddleware, communityController.JoinCommunity)
	communityGroup.Get("/:id/members", middleware.JWTMiddleware, communityController.GetMembers)

	communityGroup.Post("/:id/resource", middleware.JWTMiddleware, communityValidators.AddResource(), communityController.AddResource)
	communityGroup.Get("/:id/resources", middleware.JWTMiddleware, communityController.GetResources)

	communityGroup.Post("/:id/session", middleware.JWTMiddleware, communityValidators.CreateSession(), communityController.CreateCommunitySession)
	communityGroup.Get("/:id/sessions", middleware.JWTMiddleware, communityController.GetCommunitySessions)
}
