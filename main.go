package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"peerlearn/config"
	"peerlearn/database"
	authRoutes "peerlearn/routers/authRoutes"
	badgeRoutes "peerlearn/routers/badgeRoutes"
	communityRoutes "peerlearn/routers/communityRoutes"
	courseRoutes "peerlearn/routers/courseRoutes"
	mentorRoutes "peerlearn/routers/mentorRoutes"
	projectRoutes "peerlearn/routers/projectRoutes"
	userRoutes "peerlearn/routers/userRoutes"
	"peerlearn/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	utils.InitializeSessionScheduler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	// Course routes first: they register the static /user/enrollments and
	// /user/certificates paths that must win over /user/:id.
	courseRoutes.SetupCourseRoutes(app)
	userRoutes.SetupUserRoutes(app)
	mentorRoutes.SetupMentorRoutes(app)
	communityRoutes.SetupCommunityRoutes(app)
	badgeRoutes.SetupBadgeRoutes(app)
	projectRoutes.SetupProjectRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
