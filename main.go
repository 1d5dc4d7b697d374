package main

import (
	"fmt"
	"log"
	"os"

	"dearminder-backend/config"
	"dearminder-backend/controllers"
	"dearminder-backend/models"
	"dearminder-backend/routes"
	"dearminder-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.WishLog{},
		&models.Notification{},
	)
}

func main() {
	wishes := services.NewWishServiceFromDB(config.DB)
	services.StartScheduler(wishes)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter(&controllers.DispatchController{Wishes: wishes})
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
