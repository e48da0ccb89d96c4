package main

import (
	"log"
	"net/http"

	"schooltrip_tracker/internal/config"
	"schooltrip_tracker/internal/logger"
	"schooltrip_tracker/internal/middleware"
	"schooltrip_tracker/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚍 School transit tracker running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
