package main

import (
	"flag"

	"clinic-scheduling/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", ".env", "path to the .env configuration file")
	flag.Parse()

	// Initialize application with all dependencies
	app, err := bootstrap.New(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	// Run the application
	if err := app.Run(); err != nil {
		logrus.Fatalf("Application stopped: %v", err)
	}
}
