package main

import (
	"log"

	"course_platform_backend/internal/app"
	"course_platform_backend/internal/config"
	"course_platform_backend/pkg/configwatcher"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)

	go configwatcher.WatchConfig("configs/config.yaml", application.ReloadConfig)

	application.Run()
}
