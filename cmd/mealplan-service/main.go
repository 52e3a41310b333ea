package main

import (
	"flag"
	"os"

	"github.com/denerose/VeganMealAppApi-sub001/internal/logger"
	"github.com/denerose/VeganMealAppApi-sub001/mealservice"
)

func main() {
	// Optional build-target flag override (local | cloud-dev | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud-dev, cloud)")
	flag.Parse()

	if *buildTarget != "" {
		if err := os.Setenv("MEALPLAN_BUILD_TARGET", *buildTarget); err != nil {
			log := logger.New("mealplan-service")
			log.Fatal().Err(err).Msg("Failed to apply build-target override")
		}
	}

	if err := mealservice.Run(); err != nil {
		os.Exit(1)
	}
}
