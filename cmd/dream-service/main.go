package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/karake-shoya/dream-analysis-app-sub000/dreamservice"
)

func main() {
	// Local development convenience; production uses real environment variables.
	_ = godotenv.Load()

	if err := dreamservice.Run(); err != nil {
		os.Exit(1)
	}
}
