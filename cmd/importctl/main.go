package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"catalog-service/internal/app"
	"catalog-service/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "importctl",
	Short:         "Run and inspect catalog spreadsheet imports",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// connect builds the app from the environment; callers must Close it
func connect() (*app.App, error) {
	cfg := config.Load()
	return app.New(cfg, app.NewLogger(cfg))
}
