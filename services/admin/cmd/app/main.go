package main

import (
	"fmt"
	"os"

	"fanvault-console/pkg/config"
	app "fanvault-console/services/admin/internal/app"

	"github.com/spf13/cobra"

	_ "fanvault-console/services/admin/docs" // Swagger docs
)

// @title           Admin Console API
// @version         1.0
// @description     Administrator console for the FanVault platform

// @host      localhost:8090
// @BasePath  /console

var (
	port   string
	apiURL string
)

var rootCmd = &cobra.Command{
	Use:   "admin-console",
	Short: "Administrator console for artists, moderation and analytics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if port != "" {
			cfg.ServerPort = port
		}
		if apiURL != "" {
			cfg.APIBaseURL = apiURL
		}

		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}

		if err := application.Run(); err != nil {
			return err
		}

		application.Wait()

		return application.Shutdown()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on, overrides SERVER_PORT")
	rootCmd.Flags().StringVar(&apiURL, "api-url", "", "platform API base URL, overrides API_BASE_URL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
