package main

import (
	"fmt"
	"os"

	"fanvault-console/pkg/config"
	app "fanvault-console/services/artist/internal/app"

	"github.com/spf13/cobra"

	_ "fanvault-console/services/artist/docs" // Swagger docs
)

// @title           Artist Console API
// @version         1.0
// @description     Self-service console for FanVault artists

// @host      localhost:8091
// @BasePath  /console

var (
	port       string
	apiURL     string
	previewDir string
)

var rootCmd = &cobra.Command{
	Use:   "artist-console",
	Short: "Artist console for profile, content and uploads.",
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
		if previewDir != "" {
			cfg.PreviewStore = "dir"
			cfg.PreviewDir = previewDir
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
	rootCmd.Flags().StringVar(&previewDir, "preview-dir", "", "keep upload previews in this directory, overrides PREVIEW_STORE")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
