package cli

import (
	"github.com/spf13/cobra"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
	"github.com/dianajengpr/copywritingassistant/internal/server"
)

var (
	servePort   int
	serveAPIKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form and HTTP API",
	Long: `Start the HTTP server with the copywriting form at / and the JSON API
under /api.

Examples:
  copywriter serve
  copywriter serve -p 9000
  copywriter serve --api-key mysecret`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		if serveAPIKey != "" {
			cfg.Server.APIKey = serveAPIKey
		}

		log, err := logger.New(cfg.Environment)
		if err != nil {
			fail(err)
		}
		defer log.Sync()

		creds := config.NewCredentials(cfg, promptPIN(cfg.Language))
		if err := server.Run(cfg, creds, log); err != nil {
			fail(err)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP listen port (default: server.port from config, 8080)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "require this value in the X-API-Key header")
	rootCmd.AddCommand(serveCmd)
}
