package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yojanadost/yojanadost/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat HTTP API",
	Long: `Serve answers chat requests over HTTP:

  POST /api/chat, POST /   {"message": "..."} -> {"response": "..."}
  GET  /                   welcome message
  GET  /health             status and catalog size
  GET  /api/categories     distinct catalog categories

Example:
  yojanadost serve
  yojanadost serve --addr :8080 --catalog https://example.org/schemes.json
  yojanadost serve --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :5000)")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS allowed origins (default *)")
	serveCmd.Flags().Bool("no-rate-limit", false, "disable per-client rate limiting")
	serveCmd.Flags().Bool("probe-llm", false, "check that the fallback provider is reachable before serving")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.allowed_origins", serveCmd.Flags().Lookup("allowed-origins"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	if noLimit, _ := cmd.Flags().GetBool("no-rate-limit"); noLimit {
		a.config.RateLimit.Enabled = false
	}

	if probe, _ := cmd.Flags().GetBool("probe-llm"); probe {
		probeFallback(ctx, a)
	}

	srv := server.New(a.engine, a.config.Server, a.config.RateLimit, a.logger)
	return srv.Run(ctx)
}

// probeFallback logs whether the fallback provider is reachable. An
// unreachable provider stays enabled; each failed query gets the safe message.
func probeFallback(ctx context.Context, a *app) {
	if a.responder == nil {
		return
	}
	if a.responder.Probe(ctx) {
		a.logger.Info().Str("provider", a.responder.ProviderName()).Msg("Fallback provider reachable")
		return
	}
	a.logger.Warn().Str("provider", a.responder.ProviderName()).Msg("Fallback provider unreachable")
}
