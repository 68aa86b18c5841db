package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rafamesquita/BlindStyle-TCC/internal/api"
	"github.com/rafamesquita/BlindStyle-TCC/internal/auth"
	"github.com/rafamesquita/BlindStyle-TCC/internal/config"
)

var configPath string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blindstyle",
		Short: "Wardrobe assistant that describes clothing from photos",
		Long: `BlindStyle is a client for the BlindStyle wardrobe assistant.

Capture or pick a photo of a clothing item, get a description of its
attributes, save it to your history, and ask for outfit suggestions.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file")

	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newCaptureCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newSuggestCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// app bundles the client-side services the subcommands share.
type app struct {
	cfg     config.Config
	store   *auth.Store
	session *auth.Session
	client  *api.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.LogLevel)

	store := auth.NewStore(cfg.TokenFile)
	session := auth.NewSession(store, nil)
	client := api.NewClient(cfg.APIURL, session)
	session.SetClient(client)

	return &app{cfg: cfg, store: store, session: session, client: client}, nil
}

func setupLogging(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
