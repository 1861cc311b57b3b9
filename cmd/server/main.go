package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abrown5421/game-lynq/internal/config"
	"github.com/abrown5421/game-lynq/internal/games"
	"github.com/abrown5421/game-lynq/internal/httpapi"
	"github.com/abrown5421/game-lynq/internal/session"
	"github.com/abrown5421/game-lynq/internal/store"
	"github.com/abrown5421/game-lynq/internal/store/migrations"
	"github.com/abrown5421/game-lynq/internal/tracks/itunes"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()
	cfg := &config.Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GAMELYNQ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "game-lynq",
		Short:         "Shared game-session server for polling party games.",
		Args:          cobra.ExactArgs(0),
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: GAMELYNQ_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: GAMELYNQ_PORT)")
	fs.StringVar(&cfg.BaseURL, "base-url", "http://localhost:8080", "public base URL used in join QR codes (env: GAMELYNQ_BASE_URL)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", "", "postgres URL; empty runs the in-memory store (env: GAMELYNQ_DATABASE_URL)")
	fs.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", []string{"http://localhost:5173"}, "CORS origins (env: GAMELYNQ_ALLOWED_ORIGINS)")
	fs.StringVar(&cfg.ITunesBaseURL, "itunes-url", "", "override the iTunes search base URL (env: GAMELYNQ_ITUNES_URL)")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", time.Second, "suggested client poll interval (env: GAMELYNQ_POLL_INTERVAL)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "debug logging (env: GAMELYNQ_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var st session.Store
	if cfg.DatabaseURL != "" {
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			return err
		}
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()
		st = pg
		log.Info().Msg("using postgres session store")
	} else {
		st = store.NewMemory()
		log.Info().Msg("using in-memory session store")
	}

	registry := games.NewRegistry()
	svc := session.NewService(st, registry)
	api := httpapi.NewServer(svc, registry, itunes.New(cfg.ITunesBaseURL), cfg.BaseURL)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: api.Router(cfg.AllowedOrigins),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
