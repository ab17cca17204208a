package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/config"
	"github.com/restaurante-kishimoto/kishimoto-web/controllers"
	"github.com/restaurante-kishimoto/kishimoto-web/routes"
	"github.com/restaurante-kishimoto/kishimoto-web/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "kishimoto-web",
		Short:        "Restaurante Kishimoto ordering site",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Migrate the database and start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database tables",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, _, err := openDatabase()
				return err
			},
		},
		&cobra.Command{
			Use:   "purge-sessions",
			Short: "Delete expired login sessions",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, db, err := openDatabase()
				if err != nil {
					return err
				}
				removed, err := services.NewSessionService(db, cfg.SessionTTL).PurgeExpired(cmd.Context())
				if err != nil {
					return err
				}
				log.Printf("Removed %d expired sessions", removed)
				return nil
			},
		},
	)

	return root
}

// openDatabase loads the configuration, connects and migrates
func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := config.Migrate(db); err != nil {
		return nil, nil, err
	}
	log.Println("Database migration completed successfully")

	return cfg, db, nil
}

// buildRouter wires services and controllers into a ready router
func buildRouter(ctx context.Context, cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	mailer, err := services.NewMailer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	images, err := services.NewImageService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessions := services.NewSessionService(db, cfg.SessionTTL)
	resets := services.NewResetTokenService(cfg.ResetTokenSecret, cfg.ResetTokenTTL)
	ctl := controllers.New(db, cfg, sessions, resets, mailer, images)

	return routes.NewRouter(routes.Deps{
		Config:     cfg,
		Controller: ctl,
		Sessions:   sessions,
	})
}

func runServe(ctx context.Context) error {
	log.Println("Starting Restaurante Kishimoto server...")

	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := buildRouter(ctx, cfg, db)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server is running on http://localhost:%s", cfg.Port)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Println("Server stopped")
	return nil
}
