package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/philipparndt/gocraft/internal/api"
	"github.com/philipparndt/gocraft/internal/session"
	"github.com/philipparndt/gocraft/version"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP action server",
	Long: `Serve papercraft projects over HTTP. Clients create a project from a model,
send edit actions and receive the full project snapshot after each one.`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides the configuration)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionMgr := session.NewManager(cfg.Sessions.MaxProjects)
	go sessionMgr.RunCleanup(ctx, cfg.Sessions.CleanupInterval(), cfg.Sessions.IdleTimeout())

	e := echo.New()
	e.HideBanner = true
	api.SetupMiddleware(e, cfg.Server)
	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		SessionMgr: sessionMgr,
		Config:     cfg,
		Version:    version.GetVersion(),
	}))

	go func() {
		fmt.Printf("gocraft %s listening on %s\n", version.GetVersion(), cfg.Server.Addr)
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error starting server: %v\n", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	fmt.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
	}
}
