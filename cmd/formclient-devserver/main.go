package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-formclient/internal/config"
	"github.com/goliatone/go-formclient/internal/devserver"
	"github.com/goliatone/go-formclient/internal/logging"
	"github.com/goliatone/go-formclient/pkg/model"
)

func main() {
	fs := pflag.NewFlagSet("formclient-devserver", pflag.ExitOnError)
	flags := config.BindDevServerFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := flags.Resolve()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: logging.Format(cfg.Log.Format),
		File:   cfg.Log.File,
	})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logger.Close()

	schema, err := model.LoadSchemaFile(cfg.SchemaPath)
	if err != nil {
		log.Fatalf("schema: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := devserver.OpenDB(openCtx, devserver.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer db.Close()

	srv, err := devserver.New(devserver.NewUserStore(db), schema,
		devserver.WithCORSOrigins(cfg.CORSOrigins...),
		devserver.WithLogger(logger.Logger),
	)
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("dev server listening",
		slog.String("addr", cfg.Addr),
		slog.String("driver", cfg.DBDriver),
		slog.String("form_id", schema.FormID),
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("listen: %v", err)
	}
}
