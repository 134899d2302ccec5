package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-formclient"
	"github.com/goliatone/go-formclient/internal/config"
	"github.com/goliatone/go-formclient/internal/logging"
	"github.com/goliatone/go-formclient/pkg/client"
	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/render"
	"github.com/goliatone/go-formclient/pkg/renderers/html"
	"github.com/goliatone/go-formclient/pkg/renderers/tui"
	"github.com/goliatone/go-formclient/pkg/session"
	"github.com/goliatone/go-formclient/pkg/webapp"
)

const usage = `usage: formclient <command> [flags]

commands:
  tui      fill in the form in the terminal
  serve    serve the form to browsers
  render   print one screen of a schema file as HTML or JSON
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "tui":
		err = runTUI(ctx, args)
	case "serve":
		err = runServe(ctx, args)
	case "render":
		err = runRender(ctx, args)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("formclient %s: %v", os.Args[1], err)
	}
}

func resolve(name string, args []string) (config.Config, error) {
	fs := pflag.NewFlagSet("formclient "+name, pflag.ExitOnError)
	flags := config.BindFlags(fs)
	_ = fs.Parse(args)
	return flags.Resolve()
}

func newLogger(cfg config.LogConfig, console io.Writer) (*logging.Logger, error) {
	return logging.New(logging.Options{
		Level:   cfg.Level,
		Format:  logging.Format(cfg.Format),
		Console: console,
		File:    cfg.File,
	})
}

func newClient(cfg config.Config, logger *slog.Logger) (*client.Client, error) {
	return client.New(cfg.Client.BaseURL,
		client.WithTimeout(cfg.Client.Timeout),
		client.WithLogger(logger),
	)
}

func runTUI(ctx context.Context, args []string) error {
	cfg, err := resolve("tui", args)
	if err != nil {
		return err
	}
	// Console records would break the prompts; only the log file receives them.
	logger, err := newLogger(cfg.Log, io.Discard)
	if err != nil {
		return err
	}
	defer logger.Close()

	backend, err := newClient(cfg, logger.Logger)
	if err != nil {
		return err
	}
	store, err := session.OpenFileStore(cfg.Session.File)
	if err != nil {
		return err
	}

	runner, err := tui.NewRunner(backend, store, tui.WithLogger(logger.Logger))
	if err != nil {
		return err
	}
	if err := runner.Run(ctx); err != nil && !errors.Is(err, tui.ErrAborted) {
		return err
	}
	return nil
}

func runServe(ctx context.Context, args []string) error {
	cfg, err := resolve("serve", args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, nil)
	if err != nil {
		return err
	}
	defer logger.Close()

	backend, err := newClient(cfg, logger.Logger)
	if err != nil {
		return err
	}
	themeCfg, err := html.SelectTheme(cfg.Web.Theme)
	if err != nil {
		return err
	}
	renderers, err := formclient.NewRenderers(html.WithTheme(themeCfg), html.WithLogger(logger.Logger))
	if err != nil {
		return err
	}
	app, err := webapp.New(backend,
		webapp.WithRenderers(renderers),
		webapp.WithLogger(logger.Logger),
		webapp.WithSecureCookie(cfg.Web.SecureCookie),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("web front end listening",
		slog.String("addr", cfg.Web.Addr),
		slog.String("backend", backend.BaseURL()),
		slog.String("theme", cfg.Web.Theme),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runRender(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("formclient render", pflag.ExitOnError)
	schemaPath := fs.String("schema", "", "form schema file (JSON, JSONC or YAML)")
	page := fs.String("page", string(render.PageForm), "screen: login, loading, error, form or submitted")
	sectionIndex := fs.Int("section", 0, "zero-based section shown on the form screen")
	format := fs.String("format", "html", "output renderer: html or json")
	themeRef := fs.String("theme", html.DefaultThemeName, "theme, optionally with /variant")
	output := fs.StringP("output", "o", "", "output file (stdout if empty)")
	_ = fs.Parse(args)

	if *schemaPath == "" {
		return errors.New("--schema is required")
	}
	schema, err := model.LoadSchemaFile(*schemaPath)
	if err != nil {
		return err
	}
	themeCfg, err := html.SelectTheme(*themeRef)
	if err != nil {
		return err
	}
	renderers, err := formclient.NewRenderers(html.WithTheme(themeCfg))
	if err != nil {
		return err
	}

	out, err := formclient.RenderPreview(ctx, renderers, *format, schema, formclient.Preview{
		Kind:    render.PageKind(*page),
		Section: *sectionIndex,
	})
	if err != nil {
		return err
	}

	if *output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(*output, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("Page written to %s\n", *output)
	return nil
}
