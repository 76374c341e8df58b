package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/nbp-currency-converter/internal/application/service"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/api"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/config"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/console"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/db"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/decoder"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/handler"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/middleware"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/parser"
	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "nbp-converter"
	app.Usage = "convert amounts using the current NBP exchange table"
	app.Writer = out
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "env-file",
			Value: config.DefaultEnvFile,
			Usage: "optional file of environment settings",
		},
	}

	app.Action = func(c *cli.Context) error {
		return runMenu(c, in, out)
	}
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "serve the exchange table and conversions over HTTP",
			Action: runServer,
		},
	}

	return app
}

// components is everything both front ends share
type components struct {
	cfg         *config.Config
	log         logger.Logger
	store       *badger.DB
	exchange    *service.ExchangeService
	conversions *service.ConversionService
}

func setup(c *cli.Context, defaultLog io.Writer) (*components, error) {
	cfg, err := config.Load(c.GlobalString("env-file"))
	if err != nil {
		return nil, err
	}

	logOut := defaultLog
	if cfg.LogFile != "" {
		logOut = logger.FileWriter(cfg.LogFile)
	}
	log := logger.NewJSONLogger(logOut, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)

	store, err := db.OpenInMemory()
	if err != nil {
		return nil, err
	}

	client := api.NewNBPClient(&http.Client{Timeout: cfg.Timeout}, log)
	exchange := service.NewExchangeService(client, decoder.NewCharsetDecoder(), parser.NewXMLTableParser(),
		cfg.TableURL, cfg.Encoding, log)
	conversions := service.NewConversionService(exchange, db.NewBadgerConversionRepository(store), log)

	return &components{
		cfg:         cfg,
		log:         log,
		store:       store,
		exchange:    exchange,
		conversions: conversions,
	}, nil
}

func (app *components) close() {
	if err := app.store.Close(); err != nil {
		app.log.Error("Error closing store", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// runMenu keeps logs off the terminal unless LOG_FILE is set
func runMenu(c *cli.Context, in io.Reader, out io.Writer) error {
	app, err := setup(c, io.Discard)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer app.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	menu := console.NewMenu(app.exchange, app.conversions, in, out, app.log)
	if err := menu.Run(ctx); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}

func runServer(c *cli.Context) error {
	app, err := setup(c, os.Stdout)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer app.close()

	app.log.Info("Starting NBP currency converter", map[string]interface{}{
		"addr":      app.cfg.HTTPAddr,
		"table_url": app.cfg.TableURL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := app.exchange.FetchCurrentTable(ctx); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.RecoveryMiddleware(app.log))
	router.Use(middleware.LoggingMiddleware(app.log))
	handler.NewRateHandler(app.exchange, app.log).RegisterRoutes(router)
	handler.NewConversionHandler(app.conversions, app.log).RegisterRoutes(router)

	server := &http.Server{
		Addr:              app.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.log.Info("Server listening", map[string]interface{}{
			"addr": app.cfg.HTTPAddr,
		})
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return cli.NewExitError(err.Error(), 1)
		}
	case <-ctx.Done():
		app.log.Info("Shutting down server", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}

	return nil
}
