// devstub serves an in-memory rendition of the indiriim notification
// platform API for local development and demos. All state lives in
// process memory and resets on restart.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/indiriim/go-notify-admin/devstub"
)

const appName = "devstub"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(log zerolog.Logger) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	addr := listenAddr()
	displayAppname()

	stub := devstub.New(devstub.Options{
		JWTSecret: os.Getenv("DEVSTUB_JWT_SECRET"),
		Log:       log,
	})
	server := &http.Server{Addr: addr, Handler: stub.Handler()}

	go listenAndServe(server, log)
	waitForStopSignal()
	return shutdown(server)
}

func listenAddr() string {
	port := os.Getenv("DEVSTUB_PORT")
	if port == "" {
		port = "8092"
	}
	return ":" + port
}

func listenAndServe(server *http.Server, log zerolog.Logger) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname() {
	figure.NewFigure(appName, "cybermedium", true).Print()
	fmt.Println()
}
