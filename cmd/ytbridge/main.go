package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ytbridge/config"
	"ytbridge/httpclient"
	"ytbridge/server"
	"ytbridge/whisper"
	"ytbridge/youtube"
)

func main() {
	root := &cobra.Command{
		Use:   "ytbridge",
		Short: "HTTP bridge for YouTube metadata, downloads, and transcripts",
	}
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")
	return cmd
}

func serve(cfg *config.Config) error {
	outbound := httpclient.New(nil)
	defer outbound.Close()

	var lister youtube.TrackLister
	if cfg.YouTubeAPIKey != "" {
		dataAPI, err := youtube.NewDataAPITrackLister(cfg.YouTubeAPIKey)
		if err != nil {
			log.Printf("main: Data API disabled: %v", err)
		} else {
			lister = dataAPI
		}
	}

	srv := server.New(cfg,
		youtube.NewExtractor(cfg.ExtractorEnabled),
		whisper.New(cfg.OpenAIKey, cfg.WhisperModel),
		youtube.NewCaptionClient(outbound, lister),
		youtube.NewNoembedClient(outbound),
	)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("main: listening on %s", cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-stop:
		log.Printf("main: received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	}
}
