package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TomasB/geoloc/internal/config"
	"github.com/TomasB/geoloc/internal/data"
	commandhandler "github.com/TomasB/geoloc/internal/handler/command"
	grpchandler "github.com/TomasB/geoloc/internal/handler/grpc"
	"github.com/TomasB/geoloc/internal/handler/health"
	"github.com/TomasB/geoloc/internal/session"
	"github.com/TomasB/geoloc/internal/transcript"
	"github.com/TomasB/geoloc/internal/watch"
	"github.com/fulldump/goconfig"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
)

func main() {
	c := config.Default()
	goconfig.Read(&c)

	// Initialize structured logging; stdout carries the transcript
	logLevel := c.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(c, os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		os.Exit(1)
	}
}

// run opens the dataset and serves one session until EXIT, end of input or a
// shutdown signal. Errors are logged before they are returned.
func run(c config.Config, args []string, in io.Reader, out io.Writer, logger *slog.Logger) error {
	if err := c.ResolveDataset(args); err != nil {
		slog.Error("invalid arguments", "error", err)
		fmt.Fprintln(os.Stderr, "usage: geoloc [flags] <dataset>")
		return err
	}
	if err := c.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return err
	}

	backend, err := data.New(data.Kind(c.Backend), c.Dataset, c.Options())
	if err != nil {
		slog.Error("failed to open dataset", "backend", c.Backend, "dataset", c.Dataset, "error", err)
		return err
	}

	s := session.New(backend, logger)
	defer s.Close()

	slog.Info("session ready", "backend", c.Backend, "dataset", c.Dataset, "session_id", s.ID())

	if !c.Server() {
		if err := transcript.Run(context.Background(), in, out, s); err != nil {
			slog.Error("command loop failed", "error", err)
			return err
		}
		return nil
	}

	if err := serve(c, session.NewSerialized(s), logger); err != nil {
		slog.Error("server failed", "error", err)
		return err
	}
	return nil
}

// serve exposes one serialized session over HTTP and/or gRPC until a signal
// arrives or a client sends EXIT.
func serve(c config.Config, s *session.Serialized, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 2)

	var srv *http.Server
	if c.HttpAddr != "" {
		if c.SlogLevel() == slog.LevelDebug {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}

		router := gin.New()
		router.Use(ginLogger(logger))
		router.Use(gin.Recovery())

		healthHandler := health.NewHandler(s.Loaded)
		router.GET("/health", healthHandler.Health)
		router.GET("/ready", healthHandler.Ready)

		commandHandler := commandhandler.NewHandler(s)
		api := router.Group("/api/v1")
		{
			api.POST("/command", commandHandler.Command)
		}

		srv = &http.Server{
			Addr:    c.HttpAddr,
			Handler: router,
		}
		go func() {
			slog.Info("http server started", "addr", c.HttpAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	var gsrv *grpc.Server
	if c.GrpcAddr != "" {
		lis, err := net.Listen("tcp", c.GrpcAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", c.GrpcAddr, err)
		}
		gsrv = grpc.NewServer()
		grpchandler.RegisterCommandServer(gsrv, grpchandler.NewHandler(s))
		go func() {
			slog.Info("grpc server started", "addr", c.GrpcAddr)
			if err := gsrv.Serve(lis); err != nil {
				errc <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	if c.Watch && data.Kind(c.Backend) != data.KindQuery {
		go func() {
			err := watch.File(ctx, c.Dataset, watch.DefaultSettle, func() {
				reloaded, err := s.Reload(ctx)
				switch {
				case err != nil:
					slog.Error("dataset reload failed", "dataset", c.Dataset, "error", err)
				case reloaded:
					slog.Info("dataset reloaded", "dataset", c.Dataset)
				}
			})
			if err != nil {
				slog.Error("dataset watcher stopped", "error", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("service shutting down")
	case <-s.Done():
		slog.Info("exit requested, service shutting down")
	case runErr = <-errc:
	}

	// Graceful shutdown with 30s timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}
	if gsrv != nil {
		gsrv.GracefulStop()
	}

	slog.Info("service stopped")
	return runErr
}

// ginLogger creates a Gin middleware that logs using slog
func ginLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		// Log request
		duration := time.Since(start)
		statusCode := c.Writer.Status()

		attrs := []any{
			"method", method,
			"path", path,
			"status", statusCode,
			"duration_ms", duration.Milliseconds(),
		}

		if len(c.Errors) > 0 {
			logger.Error("request completed with errors", append(attrs, "errors", c.Errors.String())...)
		} else if statusCode >= 500 {
			logger.Error("request completed", attrs...)
		} else if statusCode >= 400 {
			logger.Warn("request completed", attrs...)
		} else {
			logger.Debug("request completed", attrs...)
		}
	}
}
