package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/placeholderlabs/placeholder-insights/api"
	"github.com/placeholderlabs/placeholder-insights/db"
	"github.com/placeholderlabs/placeholder-insights/ingest"
	"github.com/placeholderlabs/placeholder-insights/models"
	"github.com/placeholderlabs/placeholder-insights/report"
	"github.com/placeholderlabs/placeholder-insights/stats"
	"github.com/placeholderlabs/placeholder-insights/utils"
)

func main() {
	envPath := flag.String("env", ".env", "Path to .env file")
	logLevel := flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
	mode := flag.String("mode", "analyze", "Mode to run (fetch, analyze, serve)")
	input := flag.String("input", "", "Record stream file to analyze (overrides TAP_OUTPUT_PATH)")
	flag.Parse()

	log := setupLogger(*logLevel)
	log.Info("Starting Placeholder Insights")

	config, err := utils.LoadConfig(*envPath, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	if *input != "" {
		config.Output.TapPath = *input
	}

	log.WithFields(logrus.Fields{
		"mode":        *mode,
		"api_url":     config.API.BaseURL,
		"tap_output":  config.Output.TapPath,
		"server_port": config.Server.Port,
	}).Info("Configuration loaded")

	switch *mode {
	case "fetch":
		if err := runFetch(config, log); err != nil {
			log.WithError(err).Fatal("Fetch failed")
		}
	case "analyze":
		if _, _, err := runAnalyze(config, log); err != nil {
			log.WithError(err).Fatal("Analysis failed")
		}
	case "serve":
		analyzer, rep, err := runAnalyze(config, log)
		if err != nil {
			log.WithError(err).Fatal("Analysis failed")
		}

		runServe(config, analyzer, rep, log)
	default:
		log.WithField("mode", *mode).Fatal("Unknown mode")
	}
}

// setupLogger sets up the logger with the specified log level
func setupLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// runFetch produces the tap output stream from the source API.
func runFetch(config *utils.Config, log *logrus.Logger) error {
	client := api.NewClient(config.API.BaseURL, config.API.MaxRecords, config.API.RequestsPerMinute, log)

	f, err := os.Create(config.Output.TapPath)
	if err != nil {
		return fmt.Errorf("failed to create tap output file: %w", err)
	}
	defer f.Close()

	tap := api.NewTap(client, f, config.API.EvenIDFilter, log)
	if err := tap.Run(); err != nil {
		return err
	}

	log.WithField("path", config.Output.TapPath).Info("Tap output written")
	return nil
}

// runAnalyze decodes the record stream, ingests it, computes the report,
// and renders all outputs.
func runAnalyze(config *utils.Config, log *logrus.Logger) (*stats.Analyzer, *models.Report, error) {
	lines, err := ingest.DecodeFile(config.Output.TapPath, log)
	if err != nil {
		return nil, nil, err
	}

	snap, _ := ingest.Ingest(lines, log)

	if config.Database.Path != "" {
		if err := archiveSnapshot(config.Database.Path, snap, log); err != nil {
			log.WithError(err).Error("Failed to archive snapshot")
		}
	}

	analyzer := stats.NewAnalyzer(snap, log)
	rep := analyzer.GenerateReport()

	fmt.Println(report.RenderText(rep))
	fmt.Println(report.RenderTables(rep))

	written, err := report.ExportCSV(rep, config.Output.ExportDir)
	if err != nil {
		return nil, nil, err
	}

	for _, path := range written {
		log.WithField("file", path).Info("Exported metrics")
	}

	if err := report.WriteCharts(rep, config.Output.ChartsPath); err != nil {
		return nil, nil, err
	}

	log.WithField("file", config.Output.ChartsPath).Info("Wrote dashboard charts")

	return analyzer, rep, nil
}

func archiveSnapshot(path string, snap *models.Snapshot, log *logrus.Logger) error {
	archive, err := db.NewArchive(path, log)
	if err != nil {
		return err
	}
	defer archive.Close()

	if err := archive.Replace(snap); err != nil {
		return err
	}

	counts, err := archive.Counts()
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"users":    counts["users"],
		"posts":    counts["posts"],
		"comments": counts["comments"],
	}).Info("Archive record counts")

	return nil
}

// runServe holds the computed report in memory and serves it until shutdown.
func runServe(config *utils.Config, analyzer *stats.Analyzer, rep *models.Report, log *logrus.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startEchoServer(ctx, config, analyzer, rep, log)

	waitForShutdown(cancel, log)
}

// startEchoServer starts the Echo HTTP API server
func startEchoServer(ctx context.Context, config *utils.Config, analyzer *stats.Analyzer, rep *models.Report, log *logrus.Logger) {
	e := echo.New()

	// middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	requestsPerSecond := float64(config.Server.MaxRequestsPerMinute) / 60.0

	rateLimiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(requestsPerSecond),
				Burst:     1,
				ExpiresIn: 3 * time.Minute,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded, please try again later",
			})
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded, please try again later",
			})
		},
	}
	e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig))

	e.GET("/api/report", func(c echo.Context) error {
		return c.JSON(http.StatusOK, rep)
	})

	e.GET("/api/stats/users", func(c echo.Context) error {
		return c.JSON(http.StatusOK, rep.UserActivity)
	})

	e.GET("/api/stats/comments", func(c echo.Context) error {
		if rep.CommentPatterns == nil {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "comment patterns analysis is unavailable",
			})
		}

		return c.JSON(http.StatusOK, rep.CommentPatterns)
	})

	e.GET("/api/stats/posts", func(c echo.Context) error {
		if rep.PostEngagement == nil {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "post engagement analysis is unavailable",
			})
		}

		return c.JSON(http.StatusOK, rep.PostEngagement)
	})

	e.GET("/api/posts/:id/comments/stats", func(c echo.Context) error {
		postID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("invalid post id %q", c.Param("id")),
			})
		}

		return c.JSON(http.StatusOK, analyzer.PostCommentStats(postID))
	})

	// health check endpoint; useful for k8s liveliness probes
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// start the server!
	go func() {
		serverAddr := fmt.Sprintf(":%d", config.Server.Port)
		log.WithField("port", config.Server.Port).Info("Starting API server")
		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("API server failed")
		}
	}()

	// wait for context cancellation to shut down server
	<-ctx.Done()
	log.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("API server shutdown failed")
	}
}

// waitForShutdown waits for a shutdown signal
func waitForShutdown(cancel context.CancelFunc, log *logrus.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.WithField("signal", sig.String()).Info("Shutdown signal received")

	cancel()

	time.Sleep(1 * time.Second)
	log.Info("Placeholder Insights stopped")
}
