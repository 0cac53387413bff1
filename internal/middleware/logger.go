package middleware

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	appLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// InitLogger initializes the file-based logging system
// Logs are written to stdout and to logs/app-<date>.log with rotation
func InitLogger(logDir, level string) error {
	// Get absolute path for log directory
	absLogDir, err := filepath.Abs(logDir)
	if err != nil {
		absLogDir = logDir
	}

	// Create logs directory if not exists
	if err := os.MkdirAll(absLogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", absLogDir, err)
	}

	currentDate := time.Now().Format("2006-01-02")

	appLogFile := &lumberjack.Logger{
		Filename:   filepath.Join(absLogDir, fmt.Sprintf("app-%s.log", currentDate)),
		MaxSize:    10, // 10 MB
		MaxBackups: 30, // Keep 30 old files
		MaxAge:     30, // 30 days
		Compress:   true,
		LocalTime:  true,
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	appLogger = zerolog.New(io.MultiWriter(os.Stdout, appLogFile)).
		Level(lvl).
		With().Timestamp().Logger()

	appLogger.Info().Str("dir", absLogDir).Msg("Logger initialized")
	appLogger.Info().Msgf("Log file: app-%s.log", currentDate)

	return nil
}

// Logger returns a logger tagged with the given component name
func Logger(component string) zerolog.Logger {
	return appLogger.With().Str("component", component).Logger()
}

// LogInfo logs info level messages
func LogInfo(format string, v ...interface{}) {
	appLogger.Info().Msgf(format, v...)
}

// LogWarn logs warn level messages
func LogWarn(format string, v ...interface{}) {
	appLogger.Warn().Msgf(format, v...)
}

// LogError logs error level messages
func LogError(format string, v ...interface{}) {
	appLogger.Error().Msgf(format, v...)
}

// LogDebug logs debug level messages
func LogDebug(format string, v ...interface{}) {
	appLogger.Debug().Msgf(format, v...)
}

// RequestLoggerMiddleware logs all incoming requests
// Format: METHOD URL | status | latency
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		// Build full URL
		fullURL := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			fullURL = fullURL + "?" + c.Request.URL.RawQuery
		}

		// Process request
		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		event := appLogger.Info()
		if statusCode >= 400 {
			event = appLogger.Error()
			if len(c.Errors) > 0 {
				event = event.Str("errors", c.Errors.String())
			}
		}
		event.
			Str("method", c.Request.Method).
			Str("url", fullURL).
			Int("status", statusCode).
			Dur("latency", latency).
			Msg("request")
	}
}
