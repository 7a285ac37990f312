// Package logging provides session-scoped structured logging.
//
// The console always gets human-readable output. In debug mode an
// additional JSON core writes one structured record per event to a
// timestamped file under ~/.browserpilot/logs/, so a full session can be
// replayed offline. Logging is observability only; the agent does not
// depend on it for correctness.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Session couples a logger with the identifiers needed to locate its file.
type Session struct {
	Logger *zap.Logger
	ID     string
	Path   string // empty unless debug mode opened a log file
}

// New builds the session logger. With debug=false only the console core is
// active at INFO level. With debug=true the console drops to DEBUG and a
// JSON file core is added; if the log file cannot be created the session
// continues with console logging and the error is reported on it.
func New(debug bool) (*Session, error) {
	sessionID := uuid.New().String()

	consoleLevel := zapcore.InfoLevel
	if debug {
		consoleLevel = zapcore.DebugLevel
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleCfg),
		zapcore.Lock(os.Stderr),
		consoleLevel,
	)

	cores := []zapcore.Core{consoleCore}
	logPath := ""

	if debug {
		path, fileCore, err := newFileCore(sessionID)
		if err != nil {
			logger := zap.New(consoleCore).With(zap.String("session_id", sessionID))
			logger.Warn("file logging unavailable, continuing with console only", zap.Error(err))
			return &Session{Logger: logger, ID: sessionID}, nil
		}
		logPath = path
		cores = append(cores, fileCore)
	}

	logger := zap.New(zapcore.NewTee(cores...)).With(zap.String("session_id", sessionID))
	return &Session{Logger: logger, ID: sessionID, Path: logPath}, nil
}

// newFileCore opens the timestamped JSON log file for this session.
func newFileCore(sessionID string) (string, zapcore.Core, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	logDir := filepath.Join(homeDir, ".browserpilot", "logs")
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return "", nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02_15-04-05"), sessionID[:8])
	path := filepath.Join(logDir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open log file: %w", err)
	}

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), zapcore.DebugLevel)
	return path, core, nil
}

// Close flushes buffered records. Sync errors on stderr are expected on
// some platforms and ignored.
func (s *Session) Close() {
	_ = s.Logger.Sync()
}
