package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// syncBuffer serializes writes from loggers shared across goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// TestLogger captures JSON log lines in memory so tests can assert on
// messages and fields. It writes through the zerolog backend, so entries
// have the same shape as production output.
type TestLogger struct {
	*ZerologLogger
	out *syncBuffer
}

// NewTestLogger creates a TestLogger capturing entries at level and above.
//
// Example:
//
//	logger, _ := log.NewTestLogger(log.LevelDebug)
//	p, _ := preprocessing.New(specs, preprocessing.WithLogger(logger))
//	_ = p.Fit(table)
//	logger.ContainsField(log.OperationKey, log.OperationFit) // true
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	out := &syncBuffer{buf: buf}
	root := zerolog.New(out).Level(toZerologLevel(level))
	return &TestLogger{ZerologLogger: NewZerologLogger(root), out: out}, buf
}

// Entries parses every captured line.
func (t *TestLogger) Entries() ([]map[string]interface{}, error) {
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(t.out.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ContainsMessage reports whether any captured message contains message.
func (t *TestLogger) ContainsMessage(message string) bool {
	entries, err := t.Entries()
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if msg, ok := entry[zerolog.MessageFieldName].(string); ok && strings.Contains(msg, message) {
			return true
		}
	}
	return false
}

// ContainsField reports whether any entry has key set to value. Numbers
// decode as float64.
func (t *TestLogger) ContainsField(key string, value interface{}) bool {
	entries, err := t.Entries()
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if v, ok := entry[key]; ok && v == value {
			return true
		}
	}
	return false
}

// TestLoggerProvider is a LoggerProvider whose loggers all write into one
// captured buffer.
type TestLoggerProvider struct {
	logger *TestLogger
}

// NewTestLoggerProvider creates a provider capturing entries at level and
// above.
func NewTestLoggerProvider(level Level) (*TestLoggerProvider, *bytes.Buffer) {
	logger, buf := NewTestLogger(level)
	return &TestLoggerProvider{logger: logger}, buf
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *TestLoggerProvider) GetLogger() Logger { return p.logger }

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *TestLoggerProvider) GetLoggerWithName(name string) Logger {
	return p.logger.With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *TestLoggerProvider) SetLevel(level Level) {
	p.logger.logger = p.logger.logger.Level(toZerologLevel(level))
}

// Logger returns the capturing logger behind the provider.
func (p *TestLoggerProvider) Logger() *TestLogger { return p.logger }
