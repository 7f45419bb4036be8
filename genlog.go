package edugo

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GenLogger records one generation run (prompt and raw model reply) to a
// file named after the cache key, so failed or odd generations can be
// replayed after the fact.
type GenLogger struct {
	file *os.File
	mu   sync.Mutex
	key  string
}

// NewGenLogger creates the log file for a generation run.
func NewGenLogger(dir, key string, textLen, n int) (*GenLogger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", key))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &GenLogger{file: file, key: key}

	logger.Logf("=== Question Generation Log ===\n")
	logger.Logf("Cache Key: %s\n", key)
	logger.Logf("Source Text Length: %d characters\n", textLen)
	logger.Logf("Requested Questions: %d\n", n)
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("===============================\n\n")

	return logger, nil
}

// Logf writes a formatted log entry with timestamp
func (gl *GenLogger) Logf(format string, args ...interface{}) {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	message := fmt.Sprintf(format, args...)

	fmt.Fprintf(gl.file, "[%s] %s", timestamp, message)
	gl.file.Sync()
}

// LogRequest logs the prompt sent to the model
func (gl *GenLogger) LogRequest(prompt string) {
	gl.Logf("=== REQUEST ===\n")
	gl.Logf("Prompt:\n%s\n", prompt)
	gl.Logf("===============\n\n")
}

// LogResponse logs the raw model reply
func (gl *GenLogger) LogResponse(response string) {
	gl.Logf("=== RESPONSE ===\n")
	gl.Logf("Response:\n%s\n", response)
	gl.Logf("================\n\n")
}

// Close closes the log file
func (gl *GenLogger) Close() error {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	if gl.file != nil {
		return gl.file.Close()
	}
	return nil
}
