package sink

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/openmkt/campaign-export/pkg/export"
	"github.com/openmkt/campaign-export/pkg/logging"
)

// FileErrorLog appends one timestamped line per pipeline error to a file and
// mirrors it to the structured log for operator visibility. Safe for use
// from a single run; the mutex guards against future concurrent callers.
type FileErrorLog struct {
	mu     sync.Mutex
	file   *os.File
	logger zerolog.Logger
}

// NewFileErrorLog opens (or creates) the error log for appending.
func NewFileErrorLog(path string) (*FileErrorLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open error log: %w", err)
	}

	return &FileErrorLog{
		file:   f,
		logger: logging.NewLogger("error-sink"),
	}, nil
}

// LogError implements export.ErrorSink. Write failures of the log itself are
// reported on the structured log and otherwise ignored; they must not take
// the pipeline down.
func (s *FileErrorLog) LogError(message string) {
	line := fmt.Sprintf("[%s] %s\n", time.Now().UTC().Format(time.RFC3339), message)

	s.mu.Lock()
	_, err := s.file.WriteString(line)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to append to error log")
	}

	s.logger.Error().Msg(message)
}

// Close releases the underlying file.
func (s *FileErrorLog) Close() error {
	return s.file.Close()
}

var _ export.ErrorSink = (*FileErrorLog)(nil)
