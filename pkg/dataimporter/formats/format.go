package formats

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/model"
)

var ErrMissingInput = errors.New("missing input")

type Format interface {
	ParseFile(io.Reader) error
	LoadStats() model.LoadStats
}

// ParsePath opens path and parses it with format. A path that is empty or does not
// exist returns ErrMissingInput.
func ParsePath(format Format, path string) error {
	if path == "" {
		return fmt.Errorf("no path configured: %w", ErrMissingInput)
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrMissingInput)
	} else if err != nil {
		return err
	}
	defer file.Close()

	if err := format.ParseFile(file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	stats := format.LoadStats()
	log.Info().
		Str("file", path).
		Int("rows", stats.Rows).
		Int("kept", stats.Kept).
		Int("malformed", stats.Malformed).
		Int("filtered", stats.Filtered).
		Msg("Loaded file")

	return nil
}
