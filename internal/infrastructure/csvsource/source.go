package csvsource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"EasyFinder/internal/domain"
	"EasyFinder/internal/ports"
)

// ErrMissingColumns is returned when an upload lacks a required header.
var ErrMissingColumns = errors.New("csv is missing required columns")

const utf8BOM = "\ufeff"

// FileSource reads leads from a CSV file with a header row.
type FileSource struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

var _ ports.LeadStore = (*FileSource)(nil)

// NewFileSource binds the source to a CSV path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileSource{path: path, logger: logger}
}

// Path returns the backing file location.
func (s *FileSource) Path() string {
	return s.path
}

// Load parses every row. A missing file yields no leads.
func (s *FileSource) Load(ctx context.Context) ([]domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("lead csv not found", "path", s.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	leads, err := Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	s.logger.Debug("leads loaded", "path", s.path, "count", len(leads))
	return leads, nil
}

// Replace validates content and swaps it in atomically.
func (s *FileSource) Replace(_ context.Context, content []byte) error {
	if err := ValidateHeader(bytes.NewReader(content)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create lead directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".leads-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	s.logger.Info("lead csv replaced", "path", s.path, "bytes", len(content))
	return nil
}

// Parse reads a header row followed by records. Unknown columns are ignored;
// short rows leave the missing fields at their defaults.
func Parse(ctx context.Context, r io.Reader) ([]domain.Lead, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = normalizeHeader(header)

	var leads []domain.Lead
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				fields[name] = record[i]
			}
		}
		leads = append(leads, domain.LeadFromFields(fields))
	}

	return leads, nil
}

// ValidateHeader checks that every required column is present.
func ValidateHeader(r io.Reader) error {
	header, err := newReader(r).Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(domain.RequiredColumns, ", "))
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	present := make(map[string]struct{}, len(header))
	for _, name := range normalizeHeader(header) {
		present[name] = struct{}{}
	}

	var missing []string
	for _, name := range domain.RequiredColumns {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		out[i] = strings.TrimSpace(name)
	}
	return out
}
