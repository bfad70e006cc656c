package fs

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/aretw0/fittrack/pkg/core"
)

// Resource is one structured file: a path and the codec that reads it.
type Resource struct {
	Path   string
	Codec  Codec
	Logger *slog.Logger
}

// NewResource picks the codec from the extension of path.
func NewResource(path string, logger *slog.Logger) (Resource, error) {
	c, err := CodecFor(path)
	if err != nil {
		return Resource{}, err
	}
	return Resource{Path: path, Codec: c, Logger: logger}, nil
}

// read decodes the file into v. It returns an error wrapping core.ErrNotFound
// when the file does not exist and core.ErrMalformed when it cannot be decoded.
func (r Resource) read(v any) error {
	data, err := os.ReadFile(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", r.Path, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.Path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%s is empty: %w", r.Path, core.ErrMalformed)
	}
	if err := r.Codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w: %w", r.Path, core.ErrMalformed, err)
	}
	return nil
}

// Save fully overwrites the file with the encoding of v.
func (r Resource) Save(v any) error {
	data, err := r.Codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.Path, err)
	}
	return writeFileAtomic(r.Path, data, 0644)
}

// Load returns the decoded content of res, or def when the file is missing
// or cannot be decoded. Malformed files are logged at WARN.
func Load[T any](res Resource, def T) T {
	var v T
	if err := res.read(&v); err != nil {
		logMasked(res.Logger, res.Path, err)
		return def
	}
	return v
}

func logMasked(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	if errors.Is(err, core.ErrNotFound) {
		logger.Debug("resource missing, using default", "path", path)
		return
	}
	logger.Warn("unreadable resource, using default", "path", path, "error", err)
}

// Table is a CSV file with a fixed header row.
type Table struct {
	Path   string
	Header []string
	Logger *slog.Logger
}

// read returns the data rows. A missing file wraps core.ErrNotFound; a file
// whose header differs or whose rows have the wrong width wraps core.ErrMalformed.
func (t Table) read() ([][]string, error) {
	f, err := os.Open(t.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", t.Path, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", t.Path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(bufio.NewReader(f)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", t.Path, core.ErrMalformed, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if !slices.Equal(records[0], t.Header) {
		return nil, fmt.Errorf("%s: %w: header %v, want %v", t.Path, core.ErrMalformed, records[0], t.Header)
	}
	return records[1:], nil
}

// Rows returns the data rows, or none when the file is missing or malformed.
func (t Table) Rows() [][]string {
	rows, err := t.read()
	if err != nil {
		logMasked(t.Logger, t.Path, err)
		return nil
	}
	return rows
}

// LoadRows decodes every row of t. Any row that fails to decode makes the
// whole table count as malformed, and the result is empty.
func LoadRows[T any](t Table, decode func([]string) (T, error)) []T {
	rows, err := t.read()
	if err != nil {
		logMasked(t.Logger, t.Path, err)
		return nil
	}
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		v, err := decode(row)
		if err != nil {
			logMasked(t.Logger, t.Path, fmt.Errorf("row %d: %w: %w", i+2, core.ErrMalformed, err))
			return nil
		}
		out = append(out, v)
	}
	return out
}

// Rewrite atomically replaces the file with the header followed by rows.
func (t Table) Rewrite(rows [][]string) error {
	var buf bytes.Buffer
	if err := writeCSV(&buf, append([][]string{t.Header}, rows...)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", t.Path, err)
	}
	return writeFileAtomic(t.Path, buf.Bytes(), 0644)
}

// Append adds row at the end of the file, creating it with its header when absent.
func (t Table) Append(row []string) error {
	if _, err := os.Stat(t.Path); errors.Is(err, fs.ErrNotExist) {
		return t.Rewrite([][]string{row})
	}

	f, err := os.OpenFile(t.Path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", t.Path, err)
	}
	if err := writeCSV(f, [][]string{row}); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", t.Path, err)
	}
	return f.Close()
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
