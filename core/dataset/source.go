package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"sheet-diff/core/diff"
)

// Source loads one dataset.
type Source interface {
	// Name identifies the source in results, usually a file or table name.
	Name() string

	// Load reads the whole dataset into memory.
	Load(ctx context.Context) (diff.Dataset, error)
}

// FileSource loads a dataset from a file on disk.
type FileSource struct {
	// Path is the file to read. Format and compression come from its extension.
	Path string

	// Sheet selects a workbook sheet. Empty means the first sheet.
	Sheet string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path, sheet string) *FileSource {
	return &FileSource{Path: path, Sheet: sheet}
}

// Name returns the base name of the file.
func (s *FileSource) Name() string {
	return filepath.Base(s.Path)
}

// Load parses the file.
func (s *FileSource) Load(ctx context.Context) (diff.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return diff.Dataset{}, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return diff.Dataset{}, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer f.Close()

	return (&ReaderSource{FileName: s.Name(), Reader: f, Sheet: s.Sheet}).Load(ctx)
}

// ReaderSource loads a dataset from a stream, such as an HTTP upload.
type ReaderSource struct {
	// FileName determines the format and names the dataset.
	FileName string

	// Reader supplies the file contents.
	Reader io.Reader

	// Sheet selects a workbook sheet. Empty means the first sheet.
	Sheet string
}

// Name returns the file name.
func (s *ReaderSource) Name() string {
	return s.FileName
}

// Load parses the stream.
func (s *ReaderSource) Load(ctx context.Context) (diff.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return diff.Dataset{}, err
	}

	format, compression, err := DetectFormat(s.FileName)
	if err != nil {
		return diff.Dataset{}, err
	}

	reader, closer, err := decompress(s.Reader, compression)
	if err != nil {
		return diff.Dataset{}, err
	}
	defer func() {
		_ = closer()
	}()

	return Parse(reader, s.FileName, format, s.Sheet)
}

// LoadPair loads the original and updated datasets concurrently.
func LoadPair(ctx context.Context, original, updated Source) (diff.Dataset, diff.Dataset, error) {
	var (
		origDS, updDS   diff.Dataset
		origErr, updErr error
		wg              sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		origDS, origErr = original.Load(ctx)
	}()

	go func() {
		defer wg.Done()
		updDS, updErr = updated.Load(ctx)
	}()

	wg.Wait()

	if origErr != nil {
		return diff.Dataset{}, diff.Dataset{}, fmt.Errorf("original: %w", origErr)
	}
	if updErr != nil {
		return diff.Dataset{}, diff.Dataset{}, fmt.Errorf("updated: %w", updErr)
	}

	return origDS, updDS, nil
}
