// Package transcript extracts completed course codes from uploaded transcript
// files. Only the "Course" column is read; nothing else is validated.
package transcript

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const CourseColumn = "Course"

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrCourseColumnMissing = errors.New("transcript has no Course column")
	ErrUnsupportedFormat   = errors.New("unsupported transcript format")
	ErrEmptyTranscript     = errors.New("transcript is empty")
)

const utf8BOM = "\ufeff"

func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
}

// Read picks the reader from the file name's extension.
func Read(r io.Reader, filename string) ([]string, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return ReadCSV(r)
	}
}

func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return Read(f, path)
}

func ReadCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv transcript: %w", err)
	}
	return courseColumn(rows)
}

// ReadXLSX reads the first sheet of the workbook.
func ReadXLSX(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx transcript: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyTranscript
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %s: %w", sheets[0], err)
	}
	return courseColumn(rows)
}

// courseColumn treats the first row as the header and returns the non-empty
// cells of the Course column in row order. Cell text is passed through as is.
func courseColumn(rows [][]string) ([]string, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTranscript
	}

	col := -1
	for i, h := range rows[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if h == CourseColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrCourseColumnMissing
	}

	out := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if row[col] == "" {
			continue
		}
		out = append(out, row[col])
	}
	return out, nil
}
