package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gopanel/internal/logging"
	"github.com/alexiusacademia/gopanel/internal/panel"
)

// metaSheet is a hidden worksheet holding the numbering counter
const metaSheet = "META"

// rename is replaced in tests
var rename = os.Rename

// XLSXStore keeps panels in a single workbook. Every mutation rewrites the
// whole workbook to a temporary file and renames it over the original.
type XLSXStore struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
}

// NewXLSX returns a workbook-backed store at path
func NewXLSX(path string, log *slog.Logger) *XLSXStore {
	if log == nil {
		log = logging.Module("store")
	}
	return &XLSXStore{path: path, log: log.With(slog.String("backend", "xlsx"))}
}

// Path returns the workbook location
func (s *XLSXStore) Path() string { return s.path }

func (s *XLSXStore) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, err := s.load()
	return err
}

func (s *XLSXStore) NextID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, counter, err := s.load()
	if err != nil {
		return "", err
	}
	return FormatID(counter), nil
}

func (s *XLSXStore) Append(r *panel.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, counter, err := s.load()
	if err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = FormatID(counter)
	}
	counter = nextCounter(counter, r.ID)

	if err := s.save(append(records, *r), counter); err != nil {
		return fmt.Errorf("error appending panel %q: %w", r.Name, err)
	}
	s.log.Info("panel saved", slog.String("id", r.ID), slog.String("name", r.Name))
	return nil
}

func (s *XLSXStore) List() ([]panel.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, _, err := s.load()
	return records, err
}

func (s *XLSXStore) DeleteByName(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, counter, err := s.load()
	if err != nil {
		return 0, err
	}
	kept := slices.DeleteFunc(slices.Clone(records), func(r panel.Result) bool { return r.Name == name })
	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(kept, counter); err != nil {
		return 0, fmt.Errorf("error deleting panel %q: %w", name, err)
	}
	s.log.Info("panels deleted", slog.String("name", name), slog.Int("count", removed))
	return removed, nil
}

func (s *XLSXStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(nil, 1); err != nil {
		return fmt.Errorf("error clearing workbook: %w", err)
	}
	s.log.Info("workbook cleared", slog.String("path", s.path))
	return nil
}

func (s *XLSXStore) Close() error { return nil }

// load reads the workbook, creating it when missing. A workbook that cannot
// be read is moved aside and replaced by a header-only one.
func (s *XLSXStore) load() ([]panel.Result, int, error) {
	records, counter, err := readWorkbook(s.path)
	switch {
	case err == nil:
		return records, counter, nil
	case errors.Is(err, fs.ErrNotExist):
		s.log.Debug("workbook missing, creating", slog.String("path", s.path))
	default:
		backup := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().Format("20060102-150405"))
		if renameErr := rename(s.path, backup); renameErr != nil {
			s.log.Error("workbook unreadable and could not be moved aside",
				slog.String("path", s.path),
				slog.Any("error", renameErr))
			return nil, 0, fmt.Errorf("%w: %v; keeping %s untouched: %v", ErrCorrupt, err, s.path, renameErr)
		}
		s.log.Warn("workbook unreadable, reinitializing",
			slog.String("path", s.path),
			slog.String("backup", backup),
			slog.Any("error", err))
	}

	if err := s.save(nil, 1); err != nil {
		return nil, 0, fmt.Errorf("error initializing workbook: %w", err)
	}
	return nil, 1, nil
}

func readWorkbook(path string) ([]panel.Result, int, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, 0, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(rows) == 0 || !slices.Equal(rows[0], header) {
		return nil, 0, fmt.Errorf("%w: sheet %s has no valid header", ErrCorrupt, SheetName)
	}

	records := make([]panel.Result, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		r, err := fromRow(row)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, r)
	}

	counter := counterFromRecords(records)
	if v, err := f.GetCellValue(metaSheet, "B1"); err == nil && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > counter {
			counter = n
		}
	}
	return records, counter, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// save writes records atomically: temp file in the same directory, then rename
func (s *XLSXStore) save(records []panel.Result, counter int) error {
	f, err := buildWorkbook(records, counter, true)
	if err != nil {
		return err
	}
	defer f.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".gopanel-*.xlsx")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return rename(tmpName, s.path)
}

// WriteXLSX renders records as a workbook with the panel table layout
func WriteXLSX(w io.Writer, records []panel.Result) error {
	f, err := buildWorkbook(records, 0, false)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

func buildWorkbook(records []panel.Result, counter int, withMeta bool) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"162B4E"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return nil, err
	}

	titles := make([]any, len(header))
	for i, h := range header {
		titles[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &titles); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for i := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := toRow(&records[i])
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	if withMeta {
		if _, err := f.NewSheet(metaSheet); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(metaSheet, "A1", "next_id"); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(metaSheet, "B1", counter); err != nil {
			return nil, err
		}
		if err := f.SetSheetVisible(metaSheet, false); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}
