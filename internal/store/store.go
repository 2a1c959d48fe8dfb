// Package store persists computed panels. Two backends share one interface:
// an xlsx workbook laid out like the exported spreadsheet and a SQLite database.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alexiusacademia/gopanel/internal/config"
	"github.com/alexiusacademia/gopanel/internal/panel"
)

// SheetName is the worksheet holding the panel table
const SheetName = "QD"

// IDPrefix prefixes every panel number
const IDPrefix = "QD-"

// ErrCorrupt marks a store whose contents could not be read back
var ErrCorrupt = errors.New("store is corrupt")

// Store is the persistence interface used by the presentation layer
type Store interface {
	// EnsureInitialized creates the store with its header if absent
	EnsureInitialized() error
	// NextID returns the number the next appended panel will receive
	NextID() (string, error)
	// Append persists r, assigning r.ID when it is empty
	Append(r *panel.Result) error
	// List returns all panels in insertion order
	List() ([]panel.Result, error)
	// DeleteByName removes every panel with the given name and reports how many
	DeleteByName(name string) (int, error)
	// Clear removes every panel and resets numbering
	Clear() error
	Close() error
}

// Open returns the backend selected by the settings
func Open(s *config.Settings, log *slog.Logger) (Store, error) {
	switch s.Store.Backend {
	case config.BackendXLSX:
		return NewXLSX(s.Store.Path, log), nil
	case config.BackendSQLite:
		return NewSQLite(s.Store.SQLitePath, log)
	default:
		return nil, fmt.Errorf("unknown store backend %q", s.Store.Backend)
	}
}

var header = []string{
	"N°", "DESCRIÇÃO", "ATIVA-R", "ATIVA-S", "ATIVA-T",
	"DEM-R", "DEM-S", "DEM-T", "R", "S", "T", "FP",
	"FD", "TENSÃO FASE (V)", "TENSÃO LINHA (V)", "POT. TOTAL (W)",
	"DEM. TOTAL (VA)", "COR. MÉDIA (A)", "DIST.(M)", "QUEDA DE TENSÃO (%)",
	"FA", "NE", "TE", "DISJUNTOR",
}

// Header returns the column titles of the panel table
func Header() []string {
	out := make([]string, len(header))
	copy(out, header)
	return out
}

// FormatID builds a panel number from its sequence value
func FormatID(n int) string {
	return IDPrefix + strconv.Itoa(n)
}

// ParseID extracts the sequence value of a panel number
func ParseID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, IDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// nextCounter returns the counter value after id has been used
func nextCounter(counter int, id string) int {
	if n, ok := ParseID(id); ok && n+1 > counter {
		return n + 1
	}
	return counter
}

// counterFromRecords derives numbering for stores written without a counter
func counterFromRecords(records []panel.Result) int {
	counter := len(records) + 1
	for _, r := range records {
		counter = nextCounter(counter, r.ID)
	}
	return counter
}

// toRow lays out a result in column order
func toRow(r *panel.Result) []any {
	return []any{
		r.ID, r.Name,
		r.ActiveR, r.ActiveS, r.ActiveT,
		r.DemandR, r.DemandS, r.DemandT,
		r.CurrentR, r.CurrentS, r.CurrentT,
		r.PowerFactor, r.DemandFactor,
		r.PhaseVoltage, r.LineVoltage,
		r.TotalPower, r.TotalDemand, r.AverageCurrent,
		r.Distance, r.VoltageDrop,
		r.Phase, r.Neutral, r.Ground, r.Breaker,
	}
}

// fromRow parses a row of raw cell values
func fromRow(cells []string) (panel.Result, error) {
	if len(cells) > len(header) {
		return panel.Result{}, fmt.Errorf("%w: row has %d cells, want %d", ErrCorrupt, len(cells), len(header))
	}
	padded := make([]string, len(header))
	copy(padded, cells)

	var (
		r        panel.Result
		parseErr error
	)
	num := func(i int) float64 {
		s := strings.TrimSpace(padded[i])
		if s == "" || parseErr != nil {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			parseErr = fmt.Errorf("%w: column %s: %v", ErrCorrupt, header[i], err)
		}
		return v
	}

	r.ID, r.Name = padded[0], padded[1]
	r.ActiveR, r.ActiveS, r.ActiveT = num(2), num(3), num(4)
	r.DemandR, r.DemandS, r.DemandT = num(5), num(6), num(7)
	r.CurrentR, r.CurrentS, r.CurrentT = num(8), num(9), num(10)
	r.PowerFactor, r.DemandFactor = num(11), num(12)
	r.PhaseVoltage, r.LineVoltage = num(13), num(14)
	r.TotalPower, r.TotalDemand, r.AverageCurrent = num(15), num(16), num(17)
	r.Distance, r.VoltageDrop = num(18), num(19)
	r.Phase, r.Neutral = padded[20], padded[21]
	r.Ground, r.Breaker = num(22), num(23)

	return r, parseErr
}
