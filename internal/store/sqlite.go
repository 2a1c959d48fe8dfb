package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alexiusacademia/gopanel/internal/logging"
	"github.com/alexiusacademia/gopanel/internal/panel"
)

// panelRow is the database layout of one panel; Seq preserves insertion order
type panelRow struct {
	Seq            uint   `gorm:"primaryKey;autoIncrement"`
	Number         string `gorm:"size:32"`
	Name           string `gorm:"index"`
	ActiveR        float64
	ActiveS        float64
	ActiveT        float64
	DemandR        float64
	DemandS        float64
	DemandT        float64
	CurrentR       float64
	CurrentS       float64
	CurrentT       float64
	PowerFactor    float64
	DemandFactor   float64
	PhaseVoltage   float64
	LineVoltage    float64
	TotalPower     float64
	TotalDemand    float64
	AverageCurrent float64
	Distance       float64
	VoltageDrop    float64
	Phase          string
	Neutral        string
	Ground         float64
	Breaker        float64
}

func (panelRow) TableName() string { return "panels" }

// counterRow holds named sequence values
type counterRow struct {
	Name  string `gorm:"primaryKey"`
	Value int
}

func (counterRow) TableName() string { return "counters" }

const panelCounter = "panel"

// SQLiteStore keeps panels in a SQLite database through gorm
type SQLiteStore struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewSQLite opens (or creates) the database at path. Use ":memory:" for tests.
func NewSQLite(path string, log *slog.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logging.Module("store")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database %s: %w", path, err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	s := &SQLiteStore{db: db, log: log.With(slog.String("backend", "sqlite"))}
	if err := s.EnsureInitialized(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) EnsureInitialized() error {
	if err := s.db.AutoMigrate(&panelRow{}, &counterRow{}); err != nil {
		return fmt.Errorf("error migrating sqlite schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) NextID() (string, error) {
	counter, err := readCounter(s.db)
	if err != nil {
		return "", err
	}
	return FormatID(counter), nil
}

func readCounter(tx *gorm.DB) (int, error) {
	var c counterRow
	err := tx.First(&c, "name = ?", panelCounter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var count int64
		if err := tx.Model(&panelRow{}).Count(&count).Error; err != nil {
			return 0, err
		}
		return int(count) + 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading panel counter: %w", err)
	}
	return c.Value, nil
}

func writeCounter(tx *gorm.DB, value int) error {
	return tx.Save(&counterRow{Name: panelCounter, Value: value}).Error
}

func (s *SQLiteStore) Append(r *panel.Result) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		counter, err := readCounter(tx)
		if err != nil {
			return err
		}
		if r.ID == "" {
			r.ID = FormatID(counter)
		}
		row := rowFromResult(r)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return writeCounter(tx, nextCounter(counter, r.ID))
	})
	if err != nil {
		return fmt.Errorf("error appending panel %q: %w", r.Name, err)
	}
	s.log.Info("panel saved", slog.String("id", r.ID), slog.String("name", r.Name))
	return nil
}

func (s *SQLiteStore) List() ([]panel.Result, error) {
	var rows []panelRow
	if err := s.db.Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error listing panels: %w", err)
	}
	out := make([]panel.Result, len(rows))
	for i := range rows {
		out[i] = rows[i].result()
	}
	return out, nil
}

func (s *SQLiteStore) DeleteByName(name string) (int, error) {
	res := s.db.Where("name = ?", name).Delete(&panelRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("error deleting panel %q: %w", name, res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.Info("panels deleted", slog.String("name", name), slog.Int64("count", res.RowsAffected))
	}
	return int(res.RowsAffected), nil
}

func (s *SQLiteStore) Clear() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&panelRow{}).Error; err != nil {
			return err
		}
		return writeCounter(tx, 1)
	})
	if err != nil {
		return fmt.Errorf("error clearing panels: %w", err)
	}
	s.log.Info("panels cleared")
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func rowFromResult(r *panel.Result) panelRow {
	return panelRow{
		Number:         r.ID,
		Name:           r.Name,
		ActiveR:        r.ActiveR,
		ActiveS:        r.ActiveS,
		ActiveT:        r.ActiveT,
		DemandR:        r.DemandR,
		DemandS:        r.DemandS,
		DemandT:        r.DemandT,
		CurrentR:       r.CurrentR,
		CurrentS:       r.CurrentS,
		CurrentT:       r.CurrentT,
		PowerFactor:    r.PowerFactor,
		DemandFactor:   r.DemandFactor,
		PhaseVoltage:   r.PhaseVoltage,
		LineVoltage:    r.LineVoltage,
		TotalPower:     r.TotalPower,
		TotalDemand:    r.TotalDemand,
		AverageCurrent: r.AverageCurrent,
		Distance:       r.Distance,
		VoltageDrop:    r.VoltageDrop,
		Phase:          r.Phase,
		Neutral:        r.Neutral,
		Ground:         r.Ground,
		Breaker:        r.Breaker,
	}
}

func (row panelRow) result() panel.Result {
	return panel.Result{
		ID:             row.Number,
		Name:           row.Name,
		ActiveR:        row.ActiveR,
		ActiveS:        row.ActiveS,
		ActiveT:        row.ActiveT,
		DemandR:        row.DemandR,
		DemandS:        row.DemandS,
		DemandT:        row.DemandT,
		CurrentR:       row.CurrentR,
		CurrentS:       row.CurrentS,
		CurrentT:       row.CurrentT,
		PowerFactor:    row.PowerFactor,
		DemandFactor:   row.DemandFactor,
		PhaseVoltage:   row.PhaseVoltage,
		LineVoltage:    row.LineVoltage,
		TotalPower:     row.TotalPower,
		TotalDemand:    row.TotalDemand,
		AverageCurrent: row.AverageCurrent,
		Distance:       row.Distance,
		VoltageDrop:    row.VoltageDrop,
		Phase:          row.Phase,
		Neutral:        row.Neutral,
		Ground:         row.Ground,
		Breaker:        row.Breaker,
	}
}
