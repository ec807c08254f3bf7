package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type sessionRecord struct {
	Code               string `gorm:"primaryKey;size:6"`
	Status             string `gorm:"size:16;not null;default:'waiting';index"`
	Rounds             int    `gorm:"not null;default:0"`
	SlotsPerRound      int    `gorm:"not null;default:0"`
	CurrentPickIndex   int    `gorm:"not null;default:0"`
	TeamControllers    datatypes.JSONType[map[string]draft.Controller]
	Picks              datatypes.JSONSlice[draft.Pick]
	AvailablePlayerIDs datatypes.JSONSlice[string]
	Trades             datatypes.JSONSlice[draft.Trade]
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (sessionRecord) TableName() string {
	return "draft_sessions"
}

func toRecord(s draft.Session) sessionRecord {
	return sessionRecord{
		Code:               s.Code,
		Status:             string(s.Status),
		Rounds:             s.Rounds,
		SlotsPerRound:      s.SlotsPerRound,
		CurrentPickIndex:   s.CurrentPickIndex,
		TeamControllers:    datatypes.NewJSONType(s.TeamControllers),
		Picks:              datatypes.JSONSlice[draft.Pick](s.Picks),
		AvailablePlayerIDs: datatypes.JSONSlice[string](s.AvailablePlayerIDs),
		Trades:             datatypes.JSONSlice[draft.Trade](s.Trades),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func (r sessionRecord) session() draft.Session {
	s := draft.Session{
		Code:               r.Code,
		Status:             draft.Status(r.Status),
		Rounds:             r.Rounds,
		SlotsPerRound:      r.SlotsPerRound,
		CurrentPickIndex:   r.CurrentPickIndex,
		TeamControllers:    r.TeamControllers.Data(),
		Picks:              []draft.Pick(r.Picks),
		AvailablePlayerIDs: []string(r.AvailablePlayerIDs),
		Trades:             []draft.Trade(r.Trades),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if s.TeamControllers == nil {
		s.TeamControllers = map[string]draft.Controller{}
	}
	if s.Picks == nil {
		s.Picks = []draft.Pick{}
	}
	if s.AvailablePlayerIDs == nil {
		s.AvailablePlayerIDs = []string{}
	}
	return s
}

// Gorm keeps sessions in Postgres or SQLite.
type Gorm struct {
	db *gorm.DB
}

// Open connects with the named driver and migrates the sessions table.
func Open(driver, dsn string) (*Gorm, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return NewGorm(db)
}

func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate sessions: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) CreateSession(ctx context.Context) (draft.Session, error) {
	db := g.db.WithContext(ctx)
	code, err := uniqueCode(func(c string) (bool, error) {
		var n int64
		if err := db.Model(&sessionRecord{}).Where("code = ?", c).Count(&n).Error; err != nil {
			return false, err
		}
		return n > 0, nil
	})
	if err != nil {
		return draft.Session{}, fmt.Errorf("create session: %w", err)
	}

	rec := toRecord(draft.NewSession(code))
	if err := db.Create(&rec).Error; err != nil {
		return draft.Session{}, fmt.Errorf("create session: %w", err)
	}
	return rec.session(), nil
}

func (g *Gorm) GetSessionByCode(ctx context.Context, code string) (draft.Session, error) {
	var rec sessionRecord
	err := g.db.WithContext(ctx).Where("code = ?", NormalizeCode(code)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return draft.Session{}, ErrNotFound
	}
	if err != nil {
		return draft.Session{}, fmt.Errorf("get session %s: %w", code, err)
	}
	return rec.session(), nil
}

func (g *Gorm) UpdateSession(ctx context.Context, code string, u Update) (draft.Session, error) {
	var out draft.Session
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec sessionRecord
		if err := tx.Where("code = ?", NormalizeCode(code)).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		s := rec.session()
		u.apply(&s)
		next := toRecord(s)
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		out = next.session()
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return draft.Session{}, ErrNotFound
	}
	if err != nil {
		return draft.Session{}, fmt.Errorf("update session %s: %w", code, err)
	}
	return out, nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
