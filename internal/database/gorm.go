package repository

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shopbot/entity"
	"shopbot/internal/config"
	"shopbot/internal/lib/sl"
)

// Sentinel errors surfaced to the service layer. Handlers translate these
// into user-visible messages; anything else is logged as a storage failure.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrInvalidRating     = errors.New("rating out of range")
)

type Storage struct {
	db  *gorm.DB
	log *slog.Logger
}

// New opens the sqlite database at the configured path and migrates the
// schema. Foreign keys are enabled per connection; sqlite ships with them
// off.
func New(conf *config.Config, logger *slog.Logger) (*Storage, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on", conf.Database.Path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	s := &Storage{
		db:  db,
		log: logger.With(sl.Module("repository")),
	}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) migrate() error {
	err := s.db.AutoMigrate(
		&entity.User{},
		&entity.UserProfile{},
		&entity.Category{},
		&entity.Product{},
		&entity.CartLine{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.StarsTransaction{},
		&entity.Favorite{},
		&entity.Review{},
		&WorkflowState{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func findError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
