package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

// SourceSQL is the Source of database snapshots.
const SourceSQL = "sql"

// SQLConfig configures a SQL loader.
type SQLConfig struct {
	// MaxConcurrency caps parallel table reads.
	MaxConcurrency int

	// Timeout bounds a single table read.
	Timeout time.Duration
}

// DefaultSQLConfig returns safe defaults.
func DefaultSQLConfig() SQLConfig {
	return SQLConfig{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
	}
}

// SQL reads each catalog table from a database table of the same name.
// Rows are ordered by id, which fixes the first-match order of pricing rules.
type SQL struct {
	db     *gorm.DB
	config SQLConfig
	logger zerolog.Logger
}

// OpenPostgres opens a gorm connection to dsn with SQL logging silenced.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// NewSQL creates a SQL loader over db.
func NewSQL(db *gorm.DB, config SQLConfig) *SQL {
	if db == nil {
		panic("db cannot be nil")
	}
	def := DefaultSQLConfig()
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = def.MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	return &SQL{
		db:     db,
		config: config,
		logger: log.With().Str("component", "sql-loader").Logger(),
	}
}

// Load implements Loader. The database has no debug variant, so debug loads
// read the same tables.
func (s *SQL) Load(ctx context.Context, _ bool) (*catalog.Snapshot, error) {
	start := time.Now()
	var t catalog.Tables

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrency)

	targets := map[string]any{
		catalog.TableModels:             &t.Models,
		catalog.TableVariants:           &t.Variants,
		catalog.TableColors:             &t.Colors,
		catalog.TableComponents:         &t.Components,
		catalog.TablePricing:            &t.Pricing,
		catalog.TableInsuranceProviders: &t.InsuranceProviders,
		catalog.TableInsurancePlans:     &t.InsurancePlans,
		catalog.TableFinanceProviders:   &t.FinanceProviders,
		catalog.TableFinanceOptions:     &t.FinanceOptions,
	}
	for _, name := range catalog.TableNames {
		name, dest := name, targets[name]
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(gctx, s.config.Timeout)
			defer cancel()
			if err := s.db.WithContext(tctx).Table(name).Order("id").Find(dest).Error; err != nil {
				return fmt.Errorf("read table %s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("rows", t.RowCount()).
		Dur("duration", time.Since(start)).
		Msg("Catalog tables read")
	return catalog.NewSnapshot(SourceSQL, t), nil
}
