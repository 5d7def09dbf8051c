package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	types "github.com/fleetsight/gasdash-backend/internal/domain"
	"github.com/fleetsight/gasdash-backend/internal/platform/envutil"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.Str("POSTGRES_HOST", "localhost")
	port := envutil.Str("POSTGRES_PORT", "5432")
	user := envutil.Str("POSTGRES_USER", "postgres")
	password := envutil.Str("POSTGRES_PASSWORD", "")
	name := envutil.Str("POSTGRES_NAME", "gasdash")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	log.Info("Connecting to Postgres...", "host", host, "db", name)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

// AutoMigrateAll migrates only the tables this service owns. The fcms_*
// source tables belong to the CDC replication and are never touched here.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating owned postgres tables...")
	err := s.db.AutoMigrate(
		&types.EndUserDefault{},
		&types.EndUserException{},
		&types.ValveGroup{},
		&types.ValveGroupMapping{},

		&types.CylinderSnapshot{},
		&types.InventoryHistorySnapshot{},
		&types.SnapshotRequest{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
