package database

import (
	"time"

	"github.com/juju/loggo/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/totegamma/familyone/internal/infra/database/models"
)

var dbLogger = loggo.GetLogger("familyone.database")

// gormWriter routes gorm's slow query and error output into loggo.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...any) {
	dbLogger.Warningf(format, args...)
}

func NewPostgres(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		gormWriter{},
		logger.Config{
			SlowThreshold:             300 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	return db, err
}

func MigratePostgres(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Member{},
		&models.MemberPhoto{},
		&models.BackupAudit{},
	)
}
