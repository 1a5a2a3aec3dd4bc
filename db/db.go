package db

import (
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"surveyserver/config"
	"surveyserver/logger"
)

var Instance *gorm.DB

// Dialector picks Postgres, then MySQL, then SQLite depending on what is configured
func Dialector() gorm.Dialector {
	switch {
	case config.POSTGRES_DSN != "":
		return postgres.Open(config.POSTGRES_DSN)
	case config.MYSQL_DSN != "":
		return mysql.Open(config.MYSQL_DSN)
	default:
		return sqlite.Open(SQLiteDSN(config.SQLITE_FILE))
	}
}

// SQLiteDSN enables foreign key enforcement, which SQLite leaves off by default
func SQLiteDSN(file string) string {
	if strings.Contains(file, "_foreign_keys") {
		return file
	}
	if strings.Contains(file, "?") {
		return file + "&_foreign_keys=on"
	}
	return file + "?_foreign_keys=on"
}

func Open(dialector gorm.Dialector, log *logger.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if config.DEBUG_MODE {
		level = gormlogger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

func Init(log *logger.Logger) {
	dialector := Dialector()
	db, err := Open(dialector, log)
	if err != nil || db == nil {
		panic(err)
	}
	log.Info("Database connected", "dialect", dialector.Name())
	Instance = db
}
