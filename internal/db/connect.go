// Package db opens and migrates the notes database. The default is a local
// sqlite file; a shared MySQL server is supported for multi-session
// deployments where several planners annotate the same jobs.
package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects the notes database backend.
type Options struct {
	Driver   string // "sqlite" (default) or "mysql"
	Path     string // sqlite file path
	Host     string // mysql
	Port     int    // mysql
	User     string // mysql
	Database string // mysql
}

// DSN builds the MySQL DSN for a shared notes database.
func DSN(o Options) string {
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?parseTime=true", o.User, o.Host, o.Port, o.Database)
}

// Open connects to the notes database per Options.
func Open(o Options) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch o.Driver {
	case "", "sqlite":
		path := o.Path
		if path == "" {
			path = "dispatch.db"
		}
		gdb, err := gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, fmt.Errorf("db: open sqlite %s: %w", path, err)
		}
		return gdb, nil
	case "mysql":
		gdb, err := gorm.Open(mysql.Open(DSN(o)), cfg)
		if err != nil {
			return nil, fmt.Errorf("db: connect to %s:%d/%s: %w", o.Host, o.Port, o.Database, err)
		}
		return gdb, nil
	}
	return nil, fmt.Errorf("db: unknown driver %q", o.Driver)
}
