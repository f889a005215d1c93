package config

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BMDarkLight/Simple-Doctor-API/model"
)

const sqlitePrefix = "sqlite:"

// ConnectAuditDB opens the SQL database that stores security events and
// migrates the security_logs table. An empty AUDIT_DB_DSN disables auditing
// and returns a nil DB. DSNs prefixed with "sqlite:" (or any DSN when
// APPENV=test) use SQLite; everything else is treated as a MySQL DSN.
func ConnectAuditDB(cfg *Config) (*gorm.DB, error) {
	if cfg.AuditDSN == "" {
		return nil, nil
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(cfg.AuditDSN, sqlitePrefix):
		dialector = sqlite.Open(strings.TrimPrefix(cfg.AuditDSN, sqlitePrefix))
	case cfg.AppEnv == "test":
		dialector = sqlite.Open(cfg.AuditDSN)
	default:
		dialector = mysql.Open(cfg.AuditDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.AutoMigrate(&model.SecurityLog{}); err != nil {
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return db, nil
}
