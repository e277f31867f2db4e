package database

import (
	"fmt"

	"gamebus_backend/internal/config"
	"gamebus_backend/pkg/utils"
)

// Open returns the backend selected by STORE_DRIVER.
func Open(cfg config.Config) (Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverXLSX:
		utils.LogInfo("Using workbook store", map[string]interface{}{"path": cfg.DBPath})
		return NewXLSXBackend(cfg.DBPath), nil
	case config.DriverPostgres, config.DriverSQLite:
		b, err := OpenSQL(cfg.StoreDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		utils.LogInfo("Successfully connected to the database", map[string]interface{}{"driver": cfg.StoreDriver})
		return b, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
