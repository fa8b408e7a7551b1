package storage

import "fmt"

// Open builds the slots backend named by driver ("file" or "sqlite").
func Open(driver, dir, sqlitePath string) (Slots, error) {
	switch driver {
	case "", "file":
		return NewFileSlots(dir)
	case "sqlite":
		return NewSQLiteSlots(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
