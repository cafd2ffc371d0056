package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB membuka koneksi database sesuai environment.
// DB_DRIVER=mysql memakai DB_DSN; selain itu fallback ke SQLite lokal
// supaya development tidak butuh server MySQL.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")

	switch driver {
	case "mysql":
		dsn := os.Getenv("DB_DSN")
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				os.Getenv("DB_USER"),
				os.Getenv("DB_PASS"),
				envOr("DB_HOST", "127.0.0.1"),
				envOr("DB_PORT", "3306"),
				envOr("DB_NAME", "restaurant_floor"),
			)
		}
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		path := envOr("SQLITE_PATH", "restaurant_floor.db")
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
