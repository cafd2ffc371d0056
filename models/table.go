package models

import "time"

// Status meja
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	TableNumber int       `gorm:"uniqueIndex;not null" json:"table_number"`
	Status      string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// ValidTableStatus -> cek apakah status termasuk enum yang dikenal
func ValidTableStatus(status string) bool {
	return status == TableStatusAvailable || status == TableStatusOccupied
}
