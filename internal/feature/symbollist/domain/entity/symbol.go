// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is a registered ticker. AssetType and Timezone are optional and
// stand in for provider metadata when the provider cannot be reached.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:32;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null"`
	AssetType string    `gorm:"size:32;not null;default:''"`
	Timezone  string    `gorm:"size:64;not null;default:''"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
