package models

import "time"

type Product struct {
	ID         string      `json:"id" gorm:"primaryKey"`
	Name       string      `json:"name" gorm:"not null"`
	Image      string      `json:"image" gorm:"size:1024"`
	Type       MirrorType  `json:"type" gorm:"size:32"`
	Shape      MirrorShape `json:"shape" gorm:"size:32"`
	Dimensions string      `json:"dimensions"`
	Price      float64     `json:"price"`
	Stock      int         `json:"stock"`
	Status     StockStatus `json:"status" gorm:"size:32"` // snapshot taken at creation, not for display
	IsVisible  bool        `json:"isVisible"`
	CreatedAt  time.Time   `json:"-"`
}

type MirrorType string

const (
	WallMirror MirrorType = "Wall Mirror"
	Decorative MirrorType = "Decorative"
	LEDMirror  MirrorType = "LED Mirror"
	CustomCut  MirrorType = "Custom Cut"
)

type MirrorShape string

const (
	Round     MirrorShape = "Round"
	Square    MirrorShape = "Square"
	Rectangle MirrorShape = "Rectangle"
	Oval      MirrorShape = "Oval"
	Custom    MirrorShape = "Custom"
)

type StockStatus string

const (
	InStock    StockStatus = "In Stock"
	LowStock   StockStatus = "Low Stock"
	OutOfStock StockStatus = "Out of Stock"
)
