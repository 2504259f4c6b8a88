package models

import "time"

// Item is a sellable product or service, unique by name within its company.
type Item struct {
	ItemID       int64     `json:"itemid" gorm:"column:itemid;primaryKey;autoIncrement"`
	CompID       int64     `json:"compid" gorm:"column:compid;index"`
	ItemType     string    `json:"itemtype" gorm:"column:itemtype;size:20"`
	ItemName     string    `json:"itemname" gorm:"column:itemname;size:250;not null"`
	SKU          string    `json:"sku" gorm:"column:sku;size:100"`
	HSNCode      string    `json:"hsncode" gorm:"column:hsncode;size:10"`
	UnitID       int64     `json:"unitid" gorm:"column:unitid"`
	SellPrice    float64   `json:"sellprice" gorm:"column:sellprice"`
	CurrencyCode string    `json:"currencycode" gorm:"column:currencycode;size:10"`
	TaxPrefID    int64     `json:"taxprefid" gorm:"column:taxprefid"`
	TaxRate      float64   `json:"taxrate" gorm:"column:taxrate"`
	IsActive     bool      `json:"isactive" gorm:"column:isactive;default:true"`
	UserID       int64     `json:"userid" gorm:"column:userid"`
	CreatedAt    time.Time `json:"createdat" gorm:"column:createdat"`
	UpdatedAt    time.Time `json:"updatedat" gorm:"column:updatedat"`
}

func (Item) TableName() string { return "items" }

// ItemListEntry is the condensed row the item list screen shows.
type ItemListEntry struct {
	ItemID   int64  `json:"itemid"`
	ItemType string `json:"itemtype"`
	ItemName string `json:"itemname"`
	HSNCode  string `json:"hsncode"`
}

// ItemDetails is one item with its HSN description resolved.
type ItemDetails struct {
	ItemID       int64   `json:"itemid"`
	ItemType     string  `json:"itemtype"`
	ItemName     string  `json:"itemname"`
	SKU          string  `json:"sku"`
	HSNCode      string  `json:"hsncode"`
	CodeDesc     string  `json:"codedesc"`
	UnitID       int64   `json:"unitid"`
	SellPrice    float64 `json:"sellprice"`
	CurrencyCode string  `json:"currencycode"`
	TaxPrefID    int64   `json:"taxprefid"`
	TaxRate      float64 `json:"taxrate"`
	IsActive     bool    `json:"isactive"`
}

// SaveItemRequest upserts an item by name within the company.
type SaveItemRequest struct {
	ItemID       int64   `json:"itemid"`
	CompID       int64   `json:"compid" binding:"required"`
	ItemType     string  `json:"itemtype"`
	ItemName     string  `json:"itemname" binding:"required"`
	SKU          string  `json:"sku"`
	HSNCode      string  `json:"hsncode"`
	UnitID       int64   `json:"unitid"`
	SellPrice    float64 `json:"sellprice"`
	CurrencyCode string  `json:"currencycode"`
	TaxPrefID    int64   `json:"taxprefid"`
	TaxRate      float64 `json:"taxrate"`
	IsActive     bool    `json:"isactive"`
	UserID       int64   `json:"userid"`
	IsWeb        bool    `json:"isweb"`
}
