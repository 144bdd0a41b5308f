package model

import (
	"database/sql"
	"time"
)

// Product mirrors the `product` table.  CreatedBy/ModifiedBy record the
// authenticated username taken from the request identity at write time.
type Product struct {
	ID         uint64
	Name       string
	CreatedBy  string
	CreatedOn  time.Time
	ModifiedBy sql.NullString
	ModifiedOn sql.NullTime
	Items      []Item
}

// Item mirrors the `item` table.  Items belong to exactly one product and
// are replaced wholesale when the product is updated.
type Item struct {
	ID        uint64
	ProductID uint64
	Quantity  int
}
