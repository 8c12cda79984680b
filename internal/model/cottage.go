package model

import "time"

type Cottage struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	CottageID  string    `json:"cottage_id"` // человекочитаемый код, например "C-12"
	Capacity   int       `json:"capacity"`
	Amenities  string    `json:"amenities"`
	CreatedAt  time.Time `json:"created_at"`
}
