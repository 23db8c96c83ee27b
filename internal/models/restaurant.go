package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Column bounds of the restaurants table.
const (
	MaxIDLength   = 36
	MaxNameLength = 80
	MaxTextLength = 120
)

// Restaurant mirrors one row of the restaurants table. Every column other
// than ID is nullable and encodes as JSON null when unset.
type Restaurant struct {
	ID     string   `json:"id"`
	Rating *int     `json:"rating"`
	Name   *string  `json:"name"`
	Site   *string  `json:"site"`
	Email  *string  `json:"email"`
	Phone  *string  `json:"phone"`
	Street *string  `json:"street"`
	City   *string  `json:"city"`
	State  *string  `json:"state"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
}

// Validate checks the id and the text column bounds.
func (r Restaurant) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("id is required")
	}
	if utf8.RuneCountInString(r.ID) > MaxIDLength {
		return fmt.Errorf("id must be at most %d characters", MaxIDLength)
	}
	return checkText(r.Name, r.Site, r.Email, r.Phone, r.Street, r.City, r.State)
}

// RestaurantPatch is the body of a partial update. Keys missing from the
// payload leave the stored column untouched; an explicit null clears it.
// The id is never part of a patch.
type RestaurantPatch struct {
	Rating Optional[int]     `json:"rating"`
	Name   Optional[string]  `json:"name"`
	Site   Optional[string]  `json:"site"`
	Email  Optional[string]  `json:"email"`
	Phone  Optional[string]  `json:"phone"`
	Street Optional[string]  `json:"street"`
	City   Optional[string]  `json:"city"`
	State  Optional[string]  `json:"state"`
	Lat    Optional[float64] `json:"lat"`
	Lng    Optional[float64] `json:"lng"`
}

func (p RestaurantPatch) Validate() error {
	return checkText(p.Name.Ptr(), p.Site.Ptr(), p.Email.Ptr(), p.Phone.Ptr(), p.Street.Ptr(), p.City.Ptr(), p.State.Ptr())
}

// Apply merges the patch into r.
func (p RestaurantPatch) Apply(r *Restaurant) {
	p.Rating.applyTo(&r.Rating)
	p.Name.applyTo(&r.Name)
	p.Site.applyTo(&r.Site)
	p.Email.applyTo(&r.Email)
	p.Phone.applyTo(&r.Phone)
	p.Street.applyTo(&r.Street)
	p.City.applyTo(&r.City)
	p.State.applyTo(&r.State)
	p.Lat.applyTo(&r.Lat)
	p.Lng.applyTo(&r.Lng)
}

// textColumns lists the text columns in table order with their bounds.
var textColumns = []struct {
	name string
	max  int
}{
	{"name", MaxNameLength},
	{"site", MaxTextLength},
	{"email", MaxTextLength},
	{"phone", MaxTextLength},
	{"street", MaxTextLength},
	{"city", MaxTextLength},
	{"state", MaxTextLength},
}

func checkText(values ...*string) error {
	for i, v := range values {
		if v == nil {
			continue
		}
		col := textColumns[i]
		if utf8.RuneCountInString(*v) > col.max {
			return fmt.Errorf("%s must be at most %d characters", col.name, col.max)
		}
	}
	return nil
}
