package models

import "fmt"

// Cart is the session-scoped selection of items pending checkout,
// keyed by "<type>:<id>". It is loaded from and saved to the session
// explicitly at the request boundary.
type Cart map[string]CartItem

type CartItem struct {
	Type        string  `json:"type"` // stage or bundle
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	CourseTitle string  `json:"course_title"`
	PriceARS    float64 `json:"price_ars"`
}

func CartKey(itemType string, id uint) string {
	return fmt.Sprintf("%s:%d", itemType, id)
}

func (c Cart) TotalARS() float64 {
	total := 0.0
	for _, it := range c {
		total += it.PriceARS
	}
	return total
}
