package entity

import "time"

// Category es una etiqueta de catálogo propia de un tenant. Los productos la
// referencian por id en CategoryIDs.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
