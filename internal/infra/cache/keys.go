package cache

import "time"

const (
	// encoded menu snapshot: menu:catalog:v1 -> json
	KeyCatalog = "menu:catalog:v1"
)

var (
	TTLCatalog = 5 * time.Minute
)
