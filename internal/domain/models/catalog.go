package models

// RouteOffering is catalog data: a named bus serving one route at a fixed
// per-seat price. (bus, route) is the partition key for seat reservations.
type RouteOffering struct {
	BusName string `json:"bus"`
	Route   string `json:"route"`
	Price   int64  `json:"price"`
	Image   string `json:"image,omitempty"`
}

type Destination struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}
