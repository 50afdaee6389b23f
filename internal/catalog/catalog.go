// Package catalog serves the static route offering data. The catalog is an
// external collaborator in the full product; the booking ledger only consults
// it to validate prices against what the client submitted.
package catalog

import (
	"strings"

	"busbooking/internal/domain/models"
)

var destinations = []models.Destination{
	{Name: "Mumbai", Image: "/images/mumbai.jpg"},
	{Name: "Delhi", Image: "/images/delhi.jpg"},
	{Name: "Goa", Image: "/images/goa.jpg"},
}

var offerings = []models.RouteOffering{
	{BusName: "Redline Express", Route: "Delhi → Mumbai", Price: 1500, Image: "/images/bus1.jpg"},
	{BusName: "Blue Star Travels", Route: "Bangalore → Hyderabad", Price: 1200, Image: "/images/bus2.jpeg"},
	{BusName: "Green Metro", Route: "Chennai → Pune", Price: 1800, Image: "/images/bus3.jpg"},
}

func Destinations() []models.Destination {
	out := make([]models.Destination, len(destinations))
	copy(out, destinations)
	return out
}

func Offerings() []models.RouteOffering {
	out := make([]models.RouteOffering, len(offerings))
	copy(out, offerings)
	return out
}

// Find returns the offering for (bus, route), matching case-insensitively on
// the bus name and exactly on the route string.
func Find(bus, route string) (models.RouteOffering, bool) {
	bus = strings.TrimSpace(bus)
	route = strings.TrimSpace(route)
	for _, o := range offerings {
		if strings.EqualFold(o.BusName, bus) && o.Route == route {
			return o, true
		}
	}
	return models.RouteOffering{}, false
}
