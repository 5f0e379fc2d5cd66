// Package route holds the static route catalog (component A) and the
// terminal-name resolver (component B). Both are pure, process-wide,
// read-only data: no network calls, no mutable state.
package route

import "fmt"

// Route is a statically configured ferry route. WestTerminal and
// EastTerminal are the upstream's exact terminal-name spelling, matched
// case-sensitively by the Resolver.
type Route struct {
	ID              int
	Description     string
	WestTerminal    string
	EastTerminal    string
	CrossingMinutes int
}

// Catalog holds the closed set of supported routes, seeded at process
// start and never mutated afterward.
type Catalog struct {
	routes  []Route
	byID    map[int]Route
}

// NewCatalog builds a Catalog from a fixed route list, indexing by ID.
func NewCatalog(routes []Route) *Catalog {
	byID := make(map[int]Route, len(routes))
	for _, r := range routes {
		byID[r.ID] = r
	}
	return &Catalog{routes: routes, byID: byID}
}

// DefaultCatalog seeds the catalog with the routes this service is
// configured to serve. Real deployments may load an equivalent list from
// config; this is the fixture used when none is supplied.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Route{
		{ID: 5, Description: "Seattle / Bainbridge Island", WestTerminal: "Seattle", EastTerminal: "Bainbridge Island", CrossingMinutes: 35},
		{ID: 8, Description: "Edmonds / Kingston", WestTerminal: "Edmonds", EastTerminal: "Kingston", CrossingMinutes: 30},
		{ID: 9, Description: "Mukilteo / Clinton", WestTerminal: "Mukilteo", EastTerminal: "Clinton", CrossingMinutes: 20},
		{ID: 15, Description: "Fauntleroy / Vashon", WestTerminal: "Fauntleroy", EastTerminal: "Vashon Island", CrossingMinutes: 15},
		{ID: 16, Description: "Fauntleroy / Southworth", WestTerminal: "Fauntleroy", EastTerminal: "Southworth", CrossingMinutes: 35},
	})
}

// ListRoutes returns the full ordered list of supported routes.
func (c *Catalog) ListRoutes() []Route {
	out := make([]Route, len(c.routes))
	copy(out, c.routes)
	return out
}

// ErrUnknownRoute is returned by GetRoute when routeID is not in the catalog.
type ErrUnknownRoute struct{ RouteID int }

func (e *ErrUnknownRoute) Error() string { return fmt.Sprintf("unknown route %d", e.RouteID) }

// GetRoute returns the matching route or ErrUnknownRoute. Callers treat
// absence as a terminal, 404-equivalent signal.
func (c *Catalog) GetRoute(routeID int) (Route, error) {
	r, ok := c.byID[routeID]
	if !ok {
		return Route{}, &ErrUnknownRoute{RouteID: routeID}
	}
	return r, nil
}
