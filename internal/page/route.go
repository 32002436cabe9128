package page

import "strings"

// Route identifies which page-specific stage a page gets.
type Route string

const (
	RouteHome      Route = "home"
	RouteSolutions Route = "solutions"
	RouteTeam      Route = "team"
	RouteOther     Route = "other"
)

// DetectRoute classifies a page path that already has the base path
// stripped. Query strings and fragments are ignored.
func DetectRoute(p string) Route {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch {
	case p == "" || p == "/" || p == "index.html" || strings.HasSuffix(p, "/index.html"):
		return RouteHome
	case strings.Contains(p, "solutions"):
		return RouteSolutions
	case strings.Contains(p, "team"):
		return RouteTeam
	default:
		return RouteOther
	}
}
