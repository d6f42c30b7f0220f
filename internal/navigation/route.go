package navigation

import "reflect"

// Route is a navigable destination. Each flow declares its destinations as a
// closed set of types behind a sealed interface, one type per case.
//
// Identity is derived from the case type only. Two values of the same case
// with different payloads (two different shows, say) are the same route for
// stack membership, equivalence and pop-to lookups. This is a known
// limitation: navigating to a second show while another one is already in
// the history pops back to the first instead of stacking.
type Route interface {
	RouteID() string
}

// TypeIdentity returns the package-qualified name of v's dynamic type,
// dereferencing pointers so that T and *T share an identity.
func TypeIdentity(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// SameRoute reports whether a and b identify the same destination.
func SameRoute(a, b Route) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.RouteID() == b.RouteID()
}

func routeIDs(routes []Route) []string {
	ids := make([]string, len(routes))
	for i, r := range routes {
		ids[i] = r.RouteID()
	}
	return ids
}
