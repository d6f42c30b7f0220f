// Package navigation is the screen-agnostic navigation core: typed routes,
// per-flow routers handed out by a registry, and a single manager that owns
// the presentation stack, its history, the presented modal and the route
// equivalences used to reconcile nested flows.
//
// Everything here runs on the UI update loop. Nothing blocks, nothing
// returns errors; commands that cannot apply are ignored.
package navigation
