// Package handler holds what all page handlers share.
package handler

const (
	// BaseLayout wraps every page.
	BaseLayout = "layouts/base"

	// RootPath is the home link of the breadcrumb trail.
	RootPath = "/"

	// RouterRootPath is the root of a route group registered with app.Route.
	RouterRootPath = "/"

	// ErrMissingDependencyLogMsg is logged fatally when Init gets a nil app or config.
	ErrMissingDependencyLogMsg = "page handler initialised without app or config"
)
