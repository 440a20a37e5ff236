// Package debug exposes a container's bindings over HTTP for inspection.
//
//	router := gin.New()
//	debug.Register(router.Group("/debug/di"), container)
//
// Routes:
//
//	GET /bindings       all bindings, ordered by type name
//	GET /bindings/:id   one binding by its UUID
//	GET /version        build information
//
// The endpoints are read-only and meant for development and internal
// networks; they reveal type names of the embedding application.
package debug
