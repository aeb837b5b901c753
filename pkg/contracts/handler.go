// Package contracts holds the interfaces pkg/app mounts HTTP surfaces through.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler registers its routes on the router it is given. The dataset API and the
// health probes are mounted on separate routers.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
