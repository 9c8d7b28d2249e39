package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every service's route group.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
