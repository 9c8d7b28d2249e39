package handler

import "github.com/julienschmidt/httprouter"

// API bundles the review and vote route groups behind a single registration.
type API struct {
	reviews *ReviewHandler
	votes   *VoteHandler
}

func NewAPI(reviews *ReviewHandler, votes *VoteHandler) *API {
	return &API{
		reviews: reviews,
		votes:   votes,
	}
}

func (a *API) RegisterRoutes(router *httprouter.Router) {
	a.reviews.RegisterRoutes(router)
	a.votes.RegisterRoutes(router)
}
