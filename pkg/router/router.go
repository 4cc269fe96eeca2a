package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/groupwallet/gate/internal/auth"
	"github.com/groupwallet/gate/internal/services/db"
	"github.com/groupwallet/gate/internal/services/ledger"
	"github.com/groupwallet/gate/internal/wallets"
	"github.com/groupwallet/gate/pkg/wallet"
)

type Router struct {
	apiKey string
	w      *wallet.Wallet
	lg     *ledger.Ledger
	db     *db.DB
}

func NewServer(apiKey string, w *wallet.Wallet, lg *ledger.Ledger, d *db.DB) *Router {
	return &Router{
		apiKey,
		w,
		lg,
		d,
	}
}

// Start starts the api server on the given port
func (r *Router) Start(port int) error {
	cr := chi.NewRouter()

	a := auth.New(r.apiKey)

	// configure middleware
	cr.Use(middleware.RequestID)
	cr.Use(middleware.Logger)

	// configure custom middleware
	cr.Use(OptionsMiddleware)
	cr.Use(HealthMiddleware)
	cr.Use(RequestSizeLimitMiddleware(1 << 20)) // Limit request bodies to 1MB
	cr.Use(a.AuthMiddleware)
	cr.Use(middleware.Compress(9))

	// instantiate handlers
	ws := wallets.NewService(r.w, r.lg, r.db)

	// configure routes
	cr.Route("/wallet", func(cr chi.Router) {
		cr.Post("/proposals", withSignature(ws.CreateProposal))
		cr.Post("/votes", withSignature(ws.Vote))
		cr.Post("/executions", withSignature(ws.Execute))
		cr.Post("/funds", withSignature(ws.Fund))

		cr.Get("/proposal", ws.CurrentProposal)
		cr.Get("/quorum", ws.QuorumReached)
		cr.Get("/duration", ws.VotingDuration)
		cr.Get("/voters", ws.Voters)

		cr.Get("/executions", ws.GetExecutions)
		cr.Get("/fundings", ws.GetFundings)
	})

	// start the server
	return http.ListenAndServe(fmt.Sprintf(":%v", port), cr)
}
