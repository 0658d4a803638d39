package http

import (
	"net/http"
)

type RouterConfig struct {
	Candidates *CandidateHandler
	Offers     *OfferHandler
	Wishlists  *WishlistHandler
	Sessions   *SessionHandler
	Middleware []func(http.Handler) http.Handler
}

// NewRouter registers the configured handlers. Nil handlers leave their routes out.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Sessions != nil {
		mux.HandleFunc("POST /sessions", cfg.Sessions.Create)
	}

	if cfg.Candidates != nil {
		mux.HandleFunc("POST /candidates/{candidateID}/applications/{offerID}", cfg.Candidates.Apply)
		mux.HandleFunc("DELETE /candidates/{candidateID}/applications/{offerID}", cfg.Candidates.Withdraw)
		mux.HandleFunc("GET /candidates/{candidateID}/applications", cfg.Candidates.Applications)
		mux.HandleFunc("GET /candidates/{candidateID}/recommendations", cfg.Candidates.Recommendations)
		mux.HandleFunc("GET /candidates/{candidateID}/recommendations/{offerID}", cfg.Candidates.Explain)
	}

	if cfg.Offers != nil {
		mux.HandleFunc("GET /offers", cfg.Offers.List)
		mux.HandleFunc("GET /offers/{offerID}", cfg.Offers.Get)
		mux.HandleFunc("GET /offers/{offerID}/applicants", cfg.Offers.Applicants)
		mux.HandleFunc("GET /stats", cfg.Offers.Stats)
		mux.HandleFunc("POST /companies/{companyID}/offers", cfg.Offers.Publish)
		mux.HandleFunc("GET /companies/{companyID}/offers", cfg.Offers.CompanyOffers)
		mux.HandleFunc("PUT /companies/{companyID}/offers/{offerID}/expiration", cfg.Offers.SetExpiration)
		mux.HandleFunc("DELETE /companies/{companyID}/offers/{offerID}", cfg.Offers.Remove)
		mux.HandleFunc("DELETE /companies/{companyID}/offers/{offerID}/applicants/{candidateID}", cfg.Offers.Reject)
	}

	if cfg.Wishlists != nil {
		mux.HandleFunc("GET /companies/{companyID}/wishlist", cfg.Wishlists.List)
		mux.HandleFunc("GET /companies/{companyID}/wishlist/{candidateID}", cfg.Wishlists.Find)
		mux.HandleFunc("POST /companies/{companyID}/wishlist/{candidateID}", cfg.Wishlists.Add)
		mux.HandleFunc("DELETE /companies/{companyID}/wishlist/{candidateID}", cfg.Wishlists.Remove)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}
