// Package http exposes the matching engine as a JSON API.
//
// The router serves the following endpoints:
//   - POST /sessions: verifies credentials. Body: {"role","email","secret"} with role
//     "candidate" or "company". Response: {"role","id","name"}.
//   - POST /candidates/{candidateID}/applications/{offerID}: applies. 201 on success,
//     409 already_applied, 410 expired, 404 not_found.
//   - DELETE /candidates/{candidateID}/applications/{offerID}: withdraws. 204, 409
//     not_applied, 404.
//   - GET /candidates/{candidateID}/applications: applied offers plus the count of
//     those still open.
//   - GET /candidates/{candidateID}/recommendations?n=: ranked offers as
//     [{offer_id,title,type,company_id,score}].
//   - GET /candidates/{candidateID}/recommendations/{offerID}: score breakdown.
//   - GET /offers?criterion=&q=: open offers, optionally searched by title, type,
//     company, domain or all.
//   - GET /offers/{offerID}, GET /offers/{offerID}/applicants, GET /stats.
//   - POST /companies/{companyID}/offers, GET /companies/{companyID}/offers.
//   - PUT /companies/{companyID}/offers/{offerID}/expiration: body {"expires_at":"YYYY-MM-DD"}.
//   - DELETE /companies/{companyID}/offers/{offerID}: removes the offer and every
//     application to it. 403 not_owner when another company owns it.
//   - DELETE /companies/{companyID}/offers/{offerID}/applicants/{candidateID}.
//   - GET|POST|DELETE /companies/{companyID}/wishlist/{candidateID} and
//     GET /companies/{companyID}/wishlist.
//
// Errors carry {"result","message"} where result is the stable label returned by
// matching.ResultOf, plus "errors" for field validation failures.
package http
