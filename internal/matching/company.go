package matching

import "github.com/google/uuid"

// Company publishes offers and curates a wishlist of candidates. Published offers and
// the wishlist are owned by the Registry and Wishlists respectively.
type Company struct {
	ID         string
	Name       string
	Sector     string
	Address    string
	Email      string
	Phone      string
	SecretHash string
}

// NewToken returns a random identifier for companies and offers.
func NewToken() string {
	return uuid.NewString()
}
