// README: Money value object used by revenue views.
package types

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Rupees wraps a whole-rupee amount; seat prices are whole rupees.
func Rupees(amount int64) Money {
	return Money{Amount: amount, Currency: "INR"}
}
