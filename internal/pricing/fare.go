package pricing

// DefaultServiceFee is the flat per-booking surcharge in FCFA.
const DefaultServiceFee int64 = 500

// Quote breaks a booking total into its parts.
type Quote struct {
	BasePrice  int64 `json:"basePrice"`
	Seats      int   `json:"seats"`
	Subtotal   int64 `json:"subtotal"`
	ServiceFee int64 `json:"serviceFee"`
	Total      int64 `json:"total"`
}

// CalculateTotal returns basePrice x selectionSize + serviceFee.
// Negative inputs count as zero so the total is never negative.
func CalculateTotal(basePrice int64, selectionSize int, serviceFee int64) int64 {
	return NewQuote(basePrice, selectionSize, serviceFee).Total
}

func NewQuote(basePrice int64, selectionSize int, serviceFee int64) Quote {
	if basePrice < 0 {
		basePrice = 0
	}
	if selectionSize < 0 {
		selectionSize = 0
	}
	if serviceFee < 0 {
		serviceFee = 0
	}
	subtotal := basePrice * int64(selectionSize)
	return Quote{
		BasePrice:  basePrice,
		Seats:      selectionSize,
		Subtotal:   subtotal,
		ServiceFee: serviceFee,
		Total:      subtotal + serviceFee,
	}
}
