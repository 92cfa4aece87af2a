package product

// Product is a catalog entry an invoice can be created against. Price is in
// minor currency units.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
