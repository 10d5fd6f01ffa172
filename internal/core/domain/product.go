package domain

// Product is a catalog entry as served by the remote order service.
// Identity is the ID field.
type Product struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category,omitempty"`
	Images      []string `json:"images,omitempty"`
	RatingCount int      `json:"ratingCount,omitempty"`
}

// Suggestion is a lightweight product reference returned by the
// search-suggestions endpoint.
type Suggestion struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// ProductPage is one page of a paginated catalog listing.
type ProductPage struct {
	Products   []Product `json:"products"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
}
