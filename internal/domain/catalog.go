package domain

// Banner is one slide of the home carousel.
type Banner struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// Product is an entry in the home best-seller list.
type Product struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
