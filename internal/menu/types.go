package menu

// StoreFile is the local menu definition a store keeps under stores/<slug>.json.
// Item prices are decimal major-currency numbers in the file and become
// integer cents once synced.
type StoreFile struct {
	Slug        string         `json:"slug"`
	DisplayName string         `json:"displayName"`
	Categories  []FileCategory `json:"categories"`
}

type FileCategory struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Items       []FileItem `json:"items"`
}

type FileItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Image       string   `json:"image,omitempty"`
}

// Category and Item are the published menu as served to diners.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Items       []Item `json:"items"`
}

type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	PriceCents  int64    `json:"price_cents"`
	Currency    string   `json:"currency"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
