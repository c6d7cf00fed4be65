package models

// Item represents an individual listing from olx.com.br
type Item struct {
	ID              *string          `json:"id"`
	Title           string           `json:"title"`
	Price           *float64         `json:"price"`
	OldPrice        *float64         `json:"oldPrice"`
	DiscountPercent *int             `json:"discountPercent"`
	Location        *string          `json:"location"`
	LocationDetails *LocationDetails `json:"locationDetails"`
	PostedAt        *int64           `json:"postedAt"`
	PostedAtISO     *string          `json:"postedAtIso"`
	Thumbnail       *string          `json:"thumbnail"`
	Images          []Image          `json:"images,omitempty"`
	ImageCount      int              `json:"imageCount"`
	VideoCount      int              `json:"videoCount"`
	Permalink       *string          `json:"permalink"`
	Category        *string          `json:"category"`
	CategoryID      *string          `json:"categoryId"`
	Properties      []Property       `json:"properties,omitempty"`

	IsProfessionalSeller   bool `json:"isProfessionalSeller"`
	HasPaymentIntegration  bool `json:"hasPaymentIntegration"`
	HasDeliveryIntegration bool `json:"hasDeliveryIntegration"`
	IsFeatured             bool `json:"isFeatured"`
	HasPriceReduction      bool `json:"hasPriceReduction"`

	// Filled only by detail enrichment.
	Description *string    `json:"description"`
	Attributes  []Property `json:"attributes"`
	SellerName  *string    `json:"sellerName"`
}

// LocationDetails is the structured part of an ad location
type LocationDetails struct {
	Municipality  string `json:"municipality,omitempty"`
	RegionCode    string `json:"regionCode,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
}

// Image is one gallery picture; URLAlt usually points to the webp rendition
type Image struct {
	URL    string `json:"url"`
	URLAlt string `json:"urlAlt,omitempty"`
}

// Property is a name/value attribute pair as shown on the ad
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Key returns the dedup identity and whether the item has one.
func (i *Item) Key() (string, bool) {
	if i == nil || i.ID == nil || *i.ID == "" {
		return "", false
	}
	return *i.ID, true
}
