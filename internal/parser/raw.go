package parser

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawListing is one entry of pageProps.ads as served by the search page.
type RawListing struct {
	ListID          flexString    `json:"listId"`
	Subject         flexString    `json:"subject"`
	Title           flexString    `json:"title"`
	Price           priceText     `json:"price"`
	OldPrice        priceText     `json:"oldPrice"`
	Location        flexString    `json:"location"`
	LocationDetails *rawLocation  `json:"locationDetails"`
	Date            flexInt       `json:"date"`
	Thumbnail       flexString    `json:"thumbnail"`
	Images          []rawImage    `json:"images"`
	ImageCount      flexInt       `json:"imageCount"`
	VideoCount      flexInt       `json:"videoCount"`
	URL             flexString    `json:"url"`
	Category        flexString    `json:"category"`
	CategoryID      flexString    `json:"listingCategoryId"`
	Properties      []rawProperty `json:"properties"`
	ProfessionalAd  flexFlag      `json:"professionalAd"`
	OLXPay          flexFlag      `json:"olxPay"`
	OLXDelivery     flexFlag      `json:"olxDelivery"`
	IsFeatured      flexFlag      `json:"isFeatured"`
}

// RawDetail is the object found around "adProperties" on a detail page.
type RawDetail struct {
	AdProperties []rawProperty `json:"adProperties"`
	AdDetail     struct {
		SellerName flexString `json:"sellerName"`
	} `json:"adDetail"`
}

type rawLocation struct {
	Municipality  flexString `json:"municipality"`
	UF            flexString `json:"uf"`
	Neighbourhood flexString `json:"neighbourhood"`
}

type rawImage struct {
	Original     flexString `json:"original"`
	OriginalWebp flexString `json:"originalWebp"`
	Thumbnail    flexString `json:"thumbnail"`
}

type rawProperty struct {
	Name  flexString `json:"name"`
	Label flexString `json:"label"`
	Value flexString `json:"value"`
}

// flexString accepts strings and numbers; anything else decodes to "".
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*f = flexString(b)
	default:
		*f = ""
	}
	return nil
}

func (f flexString) String() string { return strings.TrimSpace(string(f)) }

// priceText keeps prices in the locale form parsePrice expects. JSON numbers
// are parsed as floats and written back with a decimal comma, so "1200.5"
// is not read as thousands and "1e3" keeps its exponent.
type priceText string

func (p *priceText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '"' || string(b) == "null" {
		var s flexString
		if err := s.UnmarshalJSON(b); err != nil {
			return err
		}
		*p = priceText(s)
		return nil
	}

	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsInf(v, 0) {
		*p = ""
		return nil
	}
	*p = priceText(strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1))
	return nil
}

// flexInt accepts numbers and numeric strings; anything else decodes to 0.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if v, err := strconv.ParseFloat(s.String(), 64); err == nil {
		*f = flexInt(v)
	} else {
		*f = 0
	}
	return nil
}

// flexFlag accepts a bool, or an object carrying "enabled"/"active".
type flexFlag bool

func (f *flexFlag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "true":
		*f = true
	case len(b) > 0 && b[0] == '{':
		var obj struct {
			Enabled bool `json:"enabled"`
			Active  bool `json:"active"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			*f = false
			return nil
		}
		*f = flexFlag(obj.Enabled || obj.Active)
	default:
		*f = false
	}
	return nil
}
