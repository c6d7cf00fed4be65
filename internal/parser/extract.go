package parser

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	nextDataMarker = `<script id="__NEXT_DATA__" type="application/json">`
	scriptClose    = `</script>`
)

// PageState is the props.pageProps object of a search page.
type PageState struct {
	Ads                  []RawListing
	TotalOfAds           int
	PageSize             int
	SelectedCategoryCode string
	// Raw keeps the undecoded pageProps for raw searches.
	Raw json.RawMessage
}

type pagePropsEnvelope struct {
	Props struct {
		PageProps json.RawMessage `json:"pageProps"`
	} `json:"props"`
}

type rawPageProps struct {
	Ads                  []json.RawMessage `json:"ads"`
	TotalOfAds           flexInt           `json:"totalOfAds"`
	PageSize             flexInt           `json:"pageSize"`
	SelectedCategoryCode flexString        `json:"selectedCategoryCode"`
}

// ExtractPageState returns the embedded page state of a search page, or nil
// when the payload is missing or malformed. Ads that fail to decode are dropped
// individually.
func ExtractPageState(doc string) *PageState {
	payload, ok := nextDataPayload(doc)
	if !ok {
		return nil
	}

	var envelope pagePropsEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil
	}
	props := envelope.Props.PageProps
	if len(props) == 0 || string(props) == "null" {
		return nil
	}

	var raw rawPageProps
	if err := json.Unmarshal(props, &raw); err != nil {
		return nil
	}

	state := &PageState{
		Ads:                  make([]RawListing, 0, len(raw.Ads)),
		TotalOfAds:           int(raw.TotalOfAds),
		PageSize:             int(raw.PageSize),
		SelectedCategoryCode: string(raw.SelectedCategoryCode),
		Raw:                  props,
	}
	for _, ad := range raw.Ads {
		var listing RawListing
		if err := json.Unmarshal(ad, &listing); err != nil {
			continue
		}
		state.Ads = append(state.Ads, listing)
	}
	return state
}

// nextDataPayload returns the text of the __NEXT_DATA__ script. The exact
// marker is tried first; goquery covers documents with reordered attributes.
func nextDataPayload(doc string) (string, bool) {
	if start := strings.Index(doc, nextDataMarker); start >= 0 {
		body := doc[start+len(nextDataMarker):]
		end := strings.Index(body, scriptClose)
		if end < 0 {
			return "", false
		}
		return body[:end], true
	}

	if !strings.Contains(doc, "__NEXT_DATA__") {
		return "", false
	}
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return "", false
	}
	script := parsed.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		return "", false
	}
	return script.Text(), true
}
