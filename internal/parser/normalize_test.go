package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"R$ 3.899", ptr(3899.0)},
		{"R$ 1.200,50", ptr(1200.5)},
		{"R$ 0,99", ptr(0.99)},
		{"1500", ptr(1500.0)},
		{"R$ 1.000.000", ptr(1000000.0)},
		{"", nil},
		{"Grátis", nil},
		{"R$ ,", nil},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := parsePrice(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tc.want, *got, 1e-9)
		})
	}
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 22, *discountPercent(ptr(3899.0), ptr(4999.0)))
	assert.Nil(t, discountPercent(ptr(100.0), ptr(100.0)), "no reduction")
	assert.Nil(t, discountPercent(ptr(120.0), ptr(100.0)), "price went up")
	assert.Nil(t, discountPercent(nil, ptr(100.0)))
	assert.Nil(t, discountPercent(ptr(100.0), nil))
}

func TestNormalizeListing(t *testing.T) {
	var raw RawListing
	require.NoError(t, json.Unmarshal([]byte(`{
		"listId": 1234567,
		"subject": "  Celular Samsung Galaxy S20  ",
		"price": "R$ 3.899",
		"oldPrice": "R$ 4.999",
		"location": "São Paulo, SP",
		"locationDetails": {"municipality": "São Paulo", "uf": "sp", "neighbourhood": "Pinheiros"},
		"date": 1700000000,
		"thumbnail": "//img.olx.com.br/thumbs/1.jpg",
		"images": [{"original": "https://img.olx.com.br/images/1.jpg", "originalWebp": "https://img.olx.com.br/images/1.webp"}, {}],
		"imageCount": "7",
		"url": "/d/anuncio/celular-samsung-1234567",
		"category": "Celulares",
		"listingCategoryId": 2000,
		"properties": [{"name": "cellphone_brand", "label": "Marca", "value": "Samsung"}, {"name": "condition", "value": ""}],
		"olxPay": {"enabled": true},
		"olxDelivery": false,
		"professionalAd": true
	}`), &raw))

	item := NormalizeListing(raw, "")
	require.NotNil(t, item)

	assert.Equal(t, "1234567", *item.ID)
	assert.Equal(t, "Celular Samsung Galaxy S20", item.Title)
	assert.Equal(t, 3899.0, *item.Price)
	assert.Equal(t, 4999.0, *item.OldPrice)
	assert.Equal(t, 22, *item.DiscountPercent)
	assert.True(t, item.HasPriceReduction)
	assert.Equal(t, "2023-11-14T22:13:20Z", *item.PostedAtISO)
	assert.Equal(t, int64(1700000000), *item.PostedAt)
	assert.Equal(t, "https://img.olx.com.br/thumbs/1.jpg", *item.Thumbnail)
	assert.Equal(t, "https://www.olx.com.br/d/anuncio/celular-samsung-1234567", *item.Permalink)
	assert.Equal(t, "2000", *item.CategoryID)
	assert.Equal(t, 7, item.ImageCount)
	assert.Equal(t, "SP", item.LocationDetails.RegionCode)
	assert.Equal(t, "Pinheiros", item.LocationDetails.Neighbourhood)
	require.Len(t, item.Images, 1)
	assert.Equal(t, "https://img.olx.com.br/images/1.webp", item.Images[0].URLAlt)
	require.Len(t, item.Properties, 1)
	assert.Equal(t, "Marca", item.Properties[0].Name)
	assert.True(t, item.HasPaymentIntegration)
	assert.False(t, item.HasDeliveryIntegration)
	assert.True(t, item.IsProfessionalSeller)
	assert.Nil(t, item.Description)
}

func TestNormalizeListing_TitleFallbackAndMissingFields(t *testing.T) {
	var raw RawListing
	require.NoError(t, json.Unmarshal([]byte(`{"title": "Bicicleta aro 29", "price": null, "date": "x"}`), &raw))

	item := NormalizeListing(raw, "")
	require.NotNil(t, item)
	assert.Equal(t, "Bicicleta aro 29", item.Title)
	assert.Nil(t, item.ID)
	assert.Nil(t, item.Price)
	assert.Nil(t, item.PostedAt)
	assert.Nil(t, item.LocationDetails)
	assert.False(t, item.HasPriceReduction)
}

func TestNormalizeListing_NoTitle(t *testing.T) {
	var raw RawListing
	require.NoError(t, json.Unmarshal([]byte(`{"listId": "1", "subject": "   "}`), &raw))
	assert.Nil(t, NormalizeListing(raw, ""))
}

func TestRawListing_NumericPrice(t *testing.T) {
	var raw RawListing
	require.NoError(t, json.Unmarshal([]byte(`{"subject": "x", "price": 1200.5, "oldPrice": 1500}`), &raw))

	item := NormalizeListing(raw, "")
	require.NotNil(t, item)
	assert.Equal(t, 1200.5, *item.Price)
	assert.Equal(t, 1500.0, *item.OldPrice)
	assert.Equal(t, 20, *item.DiscountPercent)
}

func TestNormalizeListing_ResolvesAgainstBase(t *testing.T) {
	var raw RawListing
	require.NoError(t, json.Unmarshal([]byte(`{
		"subject": "Sofá retrátil",
		"url": "/d/anuncio-77",
		"thumbnail": "/thumbs/77.jpg",
		"images": [{"original": "https://img.olx.com.br/77.jpg"}]
	}`), &raw))

	item := NormalizeListing(raw, "http://127.0.0.1:8080")
	require.NotNil(t, item)
	assert.Equal(t, "http://127.0.0.1:8080/d/anuncio-77", *item.Permalink)
	assert.Equal(t, "http://127.0.0.1:8080/thumbs/77.jpg", *item.Thumbnail)
	assert.Equal(t, "https://img.olx.com.br/77.jpg", item.Images[0].URL)
}

func TestRawListing_ExponentPrice(t *testing.T) {
	var raw RawListing
	require.NoError(t, json.Unmarshal([]byte(`{"subject": "x", "price": 1e3, "oldPrice": 1.25E3}`), &raw))

	item := NormalizeListing(raw, "")
	require.NotNil(t, item)
	assert.Equal(t, 1000.0, *item.Price)
	assert.Equal(t, 1250.0, *item.OldPrice)
	assert.Equal(t, 20, *item.DiscountPercent)
}

func ptr[T any](v T) *T { return &v }
