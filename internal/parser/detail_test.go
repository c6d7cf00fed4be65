package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itcaat/olxsearch/internal/models"
)

const testDetailURL = "https://www.olx.com.br/d/anuncio-1"

const detailPage = `<html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Product","description":"Celular novo<br>Sem uso, na <b>caixa</b>","image":["https://img.olx.com.br/1.jpg",{"url":"//img.olx.com.br/2.jpg"}]}</script>
</head><body>
<script>window.dataLayer = {"page":{"adDetail":{"sellerName":"Maria"},"adProperties":[{"name":"category","value":"Celulares"},{"name":"brand","label":"Marca","value":"Samsung"},{"name":"color","value":""}]}};</script>
</body></html>`

func TestParseDetail(t *testing.T) {
	detail, err := ParseDetail(detailPage, testDetailURL)
	require.NoError(t, err)

	require.NotNil(t, detail.Description)
	assert.Equal(t, "Celular novo\nSem uso, na caixa", *detail.Description)
	assert.Equal(t, []models.Image{
		{URL: "https://img.olx.com.br/1.jpg"},
		{URL: "https://img.olx.com.br/2.jpg"},
	}, detail.Images)
	assert.Equal(t, []models.Property{{Name: "Marca", Value: "Samsung"}}, detail.Attributes)
	require.NotNil(t, detail.SellerName)
	assert.Equal(t, "Maria", *detail.SellerName)
}

func TestParseDetail_GraphOnly(t *testing.T) {
	doc := `<script type="application/ld+json">{"@graph":[{"@type":"Organization"},{"description":"Moto revisada","image":{"contentUrl":"https://img.olx.com.br/m.jpg"}}]}</script>`

	detail, err := ParseDetail(doc, testDetailURL)
	require.NoError(t, err)
	assert.Equal(t, "Moto revisada", *detail.Description)
	assert.Equal(t, []models.Image{{URL: "https://img.olx.com.br/m.jpg"}}, detail.Images)
	assert.Nil(t, detail.SellerName)
}

func TestParseDetail_SkipsValueMentions(t *testing.T) {
	doc := `<script>dataLayer.push({"event":"view","section":"adProperties"})</script>` +
		`<script>var meta = {"adProperties": null, "page": "ad"};</script>` +
		`<script>var ad = {"adDetail":{"sellerName":"Maria"},"adProperties":[{"name":"brand","label":"Marca","value":"Samsung"}]};</script>`

	detail, err := ParseDetail(doc, testDetailURL)
	require.NoError(t, err)
	assert.Equal(t, []models.Property{{Name: "Marca", Value: "Samsung"}}, detail.Attributes)
	require.NotNil(t, detail.SellerName)
	assert.Equal(t, "Maria", *detail.SellerName)
}

func TestParseDetail_RelativeImages(t *testing.T) {
	doc := `<script type="application/ld+json">{"image":["/fotos/1.jpg"]}</script>`

	detail, err := ParseDetail(doc, "http://127.0.0.1:8080/d/anuncio-1")
	require.NoError(t, err)
	assert.Equal(t, []models.Image{{URL: "http://127.0.0.1:8080/fotos/1.jpg"}}, detail.Images)
}

func TestParseDetail_Nothing(t *testing.T) {
	_, err := ParseDetail(`<html><body>Anúncio removido</body></html>`, testDetailURL)
	assert.ErrorIs(t, err, ErrNoDetail)
}

func TestDetailApply(t *testing.T) {
	old := []models.Image{{URL: "https://img.olx.com.br/old.jpg"}}
	item := models.Item{Title: "x", Images: old}

	(&Detail{Description: ptr("desc")}).Apply(&item)
	assert.Equal(t, old, item.Images, "empty detail images keep the originals")
	assert.Equal(t, "desc", *item.Description)

	(&Detail{Images: []models.Image{{URL: "https://img.olx.com.br/new.jpg"}}}).Apply(&item)
	assert.Equal(t, "https://img.olx.com.br/new.jpg", item.Images[0].URL)
}
