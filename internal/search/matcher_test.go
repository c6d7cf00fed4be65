package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itcaat/olxsearch/internal/models"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"samsung", "s20"}, Tokenize("Samsung S20"))
	assert.Equal(t, []string{"celular", "sao", "paulo"}, Tokenize("O celular de São Paulo!"))
	assert.Equal(t, []string{"geladeira", "frost"}, Tokenize("geladeira  frost"))
	assert.Empty(t, Tokenize("de a o e"))
	assert.Empty(t, Tokenize(""))
}

func TestMatcher(t *testing.T) {
	m := NewMatcher("samsung s20")

	assert.True(t, m.Matches(&models.Item{Title: "Celular Samsung Galaxy S20"}))
	assert.False(t, m.Matches(&models.Item{Title: "iPhone 13"}))
	assert.False(t, m.Matches(&models.Item{Title: "Samsung S21"}))
}

func TestMatcher_Diacritics(t *testing.T) {
	m := NewMatcher("cafeteira eletrica")
	assert.True(t, m.Matches(&models.Item{Title: "Cafeteira Elétrica Três Corações"}))

	m = NewMatcher("máquina")
	assert.True(t, m.Matches(&models.Item{Title: "Maquina de lavar"}))
}

func TestMatcher_SearchesDescriptionAndAttributes(t *testing.T) {
	desc := "Aparelho em ótimo estado, cor preta"
	it := &models.Item{
		Title:       "Galaxy",
		Description: &desc,
		Properties:  []models.Property{{Name: "Marca", Value: "Samsung"}},
		Attributes:  []models.Property{{Name: "Modelo", Value: "S20 FE"}},
	}

	assert.True(t, NewMatcher("samsung s20 preta").Matches(it))
	assert.False(t, NewMatcher("samsung marca").Matches(it), "property names are not searched")
}

func TestMatcher_EmptyQueryMatchesAll(t *testing.T) {
	items := []models.Item{{Title: "a"}, {Title: "b"}}
	assert.Len(t, NewMatcher("  ").Filter(items), 2)
}

func TestMatcher_FilterKeepsOrder(t *testing.T) {
	items := []models.Item{
		{Title: "Bicicleta aro 29"},
		{Title: "Capacete"},
		{Title: "Bicicleta infantil"},
	}
	got := NewMatcher("bicicleta").Filter(items)
	assert.Equal(t, []models.Item{items[0], items[2]}, got)
}
