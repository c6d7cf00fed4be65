package parser

import (
	"strings"

	"github.com/itcaat/olxsearch/internal/models"
)

var categoryIndex = indexCategories(GetCategories())

// GetCategories returns the predefined OLX category tree.
// Slugs are the URL path segments used by olx.com.br search pages.
func GetCategories() []models.Category {
	return []models.Category{
		{
			Slug: "autos-e-pecas",
			Name: "Autos e peças",
			Subcategories: []models.Category{
				{Slug: "autos-e-pecas/carros-vans-e-utilitarios", Name: "Carros, vans e utilitários"},
				{Slug: "autos-e-pecas/motos", Name: "Motos"},
				{Slug: "autos-e-pecas/caminhoes", Name: "Caminhões"},
				{Slug: "autos-e-pecas/onibus", Name: "Ônibus"},
				{Slug: "autos-e-pecas/barcos-e-aeronaves", Name: "Barcos e aeronaves"},
				{Slug: "autos-e-pecas/pecas-e-acessorios", Name: "Peças e acessórios"},
			},
		},
		{
			Slug: "imoveis",
			Name: "Imóveis",
			Subcategories: []models.Category{
				{Slug: "imoveis/venda", Name: "Venda"},
				{Slug: "imoveis/aluguel", Name: "Aluguel"},
				{Slug: "imoveis/lancamentos", Name: "Lançamentos"},
				{Slug: "imoveis/temporada", Name: "Temporada"},
				{Slug: "imoveis/terrenos", Name: "Terrenos, sítios e fazendas"},
				{Slug: "imoveis/comercio-e-industria", Name: "Comércio e indústria"},
			},
		},
		{
			Slug: "eletronicos-e-celulares",
			Name: "Eletrônicos e celulares",
			Subcategories: []models.Category{
				{Slug: "celulares", Name: "Celulares e telefonia"},
				{Slug: "informatica", Name: "Informática"},
				{Slug: "informatica/notebooks", Name: "Notebooks"},
				{Slug: "informatica/computadores-e-desktops", Name: "Computadores e desktops"},
				{Slug: "informatica/tablets-e-ipads", Name: "Tablets e iPads"},
				{Slug: "videogames", Name: "Games"},
				{Slug: "audio", Name: "Áudio"},
				{Slug: "tvs-e-video", Name: "TVs e vídeo"},
				{Slug: "cameras-e-drones", Name: "Câmeras e drones"},
			},
		},
		{
			Slug: "para-a-sua-casa",
			Name: "Para a sua casa",
			Subcategories: []models.Category{
				{Slug: "moveis", Name: "Móveis"},
				{Slug: "eletrodomesticos", Name: "Eletrodomésticos"},
				{Slug: "materiais-de-construcao-e-jardim", Name: "Materiais de construção e jardim"},
				{Slug: "utilidades-domesticas", Name: "Utilidades domésticas"},
				{Slug: "objetos-de-decoracao", Name: "Objetos de decoração"},
			},
		},
		{
			Slug: "moda-e-beleza",
			Name: "Moda e beleza",
			Subcategories: []models.Category{
				{Slug: "roupas-e-calcados", Name: "Roupas e calçados"},
				{Slug: "bolsas-malas-e-mochilas", Name: "Bolsas, malas e mochilas"},
				{Slug: "bijouteria-relogios-e-acessorios", Name: "Bijouteria, relógios e acessórios"},
				{Slug: "beleza-e-saude", Name: "Beleza e saúde"},
			},
		},
		{
			Slug: "esportes-e-lazer",
			Name: "Esportes e lazer",
			Subcategories: []models.Category{
				{Slug: "ciclismo", Name: "Ciclismo"},
				{Slug: "esportes-e-ginastica", Name: "Esportes e ginástica"},
				{Slug: "instrumentos-musicais", Name: "Instrumentos musicais"},
				{Slug: "hobbies-e-colecoes", Name: "Hobbies e coleções"},
				{Slug: "livros-e-revistas", Name: "Livros e revistas"},
			},
		},
		{
			Slug: "animais-de-estimacao",
			Name: "Animais de estimação",
			Subcategories: []models.Category{
				{Slug: "animais-de-estimacao/cachorros-e-acessorios", Name: "Cachorros e acessórios"},
				{Slug: "animais-de-estimacao/gatos-e-acessorios", Name: "Gatos e acessórios"},
				{Slug: "animais-de-estimacao/outros-animais", Name: "Outros animais"},
			},
		},
		{
			Slug: "artigos-infantis",
			Name: "Artigos infantis",
		},
		{
			Slug: "agro-e-industria",
			Name: "Agro e indústria",
			Subcategories: []models.Category{
				{Slug: "agro-e-industria/maquinas-pesadas-para-construcao", Name: "Máquinas pesadas para construção"},
				{Slug: "agro-e-industria/tratores-e-maquinas-agricolas", Name: "Tratores e máquinas agrícolas"},
			},
		},
		{
			Slug: "comercio-e-escritorio",
			Name: "Comércio e escritório",
		},
		{
			Slug: "servicos",
			Name: "Serviços",
		},
		{
			Slug: "vagas-de-emprego",
			Name: "Vagas de emprego",
		},
	}
}

// LookupCategory resolves a slug (leading/trailing slashes and case ignored).
func LookupCategory(slug string) (models.Category, bool) {
	c, ok := categoryIndex.bySlug[normalizeSlug(slug)]
	return c, ok
}

// CategorySlugs lists every valid slug in registry order.
func CategorySlugs() []string {
	out := make([]string, len(categoryIndex.slugs))
	copy(out, categoryIndex.slugs)
	return out
}

type categoryTable struct {
	bySlug map[string]models.Category
	slugs  []string
}

func indexCategories(tree []models.Category) categoryTable {
	t := categoryTable{bySlug: make(map[string]models.Category)}
	var walk func([]models.Category)
	walk = func(cats []models.Category) {
		for _, c := range cats {
			if _, dup := t.bySlug[c.Slug]; !dup {
				t.bySlug[c.Slug] = c
				t.slugs = append(t.slugs, c.Slug)
			}
			walk(c.Subcategories)
		}
	}
	walk(tree)
	return t
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(slug), "/"))
}
