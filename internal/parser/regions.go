package parser

import (
	"strings"

	"github.com/itcaat/olxsearch/internal/models"
)

var regions = []models.Region{
	{Code: "AC", Name: "Acre"},
	{Code: "AL", Name: "Alagoas"},
	{Code: "AP", Name: "Amapá"},
	{Code: "AM", Name: "Amazonas"},
	{Code: "BA", Name: "Bahia"},
	{Code: "CE", Name: "Ceará"},
	{Code: "DF", Name: "Distrito Federal"},
	{Code: "ES", Name: "Espírito Santo"},
	{Code: "GO", Name: "Goiás"},
	{Code: "MA", Name: "Maranhão"},
	{Code: "MT", Name: "Mato Grosso"},
	{Code: "MS", Name: "Mato Grosso do Sul"},
	{Code: "MG", Name: "Minas Gerais"},
	{Code: "PA", Name: "Pará"},
	{Code: "PB", Name: "Paraíba"},
	{Code: "PR", Name: "Paraná"},
	{Code: "PE", Name: "Pernambuco"},
	{Code: "PI", Name: "Piauí"},
	{Code: "RJ", Name: "Rio de Janeiro"},
	{Code: "RN", Name: "Rio Grande do Norte"},
	{Code: "RS", Name: "Rio Grande do Sul"},
	{Code: "RO", Name: "Rondônia"},
	{Code: "RR", Name: "Roraima"},
	{Code: "SC", Name: "Santa Catarina"},
	{Code: "SP", Name: "São Paulo"},
	{Code: "SE", Name: "Sergipe"},
	{Code: "TO", Name: "Tocantins"},
}

// GetRegions returns the 26 states and the federal district.
func GetRegions() []models.Region {
	out := make([]models.Region, len(regions))
	copy(out, regions)
	return out
}

// LookupRegion resolves a two-letter code, case-insensitively.
func LookupRegion(code string) (models.Region, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, r := range regions {
		if r.Code == code {
			return r, true
		}
	}
	return models.Region{}, false
}

// RegionCodes lists every valid code.
func RegionCodes() []string {
	codes := make([]string, 0, len(regions))
	for _, r := range regions {
		codes = append(codes, r.Code)
	}
	return codes
}
