package provider

import "github.com/sig-0/fxquotes/storage/types"

// DefaultSources returns the built-in source pages for every region
func DefaultSources() map[types.Region][]types.Source {
	return map[types.Region][]types.Source{
		types.RegionAR: {
			"https://dolarhoy.com",
			"https://www.dolarhoy.com",
			"https://www.cronista.com/MercadosOnline/moneda.html?id=ARSB",
			"https://dolarhoy.com/cotizaciondolarblue",
		},
		types.RegionBR: {
			"https://wise.com/es/currency-converter/brl-to-usd-rate",
			"https://nubank.com.br/taxas-conversao/",
			"https://www.nomadglobal.com",
		},
	}
}
