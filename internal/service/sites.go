package service

import (
	"fmt"

	"price-crawler/internal/models"
)

// Site is a storefront whose prices come from the GPA backend
type Site struct {
	Name  string       `json:"name"`
	Brand models.Brand `json:"brand"`
}

// Link returns the public product page on the site
func (s Site) Link(productID string) string {
	return fmt.Sprintf("https://www.%s/produto/%s", s.Name, productID)
}

var sites = []Site{
	{Name: "clubeextra.com.br", Brand: models.BrandClubeExtra},
	{Name: "paodeacucar.com", Brand: models.BrandPaoDeAcucar},
}

// Sites lists the supported storefronts
func Sites() []Site {
	out := make([]Site, len(sites))
	copy(out, sites)
	return out
}

// LookupSite finds a supported storefront by name
func LookupSite(name string) (Site, bool) {
	for _, s := range sites {
		if s.Name == name {
			return s, true
		}
	}
	return Site{}, false
}
