package main

import (
	"log"

	"github.com/EmidioStani/dcat-ap-no-validator-service/api"
	"github.com/EmidioStani/dcat-ap-no-validator-service/base"
	"github.com/EmidioStani/dcat-ap-no-validator-service/rdf"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shapes"
)

func main() {
	registry := shapes.DefaultRegistry()
	if len(base.ShapesCatalogFile) > 0 {
		catalog, err := shapes.LoadCatalog(base.ShapesCatalogFile)
		if err != nil {
			log.Fatal(err)
		}
		registry.Extend(catalog...)
	}

	fetcher := rdf.NewFetcher(base.FetchTimeout)
	loader := shapes.NewLoader(registry, fetcher)
	router := api.NewRouter(&api.Service{
		Registry: registry,
		Loader:   loader,
		Fetcher:  fetcher,
	})

	go func() {
		if err := startShapesSync(loader); err != nil {
			log.Fatal(err)
		}
	}()
	if err := router.Run(":" + base.HttpPort); err != nil {
		log.Fatal(err)
	}
}
