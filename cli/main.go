package main

import (
	"context"
	"fmt"
	"os"

	"github.com/EmidioStani/dcat-ap-no-validator-service/base"
	"github.com/EmidioStani/dcat-ap-no-validator-service/rdf"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shacl"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shapes"
)

// main runs command-line utilities for administration tasks.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("missing command argument")
		os.Exit(-1)
	}
	switch os.Args[1] {
	case "shapes":
		for _, description := range shapes.DefaultRegistry().List() {
			fmt.Printf("%s\t%s %s\t%s\n", description.ID, description.SpecificationName, description.SpecificationVersion, description.URL)
		}
	case "validate":
		if len(os.Args) < 3 {
			fmt.Println("missing file argument")
			os.Exit(-1)
		}
		version := base.DefaultShapesVersion
		if len(os.Args) > 3 {
			version = os.Args[3]
		}
		if err := validate(os.Args[2], version); err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
	default:
		fmt.Println("unknown command", os.Args[1])
		os.Exit(-1)
	}
}

// validate checks one local file against a shapes graph and prints the report.
func validate(filename, version string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	graph, err := rdf.Parse(data, rdf.DetectFormat("", filename))
	if err != nil {
		return err
	}
	loader := shapes.NewLoader(shapes.DefaultRegistry(), rdf.NewFetcher(base.FetchTimeout))
	shapesGraph, err := loader.Load(context.Background(), version)
	if err != nil {
		return err
	}
	report, err := shacl.Validate(graph, shapesGraph)
	if err != nil {
		return err
	}
	serialized, err := rdf.Serialize(report.Graph, rdf.Turtle)
	if err != nil {
		return err
	}
	os.Stdout.Write(serialized)
	if !report.Conforms {
		os.Exit(1)
	}
	return nil
}
