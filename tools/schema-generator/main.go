// schema-generator writes the JSON schema of the surroundctl settings file.
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/surround/config"
	"github.com/spf13/pflag"
)

func main() {
	outputPath := pflag.StringP("output", "o", filepath.Join("schema", "definitions", "surround.schema.json"), "File to write the schema to")
	pflag.Parse()

	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}
	if err := os.WriteFile(*outputPath, append(schemaBytes, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Wrote settings schema to %s", *outputPath)
}
