// Command gendocs renders the API documentation bundle from the operations
// registry. Run at build time:
//
//	go run ./cmd/gendocs -operations docs/operations.yaml -out docs
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/landchain-labs/registry-gateway/internal/docs"
)

func main() {
	operationsPath := flag.String("operations", "docs/operations.yaml", "operation registry file")
	outDir := flag.String("out", "docs", "output directory")
	flag.Parse()

	if err := run(*operationsPath, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "gendocs: %v\n", err)
		os.Exit(1)
	}
}

func run(operationsPath, outDir string) error {
	fmt.Printf("loading operations from %s\n", operationsPath)
	doc, err := docs.Load(operationsPath)
	if err != nil {
		return err
	}
	fmt.Printf("loaded %d operations\n", len(doc.Operations))

	descriptor, err := docs.BuildOpenAPI(doc)
	if err != nil {
		return fmt.Errorf("build descriptor: %w", err)
	}
	if err := docs.Validate(descriptor); err != nil {
		return fmt.Errorf("validate descriptor: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	descriptorPath := filepath.Join(outDir, "openapi.json")
	if err := os.WriteFile(descriptorPath, descriptor, 0o644); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}
	fmt.Printf("wrote %s\n", descriptorPath)

	var page bytes.Buffer
	if err := docs.RenderHTML(doc, &page); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	pagePath := filepath.Join(outDir, "index.html")
	if err := os.WriteFile(pagePath, page.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	fmt.Printf("wrote %s\n", pagePath)

	fmt.Println("documentation bundle complete")
	return nil
}
