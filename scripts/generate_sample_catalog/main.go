package main

import (
	"compress/gzip"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"neon-studio/internal/catalog"

	"github.com/rs/zerolog"
)

// generateSampleCatalog writes the built-in catalog to disk so it can be edited
// and served with CATALOG_DIR, or uploaded to S3. With -gzip each file is also
// written compressed as <name>.gz.
func main() {
	dataDir := flag.String("dir", "data/catalog", "output directory")
	compress := flag.Bool("gzip", false, "also write gzip-compressed copies")
	flag.Parse()

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	ctx := context.Background()
	embedded := catalog.NewEmbeddedLoader()
	files := catalog.DefaultFiles()

	for _, name := range []string{files.Options, files.Templates} {
		data, err := embedded.Load(ctx, name)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", name, err)
		}

		filePath := filepath.Join(*dataDir, name)
		if err := os.WriteFile(filePath, data, 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", filePath, err)
		}
		fmt.Printf("Created %s (%d bytes)\n", filePath, len(data))

		if *compress {
			if err := writeGzip(filePath+".gz", data); err != nil {
				log.Fatalf("Failed to create %s.gz: %v", filePath, err)
			}
			fmt.Printf("Created %s.gz\n", filePath)
		}
	}

	// Load the written files back the way the server would.
	registry, err := catalog.NewRegistry(ctx, catalog.NewFileLoader(*dataDir, zerolog.Nop()), files, zerolog.Nop())
	if err != nil {
		log.Fatalf("Written catalog does not load: %v", err)
	}

	current := registry.Current()
	fmt.Printf("\nSample catalog created successfully: %d premium options, %d templates\n",
		len(current.PremiumOptions()), len(current.Templates("")))
	fmt.Println("\nCategories:")
	for _, c := range current.Categories() {
		fmt.Printf("  - %s\n", c)
	}
}

func writeGzip(filePath string, data []byte) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	if _, err := gzipWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	return gzipWriter.Close()
}
