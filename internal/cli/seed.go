package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/openshelf/internal/config"
	"github.com/mrlokans/openshelf/internal/database"
	"github.com/mrlokans/openshelf/internal/entities"
)

// SeedCommand imports catalog books from a JSON file, upserting by slug.
type SeedCommand struct {
	CatalogPath  string
	DatabasePath string
	Verbose      bool
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.CatalogPath, "file", "", "Path to a JSON catalog file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import catalog books from a JSON file. Existing books are matched by\n")
		fmt.Fprintf(os.Stderr, "slug and updated in place, so re-running the command is safe.\n\n")
		fmt.Fprintf(os.Stderr, "The file holds an array of book objects:\n")
		fmt.Fprintf(os.Stderr, `  [{"slug": "dracula", "title": "Dracula", "author": "Bram Stoker", ...}]`)
		fmt.Fprintf(os.Stderr, "\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.CatalogPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *SeedCommand) Run() error {
	payload, err := os.ReadFile(cmd.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var books []entities.Book
	if err := json.Unmarshal(payload, &books); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(books) == 0 {
		return fmt.Errorf("catalog file contains no books")
	}
	for i, book := range books {
		if book.Slug == "" || book.Title == "" {
			return fmt.Errorf("book at index %d is missing a slug or title", i)
		}
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	created, updated, err := db.ImportBooks(books)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if cmd.Verbose {
		for _, book := range books {
			fmt.Printf("  %s - %s (%s)\n", book.Slug, book.Title, book.Author)
		}
	}
	fmt.Printf("Imported %d books: %d created, %d updated\n", len(books), created, updated)

	return nil
}
