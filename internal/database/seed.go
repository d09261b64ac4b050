package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/mrlokans/openshelf/internal/entities"
)

// defaultCatalog is the built-in public domain library, seeded on first start.
// Additional books can be imported with the "seed" CLI command.
var defaultCatalog = []entities.Book{
	{Slug: "pride_and_prejudice", Title: "Pride and Prejudice", Author: "Jane Austen", Year: 1813, TotalPages: 432, Genres: []string{"Classic", "Romance", "Fiction"}},
	{Slug: "moby_dick", Title: "Moby-Dick; or, The Whale", Author: "Herman Melville", Year: 1851, TotalPages: 635, Genres: []string{"Classic", "Adventure", "Fiction"}},
	{Slug: "frankenstein", Title: "Frankenstein; or, The Modern Prometheus", Author: "Mary Wollstonecraft Shelley", Year: 1818, TotalPages: 280, Genres: []string{"Classic", "Gothic", "Horror", "Science Fiction"}},
	{Slug: "dracula", Title: "Dracula", Author: "Bram Stoker", Year: 1897, TotalPages: 418, Genres: []string{"Classic", "Gothic", "Horror"}},
	{Slug: "sherlock_holmes", Title: "The Adventures of Sherlock Holmes", Author: "Arthur Conan Doyle", Year: 1892, TotalPages: 307, Genres: []string{"Classic", "Mystery", "Fiction"}},
	{Slug: "alice_in_wonderland", Title: "Alice's Adventures in Wonderland", Author: "Lewis Carroll", Year: 1865, TotalPages: 96, Genres: []string{"Classic", "Fantasy", "Fiction"}},
	{Slug: "great_gatsby", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Year: 1925, TotalPages: 180, Genres: []string{"Classic", "Literary Fiction"}},
	{Slug: "dorian_gray", Title: "The Picture of Dorian Gray", Author: "Oscar Wilde", Year: 1890, TotalPages: 254, Genres: []string{"Classic", "Gothic", "Literary Fiction"}},
	{Slug: "tale_of_two_cities", Title: "A Tale of Two Cities", Author: "Charles Dickens", Year: 1859, TotalPages: 489, Genres: []string{"Classic", "Historical Fiction"}},
	{Slug: "jane_eyre", Title: "Jane Eyre", Author: "Charlotte Brontë", Year: 1847, TotalPages: 532, Genres: []string{"Classic", "Romance", "Gothic"}},
	{Slug: "wuthering_heights", Title: "Wuthering Heights", Author: "Emily Brontë", Year: 1847, TotalPages: 342, Genres: []string{"Classic", "Romance", "Gothic"}},
	{Slug: "crime_and_punishment", Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Year: 1866, TotalPages: 671, Genres: []string{"Classic", "Literary Fiction"}},
	{Slug: "tom_sawyer", Title: "The Adventures of Tom Sawyer", Author: "Mark Twain", Year: 1876, TotalPages: 274, Genres: []string{"Classic", "Adventure", "Fiction"}},
	{Slug: "huckleberry_finn", Title: "Adventures of Huckleberry Finn", Author: "Mark Twain", Year: 1884, TotalPages: 366, Genres: []string{"Classic", "Adventure", "Fiction"}},
	{Slug: "war_and_peace", Title: "War and Peace", Author: "Leo Tolstoy", Year: 1869, TotalPages: 1225, Genres: []string{"Classic", "Historical Fiction", "Literary Fiction"}},
	{Slug: "count_of_monte_cristo", Title: "The Count of Monte Cristo", Author: "Alexandre Dumas", Year: 1844, TotalPages: 1276, Genres: []string{"Classic", "Adventure", "Fiction"}},
	{Slug: "wizard_of_oz", Title: "The Wonderful Wizard of Oz", Author: "L. Frank Baum", Year: 1900, TotalPages: 154, Genres: []string{"Classic", "Fantasy", "Fiction"}},
	{Slug: "treasure_island", Title: "Treasure Island", Author: "Robert Louis Stevenson", Year: 1883, TotalPages: 292, Genres: []string{"Classic", "Adventure", "Fiction"}},
	{Slug: "jekyll_and_hyde", Title: "The Strange Case of Dr. Jekyll and Mr. Hyde", Author: "Robert Louis Stevenson", Year: 1886, TotalPages: 141, Genres: []string{"Classic", "Gothic", "Horror"}},
	{Slug: "little_women", Title: "Little Women", Author: "Louisa May Alcott", Year: 1868, TotalPages: 449, Genres: []string{"Classic", "Fiction"}},
}

// gutenbergIDs maps catalog slugs to their Project Gutenberg ebook numbers,
// the source of downloads and cover art for the built-in library.
var gutenbergIDs = map[string]int{
	"pride_and_prejudice":   1342,
	"moby_dick":             2701,
	"frankenstein":          84,
	"dracula":               345,
	"sherlock_holmes":       1661,
	"alice_in_wonderland":   11,
	"great_gatsby":          64317,
	"dorian_gray":           174,
	"tale_of_two_cities":    98,
	"jane_eyre":             1260,
	"wuthering_heights":     768,
	"crime_and_punishment":  2554,
	"tom_sawyer":            74,
	"huckleberry_finn":      76,
	"war_and_peace":         2600,
	"count_of_monte_cristo": 1184,
	"wizard_of_oz":          55,
	"treasure_island":       120,
	"jekyll_and_hyde":       43,
	"little_women":          514,
}

func (d *Database) seedCatalog() error {
	created := 0
	for _, book := range defaultCatalog {
		var existing entities.Book
		result := d.DB.Where("slug = ?", book.Slug).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			book.CoverPath = "/covers/" + book.Slug + ".jpg"
			book.FilePath = "/books/" + book.Slug + ".epub"
			book.FileFormat = "epub"
			book.Language = "English"
			book.License = "Public Domain"
			if id, ok := gutenbergIDs[book.Slug]; ok {
				book.SourceURL = fmt.Sprintf("https://www.gutenberg.org/ebooks/%d", id)
				book.CoverURL = fmt.Sprintf("https://www.gutenberg.org/cache/epub/%d/pg%d.cover.medium.jpg", id, id)
			}
			if err := d.DB.Create(&book).Error; err != nil {
				return err
			}
			created++
		} else if result.Error != nil {
			return result.Error
		}
	}
	if created > 0 {
		log.Printf("Seeded %d catalog books", created)
	}
	return nil
}

// ImportBooks upserts catalog entries by slug, used by the seed CLI command.
// Returns how many books were created and how many updated.
func (d *Database) ImportBooks(books []entities.Book) (created, updated int, err error) {
	for _, book := range books {
		var existing entities.Book
		result := d.DB.Where("slug = ?", book.Slug).First(&existing)
		switch {
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			if err := d.DB.Create(&book).Error; err != nil {
				return created, updated, err
			}
			created++
		case result.Error != nil:
			return created, updated, result.Error
		default:
			book.ID = existing.ID
			book.CreatedAt = existing.CreatedAt
			if err := d.DB.Save(&book).Error; err != nil {
				return created, updated, err
			}
			updated++
		}
	}
	return created, updated, nil
}
