// debugload loads the pet catalog from a database and prints the bucket
// partition, for checking seed data and the rarity override sets.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mistvale/beastmaster/internal/config"
	"github.com/mistvale/beastmaster/internal/database"
	"github.com/mistvale/beastmaster/internal/gossip"
	"github.com/mistvale/beastmaster/internal/pets"
)

func main() {
	configPath := flag.String("config", "data/beastmaster.yaml", "Path to beastmaster config YAML file")
	dbPath := flag.String("db", "data/beastmaster.db", "Path to SQLite database file")
	flag.Parse()

	cfg, warnings, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	for _, warning := range warnings {
		fmt.Println("Warning:", warning)
	}

	db, err := database.OpenSQLite(*dbPath)
	if err != nil {
		fmt.Println("Error opening database:", err)
		os.Exit(1)
	}
	defer db.Close()

	store := pets.NewStore()
	if err := store.Load(db, cfg.RarePetEntries(), cfg.RareExoticPetEntries()); err != nil {
		fmt.Println("Error loading catalog:", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d pets\n\n", store.Count())
	for _, cat := range gossip.Categories {
		size := store.BucketSize(cat)
		pages := gossip.MaxPage(size, gossip.PageSize)
		fmt.Printf("%s: %d entries, %d pages\n", cat, size, pages)
		for _, info := range store.Bucket(cat) {
			fmt.Printf("  %6d  %-24s family=%d\n", info.Entry, info.Name, info.Family)
		}
	}

	if store.Empty() {
		fmt.Println("\nCatalog is empty - seed the beastmaster_tames table.")
	}
}
