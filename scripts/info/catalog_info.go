package main

import (
	"fmt"
	"os"

	"bingoreloaded"
	"bingoreloaded/internal/card"
	"bingoreloaded/internal/task"
)

// Prints the task lists of a catalog and whether each can fill a card.
// Reads the embedded catalog unless a YAML path is given.
func main() {
	fmt.Println("Bingo Task Catalog")
	fmt.Println("==================")
	fmt.Println()

	data := bingoreloaded.CardsYAML
	source := "embedded static/cards.yaml"
	if len(os.Args) > 1 {
		var err error
		data, err = os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		source = os.Args[1]
	}

	catalog, err := task.NewCatalog(data)
	if err != nil {
		fmt.Printf("Error parsing catalog: %v\n", err)
		os.Exit(1)
	}

	names := catalog.CardNames()
	fmt.Printf("Found %d task lists (loaded from %s)\n\n", len(names), source)

	for _, name := range names {
		pool := catalog.Pool(name)
		fmt.Printf("- %s: %d tasks %v\n", name, len(pool), catalog.Kinds(name))
		for _, size := range []card.Size{card.Size3, card.Size5} {
			status := "ok"
			if len(pool) < size.Slots() {
				status = "too small"
			}
			fmt.Printf("    %s card: %s\n", size, status)
		}
	}
}
