package main

import (
	"fmt"
	"log"

	"github.com/fuabioo/gridq/internal/dataset"
	"github.com/fuabioo/gridq/internal/grid"
)

// Writes the same account rows as xlsx, JSON and YAML so the rows
// commands can be tried against each format:
//
//	go run testdata/create_test_file.go
//	gridq rows find testdata/accounts.xlsx --id 003
//	gridq rows find testdata/accounts.json --id 3 --key Number --id-type number
func main() {
	data := []struct {
		id, name, city, tier string
	}{
		{"001", "Alice Corp", "New York", "Gold"},
		{"002", "Bob Ltd", "San Francisco", "Silver"},
		{"003", "Charlie Inc", "Seattle", "Gold"},
		{"004", "David & Sons", "Austin", "Bronze"},
		{"005", "Eve Partners", "Boston", "Gold"},
		{"006", "Frank Foods", "Chicago", "Silver"},
		{"007", "Grace Labs", "Denver", "Bronze"},
		{"008", "Henry Tools", "Portland", "Gold"},
		{"009", "Iris Media", "Miami", "Silver"},
		{"010", "Jack Freight", "Atlanta", "Bronze"},
	}

	rows := make(grid.Collection, len(data))
	for i, d := range data {
		rows[i] = grid.NormalizeRow(grid.Row{
			"Id":     d.id,
			"Number": i + 1,
			"Name":   d.name,
			"City":   d.city,
			"Tier":   d.tier,
		})
	}

	ds := dataset.New(rows)
	ds.Sheet = "Accounts"
	ds.Columns = []string{"Id", "Number", "Name", "City", "Tier"}

	for _, path := range []string{"testdata/accounts.xlsx", "testdata/accounts.json", "testdata/accounts.yaml"} {
		if err := dataset.Save(path, ds, true); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Created", path, "with", len(rows), "rows")
	}
}
