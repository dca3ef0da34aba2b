// Check_results validates the metrics CSV produced by a simulation run by
// checking for duplicate player ids and summarizing per-server distribution.
//
// Usage:
//
//	go run check_results.go -csv output/logs/metrics.csv -expected 20
//
// The tool verifies:
//   - No duplicate player ids (each request dispatched exactly once)
//   - Total row count matches expected count (completeness)
//   - Per-server request distribution (round-robin fairness check)
//
// Exit codes:
//
//	0 - Verification passed
//	2 - File errors or malformed CSV
//	3 - Duplicate player ids found
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
)

func main() {
	csvPath := flag.String("csv", "output/logs/metrics.csv", "Path to CSV produced by a simulation run")
	expected := flag.Int("expected", 0, "Expected number of rows (optional)")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open csv: %v\n", err)
		os.Exit(2)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read csv: %v\n", err)
		os.Exit(2)
	}

	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "csv empty\n")
		os.Exit(2)
	}

	// header expected: player_id,server_id,start_time,end_time,processing_time
	header := rows[0]
	if len(header) < 5 {
		fmt.Fprintf(os.Stderr, "unexpected csv header: %v\n", header)
		os.Exit(2)
	}

	playersSeen := map[string]bool{}
	serverCounts := map[string]int{}

	for i := 1; i < len(rows); i++ {
		r := rows[i]
		if len(r) < 5 {
			fmt.Fprintf(os.Stderr, "malformed row %d: %v\n", i, r)
			os.Exit(2)
		}

		player := r[0]
		if playersSeen[player] {
			fmt.Printf("DUPLICATE player=%s at csv row %d\n", player, i)
		}
		playersSeen[player] = true

		server := r[1]
		serverCounts[server]++
	}

	totalRows := len(rows) - 1
	unique := len(playersSeen)
	fmt.Printf("Total rows: %d  Unique players: %d\n", totalRows, unique)

	if *expected > 0 && totalRows != *expected {
		fmt.Printf("Warning: total rows (%d) != expected (%d)\n", totalRows, *expected)
	}

	if totalRows != unique {
		fmt.Printf("ERROR: found %d duplicate players\n", totalRows-unique)
		os.Exit(3)
	}

	fmt.Println("Per-server counts:")
	for k, v := range serverCounts {
		fmt.Printf("  server %s -> %d\n", k, v)
	}

	fmt.Println("Verification passed: no duplicate players and counts sum match rows.")
}
