package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"expense_tracker/internal/config"
	"expense_tracker/internal/db"
	"expense_tracker/internal/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate <up|down [n]|status>")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()
	gdb := db.Connect(cfg.DSN)

	switch os.Args[1] {
	case "up":
		applied, err := migrations.Up(gdb)
		if err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		log.Printf("✅ Applied %d migrations", applied)

	case "down":
		n := 1
		if len(os.Args) > 2 {
			parsed, err := strconv.Atoi(os.Args[2])
			if err != nil || parsed < 1 {
				usage()
			}
			n = parsed
		}
		reverted, err := migrations.Down(gdb, n)
		if err != nil {
			log.Fatalf("❌ Rollback failed: %v", err)
		}
		log.Printf("↩️ Reverted %d migrations", reverted)

	case "status":
		entries, err := migrations.Status(gdb)
		if err != nil {
			log.Fatalf("❌ Status failed: %v", err)
		}
		for _, e := range entries {
			mark := " "
			if e.Applied {
				mark = "x"
			}
			fmt.Printf("[%s] %s %s\n", mark, e.ID, e.Label)
		}

	default:
		usage()
	}
}
