package main

import (
	"flag"
	"log"

	"launchcontrol/pkg/config"
)

func main() {
	rollback := flag.Bool("rollback", false, "roll back the most recent migration instead of migrating up")
	flag.Parse()

	config.InitDB()

	if *rollback {
		config.RollbackMigration()
		return
	}
	config.ExecuteMigrations()
	log.Println("Done")
}
