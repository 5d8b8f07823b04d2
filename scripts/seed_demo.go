package main

import (
	"math/big"
	"os"

	log "github.com/sirupsen/logrus"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/store"
	"launchcontrol/internal/treasury"
	dbconfig "launchcontrol/pkg/config"
)

// Seeds a fresh database for local development: the default sale and pool
// configuration, a funded reserve, and two demo accounts holding USDT.
func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	dbconfig.InitDB()

	st := store.New(dbconfig.DB)
	snap, err := st.Load()
	if err != nil {
		log.Fatalf("> Failed to load ledger state: %v", err)
	}
	if snap != nil {
		log.Info("> Ledger state already present, leaving configuration untouched")
	} else {
		ledger := engine.NewLedger(engine.Config{
			Access:     engine.StaticOwner(dbconfig.LedgerOwner()),
			TokenAsset: dbconfig.LedgerTokenAsset(),
		})
		if err := st.Save(ledger.Snapshot()); err != nil {
			log.Fatalf("> Failed to save default ledger state: %v", err)
		}
		log.Info("> Default sale and pool configuration written")
	}

	book := treasury.NewBook(dbconfig.DB)
	tokenAsset := dbconfig.LedgerTokenAsset()

	scale := big.NewInt(1_000_000_000_000_000_000)
	amount := func(n int64) *big.Int {
		return new(big.Int).Mul(big.NewInt(n), scale)
	}

	// Reserve float: the full sale supply plus reward budget.
	if err := book.Credit(engine.ReserveAccount, tokenAsset, amount(15_000_000)); err != nil {
		log.Fatalf("> Failed to fund reserve: %v", err)
	}
	log.Info("> Reserve funded")

	for _, account := range []string{"demo-alice", "demo-bob"} {
		if err := book.Credit(account, "USDT", amount(50_000)); err != nil {
			log.Fatalf("> Failed to fund %s: %v", account, err)
		}
		log.Infof("> Funded %s with 50000 USDT", account)
	}

	log.Info("> Seed complete")
	os.Exit(0)
}
