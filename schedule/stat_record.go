package main

import (
	"os"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"launchcontrol/internal/models"
	dbconfig "launchcontrol/pkg/config"
)

// RecordPoolStats snapshots every staking pool into pool_stat_record.
func RecordPoolStats() error {
	var pools []models.StakePool
	if err := dbconfig.DB.Find(&pools).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, pool := range pools {
		var activePositions int64
		if err := dbconfig.DB.Model(&models.StakePosition{}).
			Where("pool = ? AND active = ?", pool.Pool, true).
			Count(&activePositions).Error; err != nil {
			log.Errorf("> Failed to count active positions for pool %s: %v", pool.Pool, err)
			continue
		}

		record := models.PoolStatRecord{
			Pool:            pool.Pool,
			APYBPS:          pool.APYBPS,
			TotalStaked:     pool.TotalStaked,
			ActivePositions: int(activePositions),
			RecordedAt:      now,
		}
		if err := dbconfig.DB.Create(&record).Error; err != nil {
			log.Errorf("> Failed to create stat record for pool %s: %v", pool.Pool, err)
			continue
		}
	}

	log.Info("> Pool stat records written")
	return nil
}

// RecordSaleStats snapshots the sale ledger into sale_stat_record.
func RecordSaleStats() error {
	var state models.LedgerState
	if err := dbconfig.DB.First(&state).Error; err != nil {
		return err
	}

	soldInPhase := "0"
	var phase models.PhaseLedger
	if err := dbconfig.DB.Where("phase = ?", state.Phase).First(&phase).Error; err == nil {
		soldInPhase = phase.Sold
	}

	var buyers int64
	if err := dbconfig.DB.Model(&models.BuyerTotal{}).Count(&buyers).Error; err != nil {
		return err
	}

	record := models.SaleStatRecord{
		Phase:       state.Phase,
		TotalSold:   state.TotalSold,
		SoldInPhase: soldInPhase,
		Buyers:      buyers,
		RecordedAt:  time.Now().UTC(),
	}
	if err := dbconfig.DB.Create(&record).Error; err != nil {
		return err
	}

	log.Info("> Sale stat record written")
	return nil
}

func main() {
	os.MkdirAll("logs", 0755)
	file, err := os.OpenFile("logs/stat_record_schedule.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(file)
	} else {
		log.Warn("Failed to open log file, logging to stdout")
	}

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetLevel(log.ErrorLevel)
	log.Info("> Starting stat record schedule...")

	dbconfig.InitDB()
	log.Info("> Database connection initialized")

	c := cron.New(cron.WithSeconds())

	// Every 15 minutes
	_, err = c.AddFunc("0 */15 * * * *", func() {
		if err := RecordPoolStats(); err != nil {
			log.Errorf("> Failed to record pool stats: %v", err)
		}
		if err := RecordSaleStats(); err != nil {
			log.Errorf("> Failed to record sale stats: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("> Failed to add cron job: %v", err)
	}

	c.Start()
	select {}
}
