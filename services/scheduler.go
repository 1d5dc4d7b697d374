// services/scheduler.go
package services

import (
	"log"

	"github.com/robfig/cron/v3"
)

// StartScheduler runs both daily horizons at 9 AM.
func StartScheduler(ws *WishService) *cron.Cron {
	c := cron.New()

	c.AddFunc("0 9 * * *", func() {
		if summary, err := ws.ProcessToday(); err != nil {
			log.Printf("Due-today dispatch failed: %v", err)
		} else {
			log.Printf("Due-today dispatch: %d events processed", summary.Processed)
		}

		if summary, err := ws.ProcessTomorrow(); err != nil {
			log.Printf("Due-tomorrow processing failed: %v", err)
		} else {
			log.Printf("Due-tomorrow reminders: %d events processed", summary.Processed)
		}
	})

	c.Start()
	log.Println("Wish scheduler started")
	return c
}
