package main

import (
	"log"

	_ "dealflow/docs"
	"dealflow/internal/app"
)

// @title Dealflow Ingestion API
// @version 1.0
// @description Inbound email-webhook ingestion for the property-investment dashboard: signature-verified intake, content deduplication, bounded field extraction, and cached market-data lookups.
// @BasePath /
func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
