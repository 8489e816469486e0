package iocache

import (
	"fmt"
	"time"

	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Entry: %s\n", formatUnix(status.LastEntryTime))
		fmt.Printf("Oldest Entry: %s\n", formatUnix(status.OldestEntryTime))
	}
}

// PrintQueryLogStatus prints query-log status information.
func PrintQueryLogStatus(status schema.QueryLogStatus) {
	fmt.Printf("Query Log Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", formatUnix(status.LastRunTime))
		fmt.Printf("Total Years Read: %d\n", status.TotalYearsRead)
	}
	fmt.Println("Table Sizes:")
	for table, size := range status.TableSizes {
		fmt.Printf("  %s: %d rows\n", table, size)
	}
}

func formatUnix(sec int64) string {
	return time.Unix(sec, 0).Format("2006-01-02 15:04:05")
}
