package pulse

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/teranos/wtu/errors"
)

// getMemoryStats returns total and available memory in bytes. Replaced in
// tests.
var getMemoryStats = func() (total uint64, available uint64, err error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to get memory stats")
	}
	return v.Total, v.Available, nil
}

// calculateSafeWorkerCount recommends a worker count for the available
// memory. Each worker holds one decoded table plus its annotations; the
// indexes are shared.
func calculateSafeWorkerCount(availableGB float64) int {
	const memoryPerWorker = 0.25 // GB per in-flight table
	const memoryBuffer = 1.0     // GB reserved for the shared indexes

	if availableGB < memoryBuffer {
		return 1
	}
	recommended := int((availableGB - memoryBuffer) / memoryPerWorker)
	if recommended < 1 {
		return 1
	}
	return recommended
}

// checkMemoryPressure returns a warning when workers exceeds the
// recommended count, "" otherwise or when memory cannot be read.
func checkMemoryPressure(workers int) string {
	total, available, err := getMemoryStats()
	if err != nil {
		return ""
	}

	availableGB := float64(available) / 1024 / 1024 / 1024
	totalGB := float64(total) / 1024 / 1024 / 1024
	recommended := calculateSafeWorkerCount(availableGB)

	if workers > recommended {
		return fmt.Sprintf(
			"Worker count (%d) exceeds recommended (%d) for available memory (%.1f/%.1fGB). "+
				"Consider reducing pulse.workers.",
			workers, recommended, availableGB, totalGB)
	}
	return ""
}
