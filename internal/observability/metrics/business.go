package metrics

import (
	"time"
)

// RecordIngestion records a document extraction attempt.
// Source is "pdf" or "url"; words is ignored unless result is "success".
func RecordIngestion(source, result string, duration time.Duration, words int) {
	DocumentsIngestedTotal.WithLabelValues(source, result).Inc()
	DocumentIngestDuration.WithLabelValues(source).Observe(duration.Seconds())
	if result == "success" {
		DocumentWords.Observe(float64(words))
	}
}

// SetUsageCount mirrors the persisted usage counter value.
func SetUsageCount(n int64) {
	UsageCount.Set(float64(n))
}

// RecordUsagePersistFailure counts a failed usage counter write.
func RecordUsagePersistFailure() {
	UsagePersistFailures.Inc()
}
