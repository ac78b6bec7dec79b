package rest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/totegamma/familyone/internal/domain"
)

var (
	backupOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "familyone_backup_operations_total",
		Help: "Backup, restore, export and import operations by status",
	}, []string{"operation", "status"})

	backupDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "familyone_backup_duration_seconds",
		Help:    "Time to build or restore a backup archive",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"operation", "status"})

	backupSizeGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "familyone_backup_size_bytes",
		Help: "Size of the most recent backup archive in bytes",
	})

	restoreItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "familyone_restore_items_total",
		Help: "Restored records by outcome",
	}, []string{"outcome"})
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func observeRestore(report domain.RestoreReport) {
	restoreItemsTotal.WithLabelValues("member_inserted").Add(float64(report.MembersInserted))
	restoreItemsTotal.WithLabelValues("member_matched").Add(float64(report.MembersMatched))
	restoreItemsTotal.WithLabelValues("relation_updated").Add(float64(report.RelationsUpdated))
	restoreItemsTotal.WithLabelValues("photo_added").Add(float64(report.PhotosAdded))
	restoreItemsTotal.WithLabelValues("photo_duplicate").Add(float64(report.PhotosSkippedDuplicates))
	restoreItemsTotal.WithLabelValues("profile_photo_set").Add(float64(report.ProfilePhotosSet))
	restoreItemsTotal.WithLabelValues("error").Add(float64(report.Errors))
}
