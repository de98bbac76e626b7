package service

import "bakesight-dashboard/internal/models"

// ComputeStats 按级别和已读状态统计
// critical + warning + normal == total
func ComputeStats(alerts []models.Alert) models.AlertStats {
	var stats models.AlertStats
	for _, a := range alerts {
		switch a.Type {
		case models.SeverityCritical:
			stats.Critical++
		case models.SeverityWarning:
			stats.Warning++
		default:
			stats.Normal++
		}
		if !a.IsRead {
			stats.Unread++
		}
	}
	stats.Total = len(alerts)
	return stats
}
