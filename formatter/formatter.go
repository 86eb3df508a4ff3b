package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"sla-pipeline/models"
)

const dateLayout = "2006-01-02"

// FormatText returns the text representation of a report: the three
// aggregate tables plus any data-quality warnings.
func FormatText(report models.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Dashboard: %s\n", report.Dashboard)

	sb.WriteString("\nPERIOD SUMMARY\n")
	if len(report.Summary) == 0 {
		sb.WriteString("  no data\n")
	}
	for _, row := range report.Summary {
		fmt.Fprintf(&sb, "  %-8s: volume=%d abandoned=%d", row.Period, row.TotalVolume, row.TotalAbandoned)
		if row.TotalResolved > 0 {
			fmt.Fprintf(&sb, " resolved=%d", row.TotalResolved)
		}
		fmt.Fprintf(&sb, " avg_queue=%.1fs avg_handle=%.1fs avg_acw=%.1fs max_queue=%.1fs min_queue=%.1fs",
			row.AvgQueueS, row.AvgHandleS, row.AvgACWS, row.MaxQueueS, row.MinQueueS)
		if row.AvgServiceLvl != 0 {
			fmt.Fprintf(&sb, " avg_service_level=%.1f%%", row.AvgServiceLvl)
		}
		fmt.Fprintf(&sb, " pct_abandoned=%s", row.PctAbandoned)
		if row.PctResolved.Valid {
			fmt.Fprintf(&sb, " pct_resolved=%s", row.PctResolved)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nDAILY\n")
	for _, row := range report.Daily {
		fmt.Fprintf(&sb, "  %s %-8s: volume=%d abandoned=%d non_abandoned=%d avg_queue=%.1fs avg_handle=%.1fs avg_acw=%.1fs pct_abandoned=%s\n",
			row.Date.Format(dateLayout), row.Period, row.TotalVolume, row.TotalAbandoned,
			row.NonAbandoned, row.AvgQueueS, row.AvgHandleS, row.AvgACWS, row.PctAbandoned)
	}

	sb.WriteString("\nHOURLY\n")
	for _, row := range report.Hourly {
		fmt.Fprintf(&sb, "  %-5s %-8s: volume=%d abandoned=%d\n",
			row.Hour, row.Period, row.TotalVolume, row.TotalAbandoned)
	}

	if len(report.Anomalies) > 0 {
		sb.WriteString("\nDATA QUALITY WARNINGS\n")
		for _, a := range report.Anomalies {
			key := a.Key
			if key == "" {
				key = "-"
			}
			fmt.Fprintf(&sb, "  %s %s %s: abandoned=%d exceeds volume=%d\n",
				a.Grouping, key, a.Period, a.TotalAbandoned, a.TotalVolume)
		}
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of a report. Undefined
// percentages marshal as null, which the presentation layer must render
// as "no data", not zero.
func FormatJSON(report models.Report) string {
	jsonBytes, _ := json.MarshalIndent(report, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of a report: one flat table
// with a discriminator column, so all three aggregates land in one file.
func FormatCSV(report models.Report) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{
		"table", "period", "date", "hour",
		"total_volume", "total_abandoned", "total_resolved", "non_abandoned",
		"avg_queue_s", "avg_handle_s", "avg_acw_s", "max_queue_s", "min_queue_s",
		"avg_service_level", "pct_abandoned", "pct_resolved",
	})

	for _, row := range report.Summary {
		writer.Write([]string{
			"summary", string(row.Period), "", "",
			itoa(row.TotalVolume), itoa(row.TotalAbandoned), itoa(row.TotalResolved), itoa(row.NonAbandoned),
			ftoa(row.AvgQueueS), ftoa(row.AvgHandleS), ftoa(row.AvgACWS), ftoa(row.MaxQueueS), ftoa(row.MinQueueS),
			ftoa(row.AvgServiceLvl), row.PctAbandoned.String(), row.PctResolved.String(),
		})
	}
	for _, row := range report.Daily {
		writer.Write([]string{
			"daily", string(row.Period), row.Date.Format(dateLayout), "",
			itoa(row.TotalVolume), itoa(row.TotalAbandoned), itoa(row.TotalResolved), itoa(row.NonAbandoned),
			ftoa(row.AvgQueueS), ftoa(row.AvgHandleS), ftoa(row.AvgACWS), "", "",
			ftoa(row.AvgServiceLvl), row.PctAbandoned.String(), "",
		})
	}
	for _, row := range report.Hourly {
		writer.Write([]string{
			"hourly", string(row.Period), "", row.Hour,
			itoa(row.TotalVolume), itoa(row.TotalAbandoned), "", "",
			"", "", "", "", "", "", "", "",
		})
	}

	writer.Flush()
	return sb.String()
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
