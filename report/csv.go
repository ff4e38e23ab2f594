package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

var csvHeader = []string{
	"run_id", "client_env", "test", "group", "phase", "status", "duration_secs",
	"dns_ms", "tcp_ms", "tls_ms", "srv_ms", "rest_ms", "ttfb_ms", "ttlb_ms", "message",
}

func CsvReader(summary *Summary) *bytes.Reader {
	// one row per record, header first
	csvRecords := [][]string{csvHeader}

	for _, record := range summary.Records {
		csvRecords = append(csvRecords, []string{
			summary.RunID,
			summary.ClientEnv,
			record.Test,
			record.Group,
			record.Phase,
			string(record.Status),
			fmt.Sprintf("%.3f", record.DurationSeconds),
			fmt.Sprintf("%.1f", record.Latency["dns"]),
			fmt.Sprintf("%.1f", record.Latency["tcp"]),
			fmt.Sprintf("%.1f", record.Latency["tls"]),
			fmt.Sprintf("%.1f", record.Latency["srv"]),
			fmt.Sprintf("%.1f", record.Latency["rest"]),
			fmt.Sprintf("%.1f", record.Latency["ttfb"]),
			fmt.Sprintf("%.1f", record.Latency["ttlb"]),
			record.Message,
		})
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)
	_ = w.WriteAll(csvRecords)

	return bytes.NewReader(b.Bytes())
}
