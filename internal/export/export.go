// Package export serialises scan results into the tabular and structured
// formats consumed by the surrounding host process. The five-field record
// shape and the scan_info envelope are a fixed boundary contract.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"time"

	"github.com/D-M-dev/IP-Scanner/internal/scan"
)

// ScanInfo is the envelope describing the scan a report was taken from.
type ScanInfo struct {
	Timestamp    string `json:"timestamp"`
	NetworkRange string `json:"network_range"`
	TotalDevices int    `json:"total_devices"`
	ScanMode     string `json:"scan_mode"`
}

// Report pairs the envelope with the discovered devices in discovery order.
type Report struct {
	ScanInfo ScanInfo            `json:"scan_info"`
	Devices  []scan.DeviceRecord `json:"devices"`
}

// NewReport builds a report for the given range and mode, stamped with the
// current time.
func NewReport(networkRange, mode string, devices []scan.DeviceRecord) Report {
	return Report{
		ScanInfo: ScanInfo{
			Timestamp:    time.Now().Format(time.RFC3339),
			NetworkRange: networkRange,
			TotalDevices: len(devices),
			ScanMode:     mode,
		},
		Devices: devices,
	}
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

var csvHeader = []string{"ip", "hostname", "mac", "device_type", "scan_time"}

// WriteCSV writes a header row followed by one row per device, fields in
// the contract order.
func WriteCSV(w io.Writer, devices []scan.DeviceRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, device := range devices {
		row := []string{device.IP, device.Hostname, device.MAC, device.DeviceType, device.ScanTime}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
