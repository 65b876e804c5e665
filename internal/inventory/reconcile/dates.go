package reconcile

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order. Day-first layouts come before ISO ones because
// the spreadsheets this engine reads are day-first.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02-01-2006",
}

// Excel day serials outside this window are treated as plain numbers.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseDate reads a date cell. ok is false when the value is blank or unparseable.
func ParseDate(raw string) (t time.Time, ok bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, true
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}
