package fat16

import (
	"time"
)

// dosTime combines a FAT date and time stamp into a time.Time in UTC.
//
// The date holds the day of month in bits 0-4 (1-31), the month in bits 5-8
// (1-12) and the years since 1980 in bits 9-15. The time holds the seconds
// divided by two in bits 0-4, the minutes in bits 5-10 and the hours in bits 11-15.
//
// A day or month of 0 is invalid, in which case the zero time is returned so
// that time.Time.IsZero can be used. Out of range time fields are clamped to 23:59:58.
func dosTime(date, clock uint16) time.Time {
	day := int(date & 0x1F)
	month := int(date & 0x1E0 >> 5)
	year := 1980 + int(date&0xFE00>>9)

	if day == 0 || month == 0 {
		return time.Time{}
	}

	seconds := int(clock&0x1F) * 2
	minutes := int(clock & 0x7E0 >> 5)
	hours := int(clock & 0xF800 >> 11)
	if hours > 23 || minutes > 59 || seconds > 59 {
		hours, minutes, seconds = 23, 59, 58
	}

	return time.Date(year, time.Month(month), day, hours, minutes, seconds, 0, time.UTC)
}
