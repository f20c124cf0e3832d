package dates

import "time"

// ParseInput is the stricter interactive validator used by form-entry
// surfaces. Unlike Normalize it accepts two-digit years, windowing them into
// 1800-1999 with a split at 50: years 50-99 resolve to 18xx and years 00-49 to
// 19xx, covering the birth years plausible for WWII service records. It is
// deliberately a separate function from Normalize, which requires a fully
// specified year; the core save path never calls ParseInput.
func ParseInput(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if d, err := time.ParseInLocation(ukLayout, value, time.UTC); err == nil {
		return &d, nil
	}

	d, err := time.ParseInLocation("02/01/06", value, time.UTC)
	if err != nil {
		return nil, &FormatError{Value: value}
	}

	// time.ParseInLocation windows "06" into 1969-2068; rewindow into 1800-1999
	year := d.Year() % 100
	if year >= 50 {
		year += 1800
	} else {
		year += 1900
	}
	windowed := time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	// day 29/02 may be valid in the parse century but not the windowed one
	if windowed.Month() != d.Month() || windowed.Day() != d.Day() {
		return nil, &FormatError{Value: value}
	}
	return &windowed, nil
}
