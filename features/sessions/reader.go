package sessions

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// ReadButtons loads a button session file back into memory.
func ReadButtons(path string) ([]ButtonEvent, error) {
	rows, err := readRows(path, len(ButtonHeader))
	if err != nil {
		return nil, err
	}

	events := make([]ButtonEvent, 0, len(rows))

	for i, row := range rows {
		press, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to parse press time: %w", i+1, err)
		}

		release, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to parse release time: %w", i+1, err)
		}

		events = append(events, ButtonEvent{
			PressTime:   press,
			ReleaseTime: release,
			Button:      row[2],
		})
	}

	return events, nil
}

// ReadSticks loads a stick session file back into memory.
func ReadSticks(path string) ([]StickEvent, error) {
	rows, err := readRows(path, len(StickHeader))
	if err != nil {
		return nil, err
	}

	events := make([]StickEvent, 0, len(rows))

	for i, row := range rows {
		values := make([]float64, len(row))

		for j, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: failed to parse value: %w", i+1, err)
			}

			values[j] = v
		}

		events = append(events, StickEvent{
			Time:   values[0],
			LeftX:  values[1],
			LeftY:  values[2],
			RightX: values[3],
			RightY: values[4],
		})
	}

	return events, nil
}

// readRows reads a session CSV and strips the header row.
func readRows(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("session file %q has no header", path)
	}

	return rows[1:], nil
}
