package organize

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names written to the output root.
const (
	LogFileName    = "organiser_log.txt"
	ReportFileName = "duplicates_summary.csv"
)

var reportHeader = []string{"Duplicate File", "Moved To", "Original Matched File", "File Hash"}

func writeLog(root string, lines []string) (string, error) {
	path := filepath.Join(root, LogFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return "", err
		}
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return path, f.Close()
}

func writeReport(root string, rows []DuplicateRow) (string, error) {
	path := filepath.Join(root, ReportFileName)
	if len(rows) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return "", err
		}
		return "", nil
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(reportHeader); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Source, row.Destination, row.Original, row.Digest.String()}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, f.Close()
}
