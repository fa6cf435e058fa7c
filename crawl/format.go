package crawl

import "fmt"

// FormatBytes renders a byte count with a binary unit: "512 B", "1.5 KB", "2.0 MB".
func FormatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// Summary is a one-line description of a crawl result for terminal output.
func Summary(r *Result) string {
	if r.Status != StatusCompleted {
		return fmt.Sprintf("crawl %s: %s %s", r.ID, r.Status, r.Error)
	}
	s := fmt.Sprintf("crawl %s: %d files uploaded to %s (%s)", r.ID, r.UploadedFiles, r.URI, FormatBytes(r.TotalBytes))
	if r.FailedFiles > 0 {
		s += fmt.Sprintf(", %d failed", r.FailedFiles)
	}
	return s
}
