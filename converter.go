package docrag

// Converter renders an HTML fragment as Markdown. The partitioner uses it
// to keep tables readable inside chunk text.
type Converter interface {
	Convert(html string) (string, error)
}
