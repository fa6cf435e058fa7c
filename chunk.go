package docrag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Chunking defaults.
const (
	DefaultMaxCharacters = 2048
	DefaultOverlap       = 160

	// SoftMargin is subtracted from MaxCharacters to get the length after
	// which a chunk is closed at the next element boundary.
	SoftMargin = 200
)

// chunkSeparator joins elements inside a chunk and follows the overlap prefix.
const chunkSeparator = "\n\n"

// Chunk is a contiguous run of document elements sized for embedding and retrieval.
type Chunk struct {
	// ID is "{source}_{ordinal}" with a zero-based ordinal.
	ID     string `json:"chunk_id"`
	Source string `json:"source"`
	Text   string `json:"text"`

	// Overlap is the byte length of the prefix carried over from the
	// previous chunk, separator included. Zero for the first chunk.
	Overlap int `json:"-"`
}

// Body returns the chunk text without the overlap prefix.
func (c *Chunk) Body() string {
	return c.Text[c.Overlap:]
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return Errorf(EINVALID, "chunk ID required")
	}
	if c.Source == "" {
		return Errorf(EINVALID, "chunk source required")
	}
	if c.Text == "" {
		return Errorf(EINVALID, "chunk %q text required", c.ID)
	}
	return nil
}

// ChunkOptions configures ChunkElements. Lengths are counted in characters.
type ChunkOptions struct {
	MaxCharacters int
	Overlap       int
}

// DefaultChunkOptions returns the options used for documentation pages.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{
		MaxCharacters: DefaultMaxCharacters,
		Overlap:       DefaultOverlap,
	}
}

// Validate returns an error if the options cannot produce bounded chunks.
func (o ChunkOptions) Validate() error {
	if o.MaxCharacters <= 0 {
		return Errorf(EINVALID, "max characters must be positive, got %d", o.MaxCharacters)
	}
	if o.Overlap < 0 {
		return Errorf(EINVALID, "overlap must not be negative, got %d", o.Overlap)
	}
	if o.Overlap >= o.MaxCharacters {
		return Errorf(EINVALID, "overlap (%d) must be less than max characters (%d)", o.Overlap, o.MaxCharacters)
	}
	return nil
}

// softLimit returns the running length after which the current chunk is
// closed. Disabled when the margin does not fit inside MaxCharacters.
func (o ChunkOptions) softLimit() int {
	if soft := o.MaxCharacters - SoftMargin; soft > 0 {
		return soft
	}
	return o.MaxCharacters
}

// ChunkElements groups elements into chunks in document order.
//
// A chunk is closed before an element when the element is a title, when
// adding it would exceed MaxCharacters, or when the chunk already passed
// the soft limit. The first element of a chunk is always accepted, so an
// oversized element becomes a chunk of its own and is never split.
// Every chunk after the first starts with up to Overlap trailing
// characters of the previous chunk's body. The prefix is shortened, or
// dropped, so that it never pushes a chunk past MaxCharacters.
// Whitespace-only elements are skipped.
func ChunkElements(source string, elements []Element, opts ChunkOptions) ([]*Chunk, error) {
	if source == "" {
		return nil, Errorf(EINVALID, "chunk source required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := &chunkBuilder{source: source, opts: opts, soft: opts.softLimit()}
	for _, el := range elements {
		if strings.TrimSpace(el.Text) == "" {
			continue
		}
		if b.shouldClose(el) {
			b.close()
		}
		b.add(el.Text)
	}
	b.close()

	return b.chunks, nil
}

// chunkBuilder accumulates elements into the current chunk.
type chunkBuilder struct {
	source string
	opts   ChunkOptions
	soft   int

	chunks []*Chunk
	tail   string // overlap candidate taken from the previous body
	prefix string
	parts  []string
	length int // characters in prefix plus joined parts
}

func (b *chunkBuilder) shouldClose(el Element) bool {
	if len(b.parts) == 0 {
		return false
	}
	switch el.Role {
	case RoleTitle:
		return true
	case RoleNarrativeText, RoleListItem, RoleTable, RoleCode, RoleText:
	}
	if b.length+utf8.RuneCountInString(chunkSeparator)+utf8.RuneCountInString(el.Text) > b.opts.MaxCharacters {
		return true
	}
	return b.length > b.soft
}

func (b *chunkBuilder) add(text string) {
	n := utf8.RuneCountInString(text)
	if len(b.parts) == 0 {
		b.open(n)
	} else {
		b.length += utf8.RuneCountInString(chunkSeparator)
	}
	b.parts = append(b.parts, text)
	b.length += n
}

// open starts a chunk whose first element is n characters long, keeping
// as much of the overlap tail as fits next to it.
func (b *chunkBuilder) open(n int) {
	b.prefix = ""
	if b.tail != "" {
		budget := b.opts.MaxCharacters - n - utf8.RuneCountInString(chunkSeparator)
		if tail := lastRunes(b.tail, budget); tail != "" {
			b.prefix = tail + chunkSeparator
		}
	}
	b.length = utf8.RuneCountInString(b.prefix)
}

func (b *chunkBuilder) close() {
	if len(b.parts) == 0 {
		return
	}
	body := strings.Join(b.parts, chunkSeparator)
	b.chunks = append(b.chunks, &Chunk{
		ID:      fmt.Sprintf("%s_%d", b.source, len(b.chunks)),
		Source:  b.source,
		Text:    b.prefix + body,
		Overlap: len(b.prefix),
	})

	b.tail = lastRunes(body, b.opts.Overlap)
	b.prefix = ""
	b.parts = nil
	b.length = 0
}

// lastRunes returns the trailing n characters of s, or s if it is shorter.
func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := len(s)
	for ; n > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}
