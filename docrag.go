// Package docrag answers questions about a documentation site using
// retrieval-augmented generation. It crawls the site, partitions each page
// into structural elements, groups the elements into overlapping chunks,
// embeds the chunks and stores them in a vector index. Questions are
// embedded, matched against the index and answered by a generative model
// from the retrieved context.
//
// This package contains domain types, interfaces and the pure parts of the
// pipeline, following Ben Johnson's Standard Package Layout. Implementations
// live in subdirectories named after their primary dependency (e.g., mongodb/,
// openai/, s3/).
package docrag
