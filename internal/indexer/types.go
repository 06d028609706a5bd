package indexer

// Chunk is one unit of markdown text produced by the chunker, annotated with
// the heading path it was extracted under.
type Chunk struct {
	Index       int
	HeadingPath string
	Text        string
}
