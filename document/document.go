// Package document defines the document value produced by loaders and the
// Loader contract consumed by ingestion pipelines.
package document

import (
	"context"
	"iter"

	"github.com/kbukum/gokit-soniox/provider"
)

// Document is a unit of loaded content with free-form metadata.
type Document struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata"`
}

// Loader produces documents from some source.
type Loader interface {
	// LazyLoad returns a sequence that does the work in the caller's
	// goroutine as it is ranged over. A failure is yielded as the error of
	// the only pair.
	LazyLoad(ctx context.Context) iter.Seq2[Document, error]
	// ALazyLoad starts the work in the background and returns an iterator
	// over the results. The caller must Close the iterator.
	ALazyLoad(ctx context.Context) provider.Iterator[Document]
	// Load runs to completion and returns every document.
	Load(ctx context.Context) ([]Document, error)
}

// Collect drains a lazy sequence, stopping at the first error.
func Collect(seq iter.Seq2[Document, error]) ([]Document, error) {
	var docs []Document
	for doc, err := range seq {
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
