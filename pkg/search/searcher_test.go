package search

import (
	"context"
	"errors"
	"testing"

	"github.com/akshata29/corporateactions-sub000/pkg/llm"
)

type fakeEmbedder struct {
	vector []float64
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return f.vector, f.err
}

type fakeIndex struct {
	docs []Document
	err  error
}

func (f *fakeIndex) VectorSearch(ctx context.Context, vector []float64, k int) ([]Document, error) {
	return f.docs, f.err
}

func (f *fakeIndex) Upsert(ctx context.Context, docs []IndexDocument) error { return f.err }
func (f *fakeIndex) Ping(ctx context.Context) error                         { return f.err }

func TestEmbedQuery_ProviderFailure(t *testing.T) {
	s := NewSearcher(&fakeEmbedder{err: errors.New("provider down")}, &fakeIndex{})

	vector := s.EmbedQuery(context.Background(), "dividends")

	if len(vector) != llm.EmbeddingDimensions {
		t.Fatalf("vector length = %d, want %d", len(vector), llm.EmbeddingDimensions)
	}
	for i, v := range vector {
		if v != 0 {
			t.Fatalf("vector[%d] = %v, want 0", i, v)
		}
	}
}

func TestEmbedQuery_NilEmbedder(t *testing.T) {
	s := NewSearcher(nil, nil)

	vector := s.EmbedQuery(context.Background(), "anything")

	if len(vector) != llm.EmbeddingDimensions {
		t.Fatalf("vector length = %d, want %d", len(vector), llm.EmbeddingDimensions)
	}
}

func TestSearch_IndexFailureFallsBackToSamples(t *testing.T) {
	s := NewSearcher(&fakeEmbedder{vector: make([]float64, llm.EmbeddingDimensions)},
		&fakeIndex{err: errors.New("index down")})

	for _, k := range []int{1, 2, 3, 5} {
		docs := s.Search(context.Background(), "mergers", k)

		want := SampleDocuments()
		if k < len(want) {
			want = want[:k]
		}

		if len(docs) != len(want) {
			t.Fatalf("k=%d: got %d docs, want %d", k, len(docs), len(want))
		}
		for i := range docs {
			if docs[i].EventID != want[i].EventID {
				t.Errorf("k=%d: docs[%d].EventID = %s, want %s", k, i, docs[i].EventID, want[i].EventID)
			}
			if docs[i].DataSource != SampleDataSource {
				t.Errorf("k=%d: docs[%d].DataSource = %s, want %s", k, i, docs[i].DataSource, SampleDataSource)
			}
		}
	}
}

func TestSearch_PreservesProviderOrder(t *testing.T) {
	idx := &fakeIndex{docs: []Document{
		{EventID: "CA-2", Score: 0.4},
		{EventID: "CA-1", Score: 0.9},
	}}
	s := NewSearcher(&fakeEmbedder{vector: make([]float64, llm.EmbeddingDimensions)}, idx)

	docs := s.Search(context.Background(), "splits", 5)

	if docs[0].EventID != "CA-2" || docs[1].EventID != "CA-1" {
		t.Errorf("result order changed: got %s, %s", docs[0].EventID, docs[1].EventID)
	}
}

func TestSearch_DefaultK(t *testing.T) {
	s := NewSearcher(nil, nil)

	docs := s.Search(context.Background(), "anything", 0)

	if len(docs) != len(SampleDocuments()) {
		t.Fatalf("got %d docs, want full sample set", len(docs))
	}
}
