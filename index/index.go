package index

import (
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/kosdata/tarik/core"
	"github.com/panjf2000/ants/v2"
	"github.com/tchap/go-patricia/v2/patricia"
)

// buildChunkSize is the number of records one pool task tokenizes.
const buildChunkSize = 512

// Hit is one search result: the matching record's code and its description
// with matched tokens wrapped in markers. Highlighted equals the plain
// description when nothing could be marked.
type Hit struct {
	Code        string
	Highlighted string
}

type document struct {
	code        string
	description string
	folded      string
}

// posting holds the ordinals of documents containing a token.
type posting struct {
	ords []int
}

// Index is an immutable full-text index over one dataset generation.
// Build once, search from any number of goroutines.
type Index struct {
	trie     *patricia.Trie
	docs     []document
	logger   *slog.Logger
	poolSize int
}

// Option configures index construction.
type Option func(*Index)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
	}
}

// WithPoolSize sets the tokenizer worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Index) {
		if size < 1 {
			size = 1
		}
		ix.poolSize = size
	}
}

// New builds the index over every record's description, keyed by code.
// Tokenization runs chunked on an ants pool; trie assembly is sequential so
// the index layout is deterministic.
func New(records []*core.TariffRecord, opts ...Option) (*Index, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	ix := &Index{
		trie:     patricia.NewTrie(),
		docs:     make([]document, len(records)),
		logger:   slog.Default(),
		poolSize: poolSize,
	}
	for _, opt := range opts {
		opt(ix)
	}

	tokens := make([][]string, len(records))
	tokenizeChunk := func(start, end int) {
		for i := start; i < end; i++ {
			folded := string(foldRunes([]rune(records[i].Description)))
			ix.docs[i] = document{
				code:        records[i].Code,
				description: records[i].Description,
				folded:      folded,
			}
			tokens[i] = uniqueTokens(folded)
		}
	}

	if ix.poolSize > 1 && len(records) > buildChunkSize {
		pool, err := ants.NewPool(ix.poolSize)
		if err != nil {
			return nil, err
		}
		defer pool.Release()

		var wg sync.WaitGroup
		for start := 0; start < len(records); start += buildChunkSize {
			end := min(start+buildChunkSize, len(records))
			wg.Add(1)
			task := func() {
				defer wg.Done()
				tokenizeChunk(start, end)
			}
			if err := pool.Submit(task); err != nil {
				// Pool refused the task; run it inline rather than
				// losing the chunk.
				task()
			}
		}
		wg.Wait()
	} else {
		tokenizeChunk(0, len(records))
	}

	for ord, docTokens := range tokens {
		for _, token := range docTokens {
			if item := ix.trie.Get(patricia.Prefix(token)); item != nil {
				p := item.(*posting)
				p.ords = append(p.ords, ord)
				continue
			}
			ix.trie.Insert(patricia.Prefix(token), &posting{ords: []int{ord}})
		}
	}

	ix.logger.Debug("text index built", "documents", len(ix.docs))
	return ix, nil
}

// Search returns hits for a query, at most limit of them (limit <= 0 means
// unbounded), in document (insertion) order. Terms combine with AND: a
// document must match every term. A term matches when it is a prefix of any
// description token; phrase terms match as a contiguous folded substring.
func (ix *Index) Search(query string, limit int) []Hit {
	terms := ParseQuery(query)
	if len(terms) == 0 {
		return nil
	}

	var matched map[int]struct{}
	for _, term := range terms {
		termMatches := ix.matchTerm(term)
		if matched == nil {
			matched = termMatches
		} else {
			for ord := range matched {
				if _, ok := termMatches[ord]; !ok {
					delete(matched, ord)
				}
			}
		}
		if len(matched) == 0 {
			return nil
		}
	}

	var hits []Hit
	for ord := range ix.docs {
		if _, ok := matched[ord]; !ok {
			continue
		}
		if limit > 0 && len(hits) >= limit {
			break
		}
		doc := &ix.docs[ord]
		hits = append(hits, Hit{
			Code:        doc.code,
			Highlighted: Highlight(doc.description, terms),
		})
	}
	return hits
}

func (ix *Index) matchTerm(term Term) map[int]struct{} {
	ords := make(map[int]struct{})
	if term.Phrase {
		for ord := range ix.docs {
			if strings.Contains(ix.docs[ord].folded, term.Text) {
				ords[ord] = struct{}{}
			}
		}
		return ords
	}

	err := ix.trie.VisitSubtree(patricia.Prefix(term.Text), func(_ patricia.Prefix, item patricia.Item) error {
		for _, ord := range item.(*posting).ords {
			ords[ord] = struct{}{}
		}
		return nil
	})
	if err != nil {
		ix.logger.Error("error visiting trie subtree", "term", term.Text, "err", err)
	}
	return ords
}

func uniqueTokens(folded string) []string {
	runes := []rune(folded)
	spans := tokenSpans(runes)
	seen := make(map[string]bool, len(spans))
	tokens := make([]string, 0, len(spans))
	for _, sp := range spans {
		token := string(runes[sp.start:sp.end])
		if seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	return tokens
}
