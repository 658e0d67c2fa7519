package lsp

import "sync"

// DocumentStore holds open document contents and their latest analysis,
// keyed by URI.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*openDocument
}

type openDocument struct {
	content string
	result  *AnalysisResult
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*openDocument)}
}

func (s *DocumentStore) Open(uri, content string, result *AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &openDocument{content: content, result: result}
}

func (s *DocumentStore) Update(uri, content string, result *AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &openDocument{content: content, result: result}
}

func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *DocumentStore) Get(uri string) (string, *AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return "", nil, false
	}
	return doc.content, doc.result, true
}
