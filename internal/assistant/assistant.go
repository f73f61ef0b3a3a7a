// Package assistant answers tax questions from a closed FAQ list by TF-IDF
// similarity between the query and the known questions.
package assistant

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge_base.yaml
var defaultKB []byte

var tokenRe = regexp.MustCompile(`\w\w+`)

// Entry is one question and its canned answer.
type Entry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// KnowledgeBase is the FAQ list plus its reply policy.
type KnowledgeBase struct {
	Fallback string  `yaml:"fallback"`
	Offline  string  `yaml:"offline"`
	MinScore float64 `yaml:"min_score"`
	Entries  []Entry `yaml:"entries"`
}

// ParseKnowledgeBase decodes a YAML knowledge base.
func ParseKnowledgeBase(data []byte) (KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return kb, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if len(kb.Entries) == 0 {
		return kb, errors.New("knowledge base has no entries")
	}
	if kb.Fallback == "" || kb.Offline == "" {
		return kb, errors.New("knowledge base needs fallback and offline replies")
	}
	return kb, nil
}

// DefaultKnowledgeBase returns the built-in FAQ list.
func DefaultKnowledgeBase() KnowledgeBase {
	kb, err := ParseKnowledgeBase(defaultKB)
	if err != nil {
		panic(err)
	}
	return kb
}

// Match is the scored result of a lookup.
type Match struct {
	Question string  `json:"question,omitempty"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
	Known    bool    `json:"known"`
}

// Assistant is read-only after construction and safe for concurrent use.
type Assistant struct {
	kb        KnowledgeBase
	questions [][]string
}

func New(kb KnowledgeBase) *Assistant {
	a := &Assistant{kb: kb, questions: make([][]string, len(kb.Entries))}
	for i, e := range kb.Entries {
		a.questions[i] = tokenize(e.Question)
	}
	return a
}

// Answer returns the reply text for a query. Any internal failure yields the
// offline reply.
func (a *Assistant) Answer(query string) string {
	m, err := a.Lookup(query)
	if err != nil {
		return a.kb.Offline
	}
	return m.Answer
}

// Lookup finds the best matching question. Below the confidence floor the
// fallback reply is returned with Known unset.
func (a *Assistant) Lookup(query string) (m Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lookup failed: %v", r)
		}
	}()

	if len(a.questions) == 0 {
		return Match{}, errors.New("knowledge base is empty")
	}

	// The query is part of the corpus the weights are fitted on.
	docs := append(append([][]string{}, a.questions...), tokenize(query))
	vectors := tfidf(docs)
	q := vectors[len(vectors)-1]

	best, bestScore := 0, -1.0
	for i := range a.questions {
		if s := dot(q, vectors[i]); s > bestScore {
			best, bestScore = i, s
		}
	}

	if bestScore < a.kb.MinScore {
		return Match{Answer: a.kb.Fallback, Score: bestScore}, nil
	}
	e := a.kb.Entries[best]
	return Match{Question: e.Question, Answer: e.Answer, Score: bestScore, Known: true}, nil
}

func tokenize(s string) []string {
	return tokenRe.FindAllString(strings.ToLower(s), -1)
}

// tfidf weights each document with raw term counts times the smoothed idf
// ln((1+n)/(1+df))+1, then L2-normalises it.
func tfidf(docs [][]string) []map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range doc {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	n := float64(len(docs))
	out := make([]map[string]float64, len(docs))
	for i, doc := range docs {
		v := make(map[string]float64)
		for _, tok := range doc {
			v[tok]++
		}
		var norm float64
		for tok, tf := range v {
			w := tf * (math.Log((1+n)/(1+float64(df[tok]))) + 1)
			v[tok] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for tok := range v {
				v[tok] /= norm
			}
		}
		out[i] = v
	}
	return out
}

// dot of two unit vectors is their cosine similarity.
func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var s float64
	for tok, w := range a {
		s += w * b[tok]
	}
	return s
}
