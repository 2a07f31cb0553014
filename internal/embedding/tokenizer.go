package embedding

import (
	"hash/fnv"
	"strings"
)

// Tokenizer produces token IDs for BERT-style models
// (input_ids, attention_mask, token_type_ids).
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// wordTokenizer is a whitespace tokenizer with hash-bucketed token IDs.
// Deterministic, vocabulary-free; good enough for models tolerant of OOV
// tokens and for keeping the embedder deterministic either way.
type wordTokenizer struct{}

const (
	clsTokenID = 101
	sepTokenID = 102
	vocabSize  = 30000
)

// Tokenize splits text on whitespace and produces padded token IDs up to maxTokens.
func (t *wordTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = clsTokenID
	attentionMask[0] = 1

	pos := 1
	for _, word := range strings.Fields(text) {
		if pos >= maxTokens-1 {
			break
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.ToLower(word)))
		inputIDs[pos] = int64(h.Sum32() % vocabSize)
		attentionMask[pos] = 1
		pos++
	}
	if pos < maxTokens {
		inputIDs[pos] = sepTokenID
		attentionMask[pos] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}
