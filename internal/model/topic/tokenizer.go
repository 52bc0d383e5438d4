package topic

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jdkato/prose/v2"
)

const maxWordChars = 100

// WordPieceTokenizer encodes text for the topic model: word segmentation via
// prose, then greedy longest-match subword lookup against the bundle vocab.
type WordPieceTokenizer struct {
	vocab map[string]int64
	unkID int64
	clsID int64
	sepID int64
	padID int64
}

// LoadWordPieceTokenizer reads a BERT-style vocab.txt, one token per line,
// line number = token ID.
func LoadWordPieceTokenizer(path string) (*WordPieceTokenizer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer file.Close()

	vocab := make(map[string]int64)
	scanner := bufio.NewScanner(file)
	var id int64
	for scanner.Scan() {
		token := strings.TrimRight(scanner.Text(), "\r\n")
		if token == "" {
			continue
		}
		vocab[token] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("vocab at %s is empty", path)
	}

	t := &WordPieceTokenizer{vocab: vocab}
	t.unkID = t.specialID("[UNK]", 100)
	t.clsID = t.specialID("[CLS]", 101)
	t.sepID = t.specialID("[SEP]", 102)
	t.padID = t.specialID("[PAD]", 0)

	return t, nil
}

func (t *WordPieceTokenizer) specialID(token string, fallback int64) int64 {
	if id, ok := t.vocab[token]; ok {
		return id
	}
	return fallback
}

// Encode produces fixed-length input IDs and an attention mask, with [CLS] /
// [SEP] framing, truncation, and [PAD] fill.
func (t *WordPieceTokenizer) Encode(text string, seqLen int) ([]int64, []int64) {
	ids := make([]int64, 0, seqLen)
	ids = append(ids, t.clsID)

	for _, word := range segmentWords(text) {
		ids = append(ids, t.wordPiece(word)...)
		if len(ids) >= seqLen-1 {
			ids = ids[:seqLen-1]
			break
		}
	}
	ids = append(ids, t.sepID)

	inputIDs := make([]int64, seqLen)
	attentionMask := make([]int64, seqLen)
	for i := 0; i < seqLen; i++ {
		if i < len(ids) {
			inputIDs[i] = ids[i]
			attentionMask[i] = 1
		} else {
			inputIDs[i] = t.padID
		}
	}

	return inputIDs, attentionMask
}

// wordPiece splits one lowercased word into subword IDs by greedy
// longest-prefix matching; continuations carry the "##" prefix. Words with no
// valid decomposition become a single [UNK].
func (t *WordPieceTokenizer) wordPiece(word string) []int64 {
	if len(word) > maxWordChars {
		return []int64{t.unkID}
	}

	var pieces []int64
	runes := []rune(word)
	start := 0
	for start < len(runes) {
		end := len(runes)
		var matched int64 = -1
		for end > start {
			candidate := string(runes[start:end])
			if start > 0 {
				candidate = "##" + candidate
			}
			if id, ok := t.vocab[candidate]; ok {
				matched = id
				break
			}
			end--
		}
		if matched < 0 {
			return []int64{t.unkID}
		}
		pieces = append(pieces, matched)
		start = end
	}

	return pieces
}

// segmentWords lowercases and splits text into word tokens. prose handles
// punctuation splitting; a plain fields split covers the rare documents it
// rejects.
func segmentWords(text string) []string {
	lowered := strings.ToLower(text)

	doc, err := prose.NewDocument(lowered,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return strings.Fields(lowered)
	}

	tokens := doc.Tokens()
	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token.Text != "" {
			words = append(words, token.Text)
		}
	}
	return words
}
