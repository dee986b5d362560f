// Package scorer maps normalized article text to a deterministic 0-1
// wireless-industry relevance score. Scoring is a pure function of the
// injected ScoringConfig and the input text, no globals and no side effects.
package scorer

import (
	"math"
	"strings"
)

// ScoringConfig carries the keyword vocabulary and thresholds. Construct it
// once (usually from DefaultScoringConfig) and pass it explicitly to every
// component that scores or gates on scores.
type ScoringConfig struct {
	// Broad domain vocabulary. A distinct match contributes to keyword
	// density.
	Vocabulary []string
	// Small high-importance subset. Each match adds a flat boost.
	ImportantTerms []string
	// An article is persisted only when its score exceeds this.
	IngestionThreshold float64
	// Digest selection uses this strictly higher bar.
	DigestThreshold float64
}

// DefaultScoringConfig returns the wireless-industry vocabulary.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Vocabulary: []string{
			"wifi", "wi-fi", "wireless", "802.11", "bluetooth", "5g", "6g", "lte",
			"cellular", "antenna", "spectrum", "frequency", "band", "router",
			"access point", "mesh", "networking", "connectivity", "broadband",
			"telecommunications", "radio", "signal", "interference", "latency",
			"bandwidth", "throughput", "iot", "internet of things", "smart home",
			"connected devices", "wireless charging", "nfc", "zigbee", "thread",
			"matter", "homekit", "alexa", "google home", "smart speaker",
			"wireless security", "wpa3", "encryption", "cybersecurity",
		},
		ImportantTerms: []string{
			"wifi", "wi-fi", "wireless", "5g", "6g", "802.11",
		},
		IngestionThreshold: 0.05,
		DigestThreshold:    0.3,
	}
}

// Score computes the relevance of text together with the matched vocabulary
// subset. Deterministic for identical input:
//
//	density = distinctMatches / wordCount
//	base    = min(density*50, 0.8)
//	boost   = min(importantMatches*0.1, 0.2)
//	score   = min(base+boost, 1.0), rounded to 3 decimals
//
// Keywords are matched case-insensitively as substrings, both against the
// raw text and against a dehyphenated copy so "Wi-Fi 7" matches "wifi".
func (c ScoringConfig) Score(text string) (float64, []string) {
	lower := strings.ToLower(text)
	dehyphenated := strings.ReplaceAll(lower, "-", "")

	matched := []string{}
	for _, keyword := range c.Vocabulary {
		if strings.Contains(lower, keyword) || strings.Contains(dehyphenated, keyword) {
			matched = append(matched, keyword)
		}
	}

	wordCount := len(strings.Fields(text))
	if wordCount == 0 {
		return 0, matched
	}

	density := float64(len(matched)) / float64(wordCount)
	base := math.Min(density*50, 0.8)

	importantMatches := 0
	for _, keyword := range c.ImportantTerms {
		if strings.Contains(lower, keyword) || strings.Contains(dehyphenated, keyword) {
			importantMatches++
		}
	}
	boost := math.Min(float64(importantMatches)*0.1, 0.2)

	score := math.Min(base+boost, 1.0)
	return math.Round(score*1000) / 1000, matched
}
