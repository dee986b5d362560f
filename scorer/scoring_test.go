package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreIsDeterministic(t *testing.T) {
	config := DefaultScoringConfig()
	text := "Qualcomm announces new 5G modem with improved antenna design and lower latency"

	first, firstMatched := config.Score(text)
	second, secondMatched := config.Score(text)

	assert.Equal(t, first, second)
	assert.Equal(t, firstMatched, secondMatched)
}

func TestScoreStaysInRange(t *testing.T) {
	config := DefaultScoringConfig()

	inputs := []string{
		"",
		"wifi",
		"wifi wireless 5g 6g 802.11 spectrum antenna router mesh iot",
		"a completely unrelated article about cooking pasta at home",
		strings.Repeat("wireless 5g wifi ", 500),
	}

	for _, text := range inputs {
		score, _ := config.Score(text)
		assert.GreaterOrEqual(t, score, 0.0, "input: %q", text)
		assert.LessOrEqual(t, score, 1.0, "input: %q", text)
	}
}

func TestScoreEmptyTextIsZero(t *testing.T) {
	config := DefaultScoringConfig()
	score, matched := config.Score("")
	assert.Equal(t, 0.0, score)
	assert.Empty(t, matched)
}

// A wireless router launch clears the ingestion threshold and records the
// wifi keywords it matched.
func TestScoreWifiRouterLaunch(t *testing.T) {
	config := DefaultScoringConfig()
	score, matched := config.Score("New Wi-Fi 7 router launched with 6GHz support")

	require.Greater(t, score, config.IngestionThreshold)
	assert.Contains(t, matched, "wifi")
	assert.Contains(t, matched, "router")
}

func TestScoreIrrelevantTextBelowThreshold(t *testing.T) {
	config := DefaultScoringConfig()
	score, matched := config.Score(
		"The city council voted on a new park budget and local library opening hours for the " +
			"upcoming fiscal year while residents discussed road maintenance and school schedules " +
			"during an open meeting downtown with many people attending the long public session",
	)

	assert.LessOrEqual(t, score, config.IngestionThreshold)
	assert.Empty(t, matched)
}

func TestScoreBaseComponentIsCapped(t *testing.T) {
	config := DefaultScoringConfig()

	// Very short, keyword-dense text saturates both the base cap (0.8) and
	// the importance boost cap (0.2).
	score, _ := config.Score("wifi wireless 5g")
	assert.Equal(t, 1.0, score)
}

func TestScoreImportanceBoost(t *testing.T) {
	config := ScoringConfig{
		Vocabulary:     []string{"zigbee"},
		ImportantTerms: []string{"zigbee"},
	}

	// density = 1/100, base = 0.5, boost = 0.1
	text := "zigbee " + strings.Repeat("word ", 99)
	score, _ := config.Score(text)
	assert.InDelta(t, 0.6, score, 0.001)
}
