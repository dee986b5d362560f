package utils

import (
	"math/rand"
	"os"
	"strings"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/utils/dotenv"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// ContainsString returns true iff the provided string slice hay contains
// string needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// RandomAlphabetString returns a random lower case string of length n.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// IsProdEnv returns true iff the current run is a production run.
func IsProdEnv() bool {
	return os.Getenv("WM_ENV") == dotenv.ProdEnv
}

// CollapseWhitespace folds any run of whitespace into a single space and
// trims the result. Normalized text keeps word boundaries intact so that
// word counts stay meaningful for scoring.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FoldForMatch lower-cases s and removes spaces and hyphens. Keyword
// matching is done over folded text so that "Wi-Fi 7" matches "wifi7".
func FoldForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}
