package commands

import (
	"slices"
	"strconv"

	"github.com/teranos/annograph/score"
)

func isFormat(format string) bool {
	return slices.Contains(score.Formats, format)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
