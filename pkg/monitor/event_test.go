package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		operation string
		want      Kind
	}{
		{"GET", KindRead},
		{"hgetall", KindRead},
		{"XRevRange", KindRead},
		{"GEOPOS", KindRead},
		{"SET", KindWrite},
		{"zadd", KindWrite},
		{"GEOADD", KindWrite},
		{"expire", KindWrite},
		{"PIPELINE", KindOther},
		{"FT.SEARCH", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.operation))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))
	assert.Equal(t, "abc", truncate("abc", 0))
}
