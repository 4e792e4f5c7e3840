package database

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"namegen-api/internal/shared"

	"github.com/stretchr/testify/assert"
)

func testRecords() []shared.GenerationRecord {
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	return []shared.GenerationRecord{
		{RequestID: "req_1", Provider: "gemini", Prompt: "sea", Identifier: "Tide", Outcome: "success", Duration: 300 * time.Millisecond, CreatedAt: at},
		{RequestID: "req_2", Provider: "gemini", Prompt: "sky", Identifier: "Nimbus", Outcome: "success", Duration: 700 * time.Millisecond, CreatedAt: at},
		{RequestID: "req_3", Provider: "gemini", Prompt: "x", Outcome: "empty_result", Duration: 100 * time.Millisecond, CreatedAt: at},
	}
}

func TestBuildGenerationInsert(t *testing.T) {
	query, vals := buildGenerationInsert(testRecords())
	assert.Equal(t, 3, strings.Count(query, "(?, ?, ?, ?, ?, ?, ?, ?)"))
	assert.Len(t, vals, 24)
	assert.Equal(t, "req_1", vals[0])
	assert.Equal(t, int64(300), vals[6])
}

func TestBuildDailyStatsUpsert(t *testing.T) {
	query, vals := buildDailyStatsUpsert(testRecords())
	assert.Equal(t, 2, strings.Count(query, "(?, ?, ?, ?, ?)"))
	assert.Contains(t, query, "ON DUPLICATE KEY UPDATE")
	assert.Equal(t, []any{
		"2026-10-19", "gemini", "success", uint64(2), int64(1000),
		"2026-10-19", "gemini", "empty_result", uint64(1), int64(100),
	}, vals)
}

func TestBuildGenerationInsertBoundsColumns(t *testing.T) {
	records := testRecords()[:1]
	records[0].Identifier = strings.Repeat("Nova-Star-", 40)
	records[0].Prompt = strings.Repeat("é", shared.MaxStoredPromptLen)

	_, vals := buildGenerationInsert(records)
	identifier := vals[4].(string)
	prompt := vals[3].(string)
	assert.Len(t, identifier, shared.MaxStoredIdentifierLen)
	assert.True(t, strings.HasPrefix(records[0].Identifier, identifier))
	assert.LessOrEqual(t, len(prompt), shared.MaxStoredPromptLen)
	assert.True(t, utf8.ValidString(prompt))
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "abc", truncateUTF8("abc", 5))
	assert.Equal(t, "ab", truncateUTF8("abc", 2))
	assert.Equal(t, "a", truncateUTF8("aé", 2))
	assert.Equal(t, "", truncateUTF8("é", 1))
}
