package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func bufferLogger(buf *bytes.Buffer) zerolog.Logger {
	return zerolog.New(buf)
}

func TestWithLoggerFromContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), bufferLogger(&buf))

	logger := FromContext(ctx)
	logger.Info().Msg("through the context")
	assert.Contains(t, buf.String(), "through the context")
}

func TestFromContextWithoutLoggerIsSilent(t *testing.T) {
	logger := FromContext(context.Background())
	// Nop logger: no panic, no output destination.
	logger.Info().Msg("dropped")
	assert.Equal(t, zerolog.Nop().GetLevel(), logger.GetLevel())
}

func TestContextFieldHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	symLog := WithSymbol(logger, "NATURALGAS")
	symLog.Info().Msg("a")
	srcLog := WithSource(logger, "dhan")
	srcLog.Info().Msg("b")
	tfLog := WithTimeframe(logger, "60minute")
	tfLog.Info().Msg("c")

	out := buf.String()
	assert.Contains(t, out, `"symbol":"NATURALGAS"`)
	assert.Contains(t, out, `"source":"dhan"`)
	assert.Contains(t, out, `"timeframe":"60minute"`)
}

func TestSetDebugLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	SetDebugLevel()
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestLogEventHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	LogVerdict(logger, "NATURALGAS", "BUY", 42.5, "MEDIUM")
	LogSourceFallback(logger, "dhan", "rupeezy", assert.AnError)
	LogChain(logger, "rupeezy", 10, 2, "live")

	out := buf.String()
	assert.Contains(t, out, `"event":"verdict"`)
	assert.Contains(t, out, `"event":"source_fallback"`)
	assert.Contains(t, out, `"event":"chain"`)
	assert.Contains(t, out, `"fallback":"rupeezy"`)
	assert.Contains(t, out, `"parse_issues":2`)
}
