package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelsAndOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(zerolog.ConsoleWriter{Out: os.Stderr})
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	require.NoError(t, SetLevel("warn"))
	Infof("hidden %d", 1)
	assert.Zero(t, buf.Len())

	Warnf("material %s excluded", "Mat_3")
	assert.Contains(t, buf.String(), "Mat_3 excluded")
	assert.Contains(t, buf.String(), `"level":"warn"`)

	Logger().Warn().Str("material", "Mat_4").Int("line", 12).Msg("no elastic block")
	assert.Contains(t, buf.String(), `"line":12`)

	require.NoError(t, SetLevel(""))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	assert.Error(t, SetLevel("loud"))
}
