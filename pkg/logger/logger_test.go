package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput(Config{Level: "debug", Format: "json"}, &buf)
	t.Cleanup(func() { InitWithOutput(Config{}, &bytes.Buffer{}) })

	ctx := WithFields(context.Background(), logrus.Fields{"slot": "courses"})
	Logger(ctx).WithField("id", "c1").Debug("course added")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "courses", line["slot"])
	assert.Equal(t, "c1", line["id"])
	assert.Equal(t, "debug", line["level"])
}

func TestLogger_Defaults(t *testing.T) {
	InitWithOutput(Config{Level: "nonsense"}, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())

	//nolint:staticcheck // nil context is accepted on purpose
	assert.NotNil(t, Logger(nil))
	assert.NotNil(t, Logger(context.Background()))
}
