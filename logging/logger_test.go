package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  logrus.Level
	}{
		{name: "default", level: "", want: logrus.InfoLevel},
		{name: "debug", level: "debug", want: logrus.DebugLevel},
		{name: "upper case", level: "WARN", want: logrus.WarnLevel},
		{name: "invalid", level: "loud", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New("app", tt.level, &bytes.Buffer{})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_InvalidLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	New("app", "loud", &buf)

	assert.Contains(t, buf.String(), "Invalid log level 'loud'")
}

func TestNew_AppNamePrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := New("attestation-verifier", "info", &buf)

	logger.WithField("status", 200).Info("request")

	out := buf.String()
	assert.Contains(t, out, "[attestation-verifier] request")
	assert.Contains(t, out, "status=200")
}

func TestNew_NoAppName(t *testing.T) {
	var buf bytes.Buffer
	New("", "info", &buf).Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}
