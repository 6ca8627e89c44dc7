package common

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConsoleLogger_LevelAndSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewConsoleLogger(&buf, "warn"))
	t.Cleanup(func() { SetLogger(nil) })

	LogInfo("目錄已重新載入")
	LogWarn("驗證問題",
		zap.String("catalog_api_key", "sk-secret"),
		zap.String("recipe", "negroni"),
	)

	out := buf.String()
	if strings.Contains(out, "目錄已重新載入") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, "驗證問題") || !strings.Contains(out, "negroni") {
		t.Errorf("warn message missing: %s", out)
	}
	if strings.Contains(out, "sk-secret") {
		t.Errorf("sensitive field leaked: %s", out)
	}
}

func TestSetLogger_NilIsNop(t *testing.T) {
	SetLogger(nil)
	if Logger == nil {
		t.Fatal("Logger is nil")
	}
	LogError("ignored")
}
