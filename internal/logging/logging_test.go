package logging

import "testing"

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(99), "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevelOrdering(t *testing.T) {
	if !(LevelDebug < LevelInfo && LevelInfo < LevelWarn && LevelWarn < LevelError) {
		t.Error("Log levels must be ordered debug < info < warn < error")
	}
}

func TestGetLevelStable(t *testing.T) {
	// The level latches on first use; repeated calls agree.
	first := GetLevel()
	second := GetLevel()
	if first != second {
		t.Errorf("GetLevel() changed between calls: %v then %v", first, second)
	}
}
