package edugo

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	if cfg.DailyLimit != 3 {
		t.Errorf("DailyLimit = %d, want 3", cfg.DailyLimit)
	}
	if cfg.MaxQuestions != 6 {
		t.Errorf("MaxQuestions = %d, want 6", cfg.MaxQuestions)
	}
	if cfg.CacheTTL != 72*time.Hour {
		t.Errorf("CacheTTL = %v, want 72h", cfg.CacheTTL)
	}
	want := []string{".pdf", ".docx", ".pptx"}
	if len(cfg.AllowedTypes) != len(want) {
		t.Fatalf("AllowedTypes = %v, want %v", cfg.AllowedTypes, want)
	}
	for i, ext := range want {
		if cfg.AllowedTypes[i] != ext {
			t.Errorf("AllowedTypes[%d] = %q, want %q", i, cfg.AllowedTypes[i], ext)
		}
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DAILY_LIMIT", "10")
	t.Setenv("ALLOWED_TYPES", " .pdf , .docx ,")
	t.Setenv("VERBOSE", "true")
	t.Setenv("MAX_FILE_MB", "not-a-number")

	cfg := FromEnv()

	if cfg.DailyLimit != 10 {
		t.Errorf("DailyLimit = %d, want 10", cfg.DailyLimit)
	}
	if len(cfg.AllowedTypes) != 2 || cfg.AllowedTypes[0] != ".pdf" || cfg.AllowedTypes[1] != ".docx" {
		t.Errorf("AllowedTypes = %v, want trimmed [.pdf .docx]", cfg.AllowedTypes)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
	if cfg.MaxFileMB != 5 {
		t.Errorf("MaxFileMB = %d, want default 5 on parse failure", cfg.MaxFileMB)
	}
}
