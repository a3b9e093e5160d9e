package utils

import (
	"regexp"
	"testing"
)

func TestGenerateDisplayName(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+ \d{4}$`)

	for i := 0; i < 50; i++ {
		name, err := GenerateDisplayName()
		if err != nil {
			t.Fatalf("GenerateDisplayName failed: %v", err)
		}
		if !pattern.MatchString(name) {
			t.Errorf("unexpected display name %q", name)
		}
	}
}
