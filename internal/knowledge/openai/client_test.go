package openai

import (
	"testing"
	"time"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini", time.Second); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewClient("sk-test", "", time.Second); err == nil {
		t.Fatalf("expected error for missing model")
	}
	c, err := NewClient("sk-test", "gpt-4o-mini", 0)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.httpClient.Timeout <= 0 {
		t.Fatalf("expected a bounded default timeout, got %v", c.httpClient.Timeout)
	}
}
