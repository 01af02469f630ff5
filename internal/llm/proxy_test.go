package llm

import (
	"context"
	"net/http"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := newProxyFunc("http://proxy.internal:3128", "http://secure-proxy.internal:3129", "api.internal")

	tests := []struct {
		url  string
		want string
	}{
		{"http://api.openai.com/v1/models", "http://proxy.internal:3128"},
		{"https://api.openai.com/v1/models", "http://secure-proxy.internal:3129"},
		{"https://api.internal/v1/models", ""},
	}

	for _, tt := range tests {
		req, err := http.NewRequest(http.MethodGet, tt.url, nil)
		if err != nil {
			t.Fatal(err)
		}
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("proxy(%s) failed: %v", tt.url, err)
		}
		if tt.want == "" {
			if got != nil {
				t.Errorf("Expected %s to bypass the proxy, got %s", tt.url, got)
			}
			continue
		}
		if got == nil || got.String() != tt.want {
			t.Errorf("proxy(%s) = %v, expected %s", tt.url, got, tt.want)
		}
	}
}

func TestOpenAIProvider_UsesProxy(t *testing.T) {
	// The proxy answers for an unresolvable upstream host
	proxy := chatServer(t, "Guests come when Pizza=Yes.")
	defer proxy.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:           "test-key",
		BaseURL:          "http://llm.invalid",
		Timeout:          5,
		StrictVocabulary: true,
		HTTPProxy:        proxy.URL,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	report := partyReport()
	resp, err := provider.Summarize(context.Background(), SummarizeRequest{Report: report, Vocabulary: report.Vocabulary})
	if err != nil {
		t.Fatalf("Expected request through the proxy, got %v", err)
	}
	if len(resp.CitedLiterals) != 1 || resp.CitedLiterals[0] != "Pizza=Yes" {
		t.Errorf("Unexpected cited literals: %v", resp.CitedLiterals)
	}
}
