package portalclient

import "testing"

// --- テスト ---

func TestParseFragmentToken(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
		want    string
	}{
		{"token_in_fragment", "https://app.example.com/#session_id=abc123", "abc123"},
		{"token_with_other_keys", "https://app.example.com/#session_id=abc123&foo=bar", "abc123"},
		{"no_fragment", "https://app.example.com/", ""},
		{"fragment_without_token", "https://app.example.com/#section-2", ""},
		// クエリパラメータのトークンはサーバーに送信されてしまうため受け付けない
		{"token_in_query", "https://app.example.com/?session_id=abc123", ""},
		{"empty_token", "https://app.example.com/#session_id=", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFragmentToken(tt.pageURL); got != tt.want {
				t.Errorf("ParseFragmentToken(%q) = %q, want %q", tt.pageURL, got, tt.want)
			}
		})
	}
}

func TestStripFragmentToken(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
		want    string
	}{
		{"strips_token", "https://app.example.com/#session_id=abc123", "https://app.example.com/"},
		{"keeps_other_fragment_keys", "https://app.example.com/#session_id=abc123&foo=bar", "https://app.example.com/#foo=bar"},
		{"no_fragment_unchanged", "https://app.example.com/dashboard", "https://app.example.com/dashboard"},
		{"non_token_fragment_unchanged", "https://app.example.com/#section-2", "https://app.example.com/#section-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFragmentToken(tt.pageURL); got != tt.want {
				t.Errorf("StripFragmentToken(%q) = %q, want %q", tt.pageURL, got, tt.want)
			}
		})
	}
}
