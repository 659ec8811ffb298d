package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "endpoint without params",
			key: Key{
				Endpoint: "/api/3/campaigns",
			},
			want: "acx:api/3/campaigns",
		},
		{
			name: "endpoint with pagination params",
			key: Key{
				Endpoint: "/api/3/campaigns",
				QueryParams: url.Values{
					"limit":  []string{"100"},
					"offset": []string{"200"},
				},
			},
			want: "acx:api/3/campaigns:limit=100:offset=200",
		},
		{
			name: "query params sorted",
			key: Key{
				Endpoint: "/api/3/campaigns",
				QueryParams: url.Values{
					"offset":  []string{"0"},
					"include": []string{"campaignMessages"},
					"limit":   []string{"100"},
				},
			},
			want: "acx:api/3/campaigns:include=campaignMessages:limit=100:offset=0",
		},
		{
			name: "trailing slash normalized",
			key: Key{
				Endpoint: "/api/3/campaigns/",
			},
			want: "acx:api/3/campaigns",
		},
		{
			name: "empty endpoint",
			key:  Key{},
			want: "acx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("Key.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestKey_Determinism ensures same input always produces same key
func TestKey_Determinism(t *testing.T) {
	key := Key{
		Endpoint: "/api/3/campaigns",
		QueryParams: url.Values{
			"include": []string{"campaignMessages,campaignMessages.message"},
			"limit":   []string{"100"},
			"offset":  []string{"300"},
		},
	}

	// Generate key multiple times
	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		results[i] = key.String()
	}

	first := results[0]
	for i, result := range results {
		if result != first {
			t.Errorf("result[%d] = %v, want %v (not deterministic)", i, result, first)
		}
	}
}

// TestKey_DistinctPages ensures different offsets never collide.
func TestKey_DistinctPages(t *testing.T) {
	page1 := Key{
		Endpoint:    "/api/3/campaigns",
		QueryParams: url.Values{"limit": []string{"100"}, "offset": []string{"0"}},
	}
	page2 := Key{
		Endpoint:    "/api/3/campaigns",
		QueryParams: url.Values{"limit": []string{"100"}, "offset": []string{"100"}},
	}

	if page1.String() == page2.String() {
		t.Errorf("Keys for different offsets collide: %v", page1.String())
	}
}
