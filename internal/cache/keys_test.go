package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name       string
		service    string
		objectType string
		identifier string
		params     []string
		want       string
	}{
		{
			name:       "base key without params",
			service:    "analysis",
			objectType: "distribution",
			identifier: "user1",
			want:       "studyhall:analysis:distribution:user1",
		},
		{
			name:       "key with single param",
			service:    "analysis",
			objectType: "dashboard",
			identifier: "user1",
			params:     []string{"course1"},
			want:       "studyhall:analysis:dashboard:user1:course1",
		},
		{
			name:       "key with multiple params joined by underscore",
			service:    "analysis",
			objectType: "dashboard",
			identifier: "user1",
			params:     []string{"course1", "30d"},
			want:       "studyhall:analysis:dashboard:user1:course1_30d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateCacheKey(tt.service, tt.objectType, tt.identifier, tt.params...)
			if got != tt.want {
				t.Errorf("GenerateCacheKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
