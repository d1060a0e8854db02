package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryBounds(t *testing.T) {
	tests := []struct {
		name      string
		query     ListQuery
		wantPage  int
		wantLimit int
	}{
		{"defaults", ListQuery{}, 1, DefaultPageSize},
		{"explicit values kept", ListQuery{Page: 3, Limit: 20}, 3, 20},
		{"negative page", ListQuery{Page: -2, Limit: 20}, 1, 20},
		{"zero limit", ListQuery{Page: 2}, 2, DefaultPageSize},
		{"oversized limit clamped", ListQuery{Page: 1, Limit: 500}, 1, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := tt.query.Bounds()
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
