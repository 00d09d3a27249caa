package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMainImage(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		images []CarImage
		wantID uint
		isNil  bool
	}{
		{
			name:  "no images returns nil",
			isNil: true,
		},
		{
			name: "flagged main wins over earlier upload",
			images: []CarImage{
				{ID: 1, CreatedAt: base},
				{ID: 2, CreatedAt: base.Add(time.Hour), IsMain: true},
			},
			wantID: 2,
		},
		{
			name: "no main flag falls back to earliest upload",
			images: []CarImage{
				{ID: 3, CreatedAt: base.Add(time.Hour)},
				{ID: 2, CreatedAt: base},
			},
			wantID: 2,
		},
		{
			name: "several main flags resolve to the earliest one",
			images: []CarImage{
				{ID: 1, CreatedAt: base},
				{ID: 2, CreatedAt: base.Add(time.Minute), IsMain: true},
				{ID: 3, CreatedAt: base.Add(time.Hour), IsMain: true},
			},
			wantID: 2,
		},
		{
			name: "identical timestamps break ties by id",
			images: []CarImage{
				{ID: 9, CreatedAt: base},
				{ID: 4, CreatedAt: base},
			},
			wantID: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MainImage(tt.images)
			if tt.isNil {
				assert.Nil(t, got)
				return
			}
			assert.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}
