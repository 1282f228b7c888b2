package calendar

import (
	"context"
	"testing"

	"content-planner/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_Validate(t *testing.T) {
	svc := NewService(nil, zap.NewNop())

	tests := []struct {
		name    string
		entries []*reconcile.Entry
		wantErr bool
	}{
		{"Valid", []*reconcile.Entry{{ID: "e1", Date: "2024-01-05", Platforms: []string{"Instagram"}, URL: "https://example.com/p/1"}}, false},
		{"MissingID", []*reconcile.Entry{{Date: "2024-01-05", Platforms: []string{"Instagram"}}}, true},
		{"BadDate", []*reconcile.Entry{{ID: "e1", Date: "Jan 5", Platforms: []string{"Instagram"}}}, true},
		{"NoPlatforms", []*reconcile.Entry{{ID: "e1", Date: "2024-01-05"}}, true},
		{"UnknownPlatform", []*reconcile.Entry{{ID: "e1", Date: "2024-01-05", Platforms: []string{"instagram"}}}, true},
		{"RepeatedPlatform", []*reconcile.Entry{{ID: "e1", Date: "2024-01-05", Platforms: []string{"Instagram", "Instagram"}}}, true},
		{"BadURL", []*reconcile.Entry{{ID: "e1", Date: "2024-01-05", Platforms: []string{"Instagram"}, URL: "not a url"}}, true},
		{"Null", []*reconcile.Entry{nil}, true},
		{"DuplicateID", []*reconcile.Entry{
			{ID: "e1", Date: "2024-01-05", Platforms: []string{"Instagram"}},
			{ID: "e1", Date: "2024-01-06", Platforms: []string{"Facebook"}},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Validate(tt.entries)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEntry)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_Replace(t *testing.T) {
	svc := NewService(NewStore(setupDB(t)), zap.NewNop())
	ctx := context.Background()

	err := svc.Replace(ctx, []*reconcile.Entry{
		{ID: "e1", Date: "2024-01-05", Platforms: []string{"Instagram"}},
		{ID: "", Date: "2024-01-05", Platforms: []string{"Instagram"}},
	})
	require.ErrorIs(t, err, ErrInvalidEntry)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written when one entry is invalid")

	require.NoError(t, svc.Replace(ctx, []*reconcile.Entry{{ID: "e1", Date: "2024-01-05", Platforms: []string{"Instagram"}}}))
	e, err := svc.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", e.Date)
}
