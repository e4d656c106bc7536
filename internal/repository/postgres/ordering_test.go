package postgres

import (
	"strings"
	"testing"

	"atelier/internal/domain/models"
)

func TestAdjacentQuery(t *testing.T) {
	tables := NewTableNames("test_")

	tests := []struct {
		name     string
		scope    models.OrderScope
		dir      models.Direction
		contains []string
		excludes []string
	}{
		{
			name:  "projects forward",
			scope: models.ScopeProjects,
			dir:   models.Forward,
			contains: []string{
				"SELECT id, display_order, NULL::BIGINT FROM test_projects",
				"WHERE (display_order, id) > ($1, $2) ORDER BY",
				"ORDER BY display_order ASC, id ASC LIMIT 1 FOR UPDATE",
			},
			excludes: []string{"$3", "DESC"},
		},
		{
			name:  "projects backward",
			scope: models.ScopeProjects,
			dir:   models.Backward,
			contains: []string{
				"WHERE (display_order, id) < ($1, $2) ORDER BY",
				"ORDER BY display_order DESC, id DESC LIMIT 1 FOR UPDATE",
			},
			excludes: []string{"$3", "ASC"},
		},
		{
			name:  "images forward stay in their project",
			scope: models.ScopeProjectImages,
			dir:   models.Forward,
			contains: []string{
				"SELECT id, display_order, project_id FROM test_project_images",
				"(display_order, id) > ($1, $2) AND project_id = $3 ORDER BY display_order ASC, id ASC",
			},
		},
		{
			name:  "images backward stay in their project",
			scope: models.ScopeProjectImages,
			dir:   models.Backward,
			contains: []string{
				"(display_order, id) < ($1, $2) AND project_id = $3 ORDER BY display_order DESC, id DESC",
			},
		},
		{
			name:     "portfolio items are unscoped",
			scope:    models.ScopePortfolioItems,
			dir:      models.Forward,
			contains: []string{"FROM test_portfolio_items WHERE (display_order, id) > ($1, $2) ORDER BY"},
			excludes: []string{"$3", "category_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := tables.orderable(tt.scope)
			if err != nil {
				t.Fatalf("orderable() error: %v", err)
			}
			query := adjacentQuery(o, tt.dir)
			for _, want := range tt.contains {
				if !strings.Contains(query, want) {
					t.Errorf("query %q\nmissing %q", query, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(query, unwanted) {
					t.Errorf("query %q\ncontains %q", query, unwanted)
				}
			}
		})
	}
}

func TestOrderable(t *testing.T) {
	tables := NewTableNames("test_")

	if _, err := tables.orderable(models.OrderScope("messages")); err == nil {
		t.Error("orderable() accepted an unknown scope")
	}

	keys := map[string]bool{}
	for _, scope := range []models.OrderScope{models.ScopeProjects, models.ScopeProjectImages, models.ScopePortfolioItems} {
		o, err := tables.orderable(scope)
		if err != nil {
			t.Fatalf("orderable(%s) error: %v", scope, err)
		}
		key := scopeLockKey(o)
		if keys[key] {
			t.Errorf("lock key %q shared between scopes", key)
		}
		keys[key] = true
	}
}
