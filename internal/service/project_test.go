package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"atelier/internal/domain"
	"atelier/internal/domain/services"
)

func TestCreateProject(t *testing.T) {
	tests := []struct {
		name    string
		req     *services.CreateProjectRequest
		wantErr error
	}{
		{"valid", &services.CreateProjectRequest{Name: "Lake House", Location: strPtr("Tahoe")}, nil},
		{"trims name", &services.CreateProjectRequest{Name: "  Loft  "}, nil},
		{"empty name", &services.CreateProjectRequest{Name: ""}, domain.ErrValidation},
		{"blank name", &services.CreateProjectRequest{Name: "   "}, domain.ErrValidation},
		{"name too long", &services.CreateProjectRequest{Name: strings.Repeat("a", 256)}, domain.ErrValidation},
		{"description too long", &services.CreateProjectRequest{Name: "x", Description: strPtr(strings.Repeat("d", 5001))}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			project, err := env.projects.CreateProject(context.Background(), tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateProject() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateProject() unexpected error: %v", err)
			}
			if project.ID == 0 || project.DisplayOrder != 1 {
				t.Errorf("project = %+v, want id set and display_order 1", project)
			}
			if project.Name != strings.TrimSpace(tt.req.Name) {
				t.Errorf("Name = %q", project.Name)
			}
		})
	}
}

func TestCreateProject_AppendsInOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	prev := 0
	for _, name := range []string{"A", "B", "C"} {
		p, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{Name: name})
		if err != nil {
			t.Fatalf("CreateProject(%s) error: %v", name, err)
		}
		if p.DisplayOrder <= prev {
			t.Errorf("%s display_order = %d, want > %d", name, p.DisplayOrder, prev)
		}
		prev = p.DisplayOrder
	}

	list, _ := env.projects.ListProjects(ctx)
	if len(list) != 3 || list[0].Name != "A" || list[2].Name != "C" {
		t.Errorf("ListProjects() = %+v", list)
	}
}

func TestUpdateProject(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	p, _ := env.projects.CreateProject(ctx, &services.CreateProjectRequest{
		Name:        "Old",
		Description: strPtr("desc"),
		Location:    strPtr("Austin"),
	})

	updated, err := env.projects.UpdateProject(ctx, p.ID, &services.UpdateProjectRequest{
		Name:        strPtr("New"),
		Description: services.OptionalText{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateProject() error: %v", err)
	}

	if updated.Name != "New" {
		t.Errorf("Name = %q, want New", updated.Name)
	}
	if updated.Description != nil {
		t.Errorf("Description = %q, want cleared", *updated.Description)
	}
	if updated.Location == nil || *updated.Location != "Austin" {
		t.Errorf("Location = %v, want unchanged", updated.Location)
	}
	if updated.DisplayOrder != p.DisplayOrder {
		t.Errorf("DisplayOrder changed by update")
	}

	if _, err := env.projects.UpdateProject(ctx, p.ID, &services.UpdateProjectRequest{Name: strPtr(" ")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank name error = %v, want ErrValidation", err)
	}
	if _, err := env.projects.UpdateProject(ctx, 999, &services.UpdateProjectRequest{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing project error = %v, want ErrNotFound", err)
	}
}

func TestDeleteProject_CascadesImages(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedImages(100, map[int64]int{1: 1, 2: 2})
	env.seedImages(200, map[int64]int{3: 1})

	if err := env.projects.DeleteProject(ctx, 100); err != nil {
		t.Fatalf("DeleteProject() error: %v", err)
	}

	if got := env.imageOrders(); len(got) != 1 {
		t.Errorf("images after delete = %v, want only image 3", got)
	}
	if err := env.projects.DeleteProject(ctx, 100); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestListProjectsWithImages(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedImages(100, map[int64]int{1: 2, 2: 1})
	env.store.mu.Lock()
	env.store.projects[300] = env.store.projects[100]
	p := env.store.projects[300]
	p.ID, p.DisplayOrder = 300, 5
	env.store.projects[300] = p
	env.store.mu.Unlock()

	projects, err := env.projects.ListProjectsWithImages(ctx)
	if err != nil {
		t.Fatalf("ListProjectsWithImages() error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}
	if imgs := projects[0].Images; len(imgs) != 2 || imgs[0].ID != 2 || imgs[1].ID != 1 {
		t.Errorf("project 100 images = %+v, want [2 1]", imgs)
	}
	if projects[1].Images == nil || len(projects[1].Images) != 0 {
		t.Errorf("project without images = %v, want empty slice", projects[1].Images)
	}

	one, err := env.projects.GetProjectWithImages(ctx, 100)
	if err != nil || len(one.Images) != 2 {
		t.Errorf("GetProjectWithImages() = %+v, %v", one, err)
	}
}

func TestMoveProject(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a, _ := env.projects.CreateProject(ctx, &services.CreateProjectRequest{Name: "A"})
	b, _ := env.projects.CreateProject(ctx, &services.CreateProjectRequest{Name: "B"})

	result, err := env.projects.MoveProject(ctx, b.ID, "backward")
	if err != nil {
		t.Fatalf("MoveProject() error: %v", err)
	}
	if result.SwappedID != a.ID {
		t.Errorf("swapped with %d, want %d", result.SwappedID, a.ID)
	}

	list, _ := env.projects.ListProjects(ctx)
	if list[0].ID != b.ID {
		t.Errorf("first project = %d, want %d", list[0].ID, b.ID)
	}
}
