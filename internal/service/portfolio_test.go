package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
)

func TestCategories(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	kitchens, err := env.portfolio.CreateCategory(ctx, " Kitchens ")
	if err != nil {
		t.Fatalf("CreateCategory() error: %v", err)
	}
	if kitchens.Name != "Kitchens" {
		t.Errorf("Name = %q, want trimmed", kitchens.Name)
	}

	_, err = env.portfolio.CreateCategory(ctx, "Kitchens")
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.ResourceID != kitchens.ID {
		t.Errorf("duplicate error = %v, want conflict with %d", err, kitchens.ID)
	}

	if _, err := env.portfolio.CreateCategory(ctx, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty name error = %v, want ErrValidation", err)
	}
	if _, err := env.portfolio.CreateCategory(ctx, strings.Repeat("c", 101)); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("long name error = %v, want ErrValidation", err)
	}

	env.portfolio.CreateCategory(ctx, "Baths")
	list, _ := env.portfolio.ListCategories(ctx)
	if len(list) != 2 || list[0].Name != "Baths" {
		t.Errorf("ListCategories() = %+v, want sorted by name", list)
	}
}

func TestPortfolioItems(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cat, _ := env.portfolio.CreateCategory(ctx, "Kitchens")

	a, err := env.portfolio.CreateItem(ctx, &services.CreatePortfolioItemRequest{
		Title: "White Oak", CategoryID: &cat.ID, File: jpegUpload("oak.jpg"),
	})
	if err != nil {
		t.Fatalf("CreateItem() error: %v", err)
	}
	if !strings.Contains(a.ImageURL, "/portfolio/") {
		t.Errorf("ImageURL = %q, want portfolio prefix", a.ImageURL)
	}

	b, _ := env.portfolio.CreateItem(ctx, &services.CreatePortfolioItemRequest{Title: "Marble", File: jpegUpload("m.jpg")})
	if b.DisplayOrder <= a.DisplayOrder {
		t.Errorf("orders = %d, %d, want increasing", a.DisplayOrder, b.DisplayOrder)
	}

	filtered, _ := env.portfolio.ListItems(ctx, &cat.ID)
	if len(filtered) != 1 || filtered[0].ID != a.ID {
		t.Errorf("ListItems(cat) = %+v", filtered)
	}

	if _, err := env.portfolio.MoveItem(ctx, b.ID, models.Backward); err != nil {
		t.Fatalf("MoveItem() error: %v", err)
	}
	all, _ := env.portfolio.ListItems(ctx, nil)
	if all[0].ID != b.ID {
		t.Errorf("first item = %d, want %d", all[0].ID, b.ID)
	}

	updated, err := env.portfolio.UpdateItem(ctx, a.ID, &services.UpdatePortfolioItemRequest{ClearCategory: true})
	if err != nil {
		t.Fatalf("UpdateItem() error: %v", err)
	}
	if updated.CategoryID != nil {
		t.Errorf("CategoryID = %v, want cleared", *updated.CategoryID)
	}

	if err := env.portfolio.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory() error: %v", err)
	}
	if err := env.portfolio.DeleteItem(ctx, a.ID); err != nil {
		t.Fatalf("DeleteItem() error: %v", err)
	}
	if _, err := env.portfolio.GetItem(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetItem() after delete error = %v, want ErrNotFound", err)
	}
}

func TestPortfolioItems_EmbedCategory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	kitchens, _ := env.portfolio.CreateCategory(ctx, "Kitchens")
	baths, _ := env.portfolio.CreateCategory(ctx, "Baths")

	item, err := env.portfolio.CreateItem(ctx, &services.CreatePortfolioItemRequest{
		Title: "Walnut", CategoryID: &kitchens.ID, File: jpegUpload("w.jpg"),
	})
	if err != nil {
		t.Fatalf("CreateItem() error: %v", err)
	}
	if item.Category == nil || item.Category.Name != "Kitchens" {
		t.Errorf("created Category = %+v, want Kitchens", item.Category)
	}
	loose, _ := env.portfolio.CreateItem(ctx, &services.CreatePortfolioItemRequest{Title: "Rug", File: jpegUpload("r.jpg")})
	if loose.Category != nil {
		t.Errorf("uncategorized item Category = %+v, want nil", loose.Category)
	}

	list, _ := env.portfolio.ListItems(ctx, nil)
	if len(list) != 2 || list[0].Category == nil || list[0].Category.ID != kitchens.ID || list[1].Category != nil {
		t.Errorf("ListItems() categories = %+v", list)
	}

	moved, err := env.portfolio.UpdateItem(ctx, item.ID, &services.UpdatePortfolioItemRequest{CategoryID: &baths.ID})
	if err != nil {
		t.Fatalf("UpdateItem() error: %v", err)
	}
	if moved.Category == nil || moved.Category.Name != "Baths" {
		t.Errorf("updated Category = %+v, want Baths", moved.Category)
	}

	renamed, _ := env.portfolio.UpdateItem(ctx, item.ID, &services.UpdatePortfolioItemRequest{Title: strPtr("Walnut Kitchen")})
	if renamed.Category == nil || renamed.Category.Name != "Baths" {
		t.Errorf("Category after title edit = %+v, want Baths kept", renamed.Category)
	}

	if err := env.portfolio.DeleteCategory(ctx, baths.ID); err != nil {
		t.Fatalf("DeleteCategory() error: %v", err)
	}
	got, _ := env.portfolio.GetItem(ctx, item.ID)
	if got.Category != nil || got.CategoryID != nil {
		t.Errorf("after category delete = %+v / %v, want uncategorized", got.Category, got.CategoryID)
	}
}

func TestCreateItem_UnknownCategory(t *testing.T) {
	env := newTestEnv()

	_, err := env.portfolio.CreateItem(context.Background(), &services.CreatePortfolioItemRequest{
		Title: "x", CategoryID: idPtr(42), File: jpegUpload("x.jpg"),
	})
	if !errors.Is(err, domain.ErrNotFound) || err.Error() != "category not found" {
		t.Errorf("error = %v, want category not found", err)
	}
	if len(env.blobs.keys) != 0 {
		t.Errorf("uploaded %v before validating category", env.blobs.keys)
	}
}
