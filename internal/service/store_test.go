package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
)

// memStore is an in-memory database shared by the fake repositories below.
// It mirrors the foreign key behavior of the SQL schema.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	projects   map[int64]models.Project
	images     map[int64]models.ProjectImage
	homepage   *models.HomepageSettings
	messages   map[int64]models.Message
	categories map[int64]models.Category
	items      map[int64]models.PortfolioItem

	// setOrderFailAt makes the nth SetDisplayOrder call fail (1-based, 0 = never).
	setOrderFailAt int
	setOrderCalls  int

	// orderOps records ordering repository calls in sequence
	orderOps []string
}

func newMemStore() *memStore {
	return &memStore{
		projects:   make(map[int64]models.Project),
		images:     make(map[int64]models.ProjectImage),
		messages:   make(map[int64]models.Message),
		categories: make(map[int64]models.Category),
		items:      make(map[int64]models.PortfolioItem),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type memSnapshot struct {
	nextID     int64
	projects   map[int64]models.Project
	images     map[int64]models.ProjectImage
	homepage   *models.HomepageSettings
	messages   map[int64]models.Message
	categories map[int64]models.Category
	items      map[int64]models.PortfolioItem
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		nextID:     s.nextID,
		projects:   cloneMap(s.projects),
		images:     cloneMap(s.images),
		messages:   cloneMap(s.messages),
		categories: cloneMap(s.categories),
		items:      cloneMap(s.items),
	}
	if s.homepage != nil {
		h := *s.homepage
		snap.homepage = &h
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.projects = snap.projects
	s.images = snap.images
	s.homepage = snap.homepage
	s.messages = snap.messages
	s.categories = snap.categories
	s.items = snap.items
}

// memTxManager rolls the store back when fn fails. Nested calls join.
type memTxManager struct {
	store *memStore
	mu    sync.Mutex
	depth int
	runs  int
}

func (m *memTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.mu.Lock()
	outer := m.depth == 0
	m.depth++
	if outer {
		m.runs++
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.depth--
		m.mu.Unlock()
	}()

	if !outer {
		return fn(ctx)
	}

	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// --- projects ---

type memProjectRepo struct{ s *memStore }

func (r *memProjectRepo) Create(ctx context.Context, p *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	r.s.projects[p.ID] = *p
	return nil
}

func (r *memProjectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *memProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Project{}
	for _, p := range r.s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memProjectRepo) Update(ctx context.Context, p *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.projects[p.ID]
	if !ok {
		return fmt.Errorf("project %d: %w", p.ID, domain.ErrNotFound)
	}
	cur.Name, cur.Description, cur.Location, cur.UpdatedAt = p.Name, p.Description, p.Location, p.UpdatedAt
	r.s.projects[p.ID] = cur
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[id]; !ok {
		return fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.projects, id)
	for imgID, img := range r.s.images {
		if img.ProjectID == id {
			delete(r.s.images, imgID)
			r.s.clearHomepageRef(imgID)
		}
	}
	return nil
}

// --- images ---

type memImageRepo struct{ s *memStore }

func (r *memImageRepo) Create(ctx context.Context, img *models.ProjectImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[img.ProjectID]; !ok {
		return fmt.Errorf("project %d: %w", img.ProjectID, domain.ErrNotFound)
	}
	img.ID = r.s.id()
	r.s.images[img.ID] = *img
	return nil
}

func (r *memImageRepo) GetByID(ctx context.Context, id int64) (*models.ProjectImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	img, ok := r.s.images[id]
	if !ok {
		return nil, fmt.Errorf("image %d: %w", id, domain.ErrNotFound)
	}
	return &img, nil
}

func (r *memImageRepo) list(filter func(models.ProjectImage) bool) []models.ProjectImage {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.ProjectImage{}
	for _, img := range r.s.images {
		if filter(img) {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.ID < b.ID
	})
	return out
}

func (r *memImageRepo) ListByProject(ctx context.Context, projectID int64) ([]models.ProjectImage, error) {
	return r.list(func(img models.ProjectImage) bool { return img.ProjectID == projectID }), nil
}

func (r *memImageRepo) ListAll(ctx context.Context) ([]models.ProjectImage, error) {
	return r.list(func(models.ProjectImage) bool { return true }), nil
}

func (r *memImageRepo) Update(ctx context.Context, img *models.ProjectImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.images[img.ID]
	if !ok {
		return fmt.Errorf("image %d: %w", img.ID, domain.ErrNotFound)
	}
	cur.Title, cur.Description, cur.ImageURL, cur.ImageBlobURL, cur.UpdatedAt =
		img.Title, img.Description, img.ImageURL, img.ImageBlobURL, img.UpdatedAt
	r.s.images[img.ID] = cur
	return nil
}

func (r *memImageRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.images[id]; !ok {
		return fmt.Errorf("image %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.images, id)
	r.s.clearHomepageRef(id)
	return nil
}

// clearHomepageRef mirrors ON DELETE SET NULL. Caller holds mu.
func (s *memStore) clearHomepageRef(imageID int64) {
	if s.homepage == nil {
		return
	}
	if s.homepage.HeroImageID != nil && *s.homepage.HeroImageID == imageID {
		s.homepage.HeroImageID = nil
	}
	if s.homepage.AboutImageID != nil && *s.homepage.AboutImageID == imageID {
		s.homepage.AboutImageID = nil
	}
}

// --- homepage ---

type memHomepageRepo struct{ s *memStore }

func (r *memHomepageRepo) Get(ctx context.Context) (*models.HomepageSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.homepage == nil {
		return nil, nil
	}
	h := *r.s.homepage
	return &h, nil
}

func (r *memHomepageRepo) SetImage(ctx context.Context, slot models.HomepageSlot, imageID *int64) (*models.HomepageSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.homepage == nil {
		r.s.homepage = &models.HomepageSettings{ID: models.HomepageSettingsID}
	}
	switch slot {
	case models.SlotHero:
		r.s.homepage.HeroImageID = imageID
	case models.SlotAbout:
		r.s.homepage.AboutImageID = imageID
	}
	r.s.homepage.UpdatedAt = time.Now()
	h := *r.s.homepage
	return &h, nil
}

// --- messages ---

type memMessageRepo struct{ s *memStore }

func (r *memMessageRepo) Create(ctx context.Context, m *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.id()
	r.s.messages[m.ID] = *m
	return nil
}

func (r *memMessageRepo) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %d: %w", id, domain.ErrNotFound)
	}
	return &m, nil
}

func (r *memMessageRepo) List(ctx context.Context) ([]models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.s.messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memMessageRepo) CountUnread(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, m := range r.s.messages {
		if !m.Read {
			n++
		}
	}
	return n, nil
}

func (r *memMessageRepo) SetRead(ctx context.Context, id int64, read bool) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %d: %w", id, domain.ErrNotFound)
	}
	m.Read = read
	r.s.messages[id] = m
	return &m, nil
}

func (r *memMessageRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.messages[id]; !ok {
		return fmt.Errorf("message %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.messages, id)
	return nil
}

// --- portfolio ---

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) Create(ctx context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("category %q already exists", c.Name),
				ResourceType: "category",
				ResourceID:   existing.ID,
			}
		}
	}
	c.ID = r.s.id()
	r.s.categories[c.ID] = *c
	return nil
}

func (r *memCategoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *memCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Category{}
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCategoryRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.categories, id)
	for itemID, item := range r.s.items {
		if item.CategoryID != nil && *item.CategoryID == id {
			item.CategoryID = nil
			r.s.items[itemID] = item
		}
	}
	return nil
}

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) Create(ctx context.Context, item *models.PortfolioItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.ID = r.s.id()
	r.s.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) GetByID(ctx context.Context, id int64) (*models.PortfolioItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	r.joinCategory(&item)
	return &item, nil
}

// joinCategory mirrors the LEFT JOIN on categories. Caller holds mu.
func (r *memItemRepo) joinCategory(item *models.PortfolioItem) {
	item.Category = nil
	if item.CategoryID == nil {
		return
	}
	if c, ok := r.s.categories[*item.CategoryID]; ok {
		item.Category = &c
	}
}

func (r *memItemRepo) List(ctx context.Context, categoryID *int64) ([]models.PortfolioItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.PortfolioItem{}
	for _, item := range r.s.items {
		if categoryID != nil && (item.CategoryID == nil || *item.CategoryID != *categoryID) {
			continue
		}
		r.joinCategory(&item)
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memItemRepo) Update(ctx context.Context, item *models.PortfolioItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[item.ID]
	if !ok {
		return fmt.Errorf("item %d: %w", item.ID, domain.ErrNotFound)
	}
	cur.Title, cur.Description, cur.CategoryID, cur.ImageURL, cur.ImageBlobURL, cur.UpdatedAt =
		item.Title, item.Description, item.CategoryID, item.ImageURL, item.ImageBlobURL, item.UpdatedAt
	r.s.items[item.ID] = cur
	return nil
}

func (r *memItemRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.items, id)
	return nil
}

// --- ordering ---

type memOrderingRepo struct{ s *memStore }

// positions returns every row of scope sorted by scope key, display_order, id. Caller holds mu.
func (r *memOrderingRepo) positions(scope models.OrderScope) []models.Position {
	var out []models.Position
	switch scope {
	case models.ScopeProjects:
		for _, p := range r.s.projects {
			out = append(out, models.Position{ID: p.ID, DisplayOrder: p.DisplayOrder})
		}
	case models.ScopeProjectImages:
		for _, img := range r.s.images {
			key := img.ProjectID
			out = append(out, models.Position{ID: img.ID, DisplayOrder: img.DisplayOrder, ScopeKey: &key})
		}
	case models.ScopePortfolioItems:
		for _, item := range r.s.items {
			out = append(out, models.Position{ID: item.ID, DisplayOrder: item.DisplayOrder})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ScopeKey != nil && b.ScopeKey != nil && *a.ScopeKey != *b.ScopeKey {
			return *a.ScopeKey < *b.ScopeKey
		}
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.ID < b.ID
	})
	return out
}

func (r *memOrderingRepo) LockScope(ctx context.Context, scope models.OrderScope) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderOps = append(r.s.orderOps, "scope:"+string(scope))
	return nil
}

func (r *memOrderingRepo) LockPosition(ctx context.Context, scope models.OrderScope, id int64) (*models.Position, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderOps = append(r.s.orderOps, "position")
	for _, pos := range r.positions(scope) {
		if pos.ID == id {
			return &pos, nil
		}
	}
	return nil, fmt.Errorf("%s %d: %w", scope, id, domain.ErrNotFound)
}

func (r *memOrderingRepo) LockAdjacent(ctx context.Context, scope models.OrderScope, pos *models.Position, dir models.Direction) (*models.Position, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderOps = append(r.s.orderOps, "adjacent")

	var same []models.Position
	for _, p := range r.positions(scope) {
		if sameScopeKey(p.ScopeKey, pos.ScopeKey) {
			same = append(same, p)
		}
	}

	less := func(a, b models.Position) bool {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.ID < b.ID
	}

	if dir == models.Forward {
		for _, p := range same {
			if less(*pos, p) {
				return &p, nil
			}
		}
		return nil, nil
	}
	for i := len(same) - 1; i >= 0; i-- {
		if less(same[i], *pos) {
			p := same[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memOrderingRepo) SetDisplayOrder(ctx context.Context, scope models.OrderScope, id int64, order int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.setOrderCalls++
	if r.s.setOrderFailAt > 0 && r.s.setOrderCalls == r.s.setOrderFailAt {
		return errors.New("connection reset")
	}

	switch scope {
	case models.ScopeProjects:
		p := r.s.projects[id]
		p.DisplayOrder = order
		r.s.projects[id] = p
	case models.ScopeProjectImages:
		img := r.s.images[id]
		img.DisplayOrder = order
		r.s.images[id] = img
	case models.ScopePortfolioItems:
		item := r.s.items[id]
		item.DisplayOrder = order
		r.s.items[id] = item
	}
	return nil
}

func (r *memOrderingRepo) NextDisplayOrder(ctx context.Context, scope models.OrderScope, scopeKey *int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	maxOrder := 0
	for _, p := range r.positions(scope) {
		if scopeKey != nil && (p.ScopeKey == nil || *p.ScopeKey != *scopeKey) {
			continue
		}
		maxOrder = max(maxOrder, p.DisplayOrder)
	}
	return maxOrder + 1, nil
}

func (r *memOrderingRepo) ListPositions(ctx context.Context, scope models.OrderScope) ([]models.Position, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderOps = append(r.s.orderOps, "list")
	return r.positions(scope), nil
}

// --- blob ---

type mockProcessor struct{ err error }

func (m *mockProcessor) Process(file *services.UploadedFile) (*services.ProcessedImage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &services.ProcessedImage{
		Data:        append([]byte("jpeg:"), file.Data...),
		ContentType: "image/jpeg",
		Extension:   ".jpg",
		Width:       100,
		Height:      50,
	}, nil
}

type mockBlobStore struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (m *mockBlobStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.keys = append(m.keys, key)
	return "https://cdn.test/" + key, nil
}

// --- harness ---

type testEnv struct {
	store     *memStore
	tx        *memTxManager
	blobs     *mockBlobStore
	processor *mockProcessor
	ordering  services.OrderingService
	projects  services.ProjectService
	images    services.ProjectImageService
	portfolio services.PortfolioService
	uploader  *ImageUploader
	logger    *slog.Logger
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemStore()
	tx := &memTxManager{store: store}
	blobs := &mockBlobStore{}
	processor := &mockProcessor{}

	ordering := NewOrderingService(&memOrderingRepo{store}, tx, logger)
	uploader := NewImageUploader(processor, blobs, logger)
	uploader.now = func() time.Time { return time.UnixMilli(1700000000000) }

	return &testEnv{
		store:     store,
		tx:        tx,
		blobs:     blobs,
		processor: processor,
		ordering:  ordering,
		projects:  NewProjectService(&memProjectRepo{store}, &memImageRepo{store}, ordering, tx, logger),
		images:    NewProjectImageService(&memProjectRepo{store}, &memImageRepo{store}, ordering, uploader, tx, logger),
		portfolio: NewPortfolioService(&memCategoryRepo{store}, &memItemRepo{store}, ordering, uploader, tx, logger),
		uploader:  uploader,
		logger:    logger,
	}
}

// seedImages inserts images with explicit orders directly into the store.
func (e *testEnv) seedImages(projectID int64, orders map[int64]int) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	if _, ok := e.store.projects[projectID]; !ok {
		e.store.projects[projectID] = models.Project{ID: projectID, Name: fmt.Sprintf("p%d", projectID)}
	}
	for id, order := range orders {
		e.store.images[id] = models.ProjectImage{ID: id, ProjectID: projectID, Title: fmt.Sprintf("img%d", id), DisplayOrder: order}
		if id > e.store.nextID {
			e.store.nextID = id
		}
	}
	if projectID > e.store.nextID {
		e.store.nextID = projectID
	}
}

func (e *testEnv) imageOrders() map[int64]int {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	out := make(map[int64]int, len(e.store.images))
	for id, img := range e.store.images {
		out[id] = img.DisplayOrder
	}
	return out
}

func jpegUpload(name string) *services.UploadedFile {
	return &services.UploadedFile{Filename: name, ContentType: "image/jpeg", Data: []byte("raw")}
}

func strPtr(s string) *string { return &s }

func idPtr(id int64) *int64 { return &id }
