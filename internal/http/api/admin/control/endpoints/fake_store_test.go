package endpoints

import (
	"context"
	"sort"
	"sync"

	"github.com/Nixie-Tech-LLC/lobby/internal/db"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// fakeStore keeps just enough state to exercise the admin handlers.
type fakeStore struct {
	mu      sync.Mutex
	users   map[int]*model.User
	screens []model.Screen
	groups  map[int]*model.SlideGroup
	slides  map[int]*model.Slide
	content []model.Content
	nextID  int

	writes int
}

var _ db.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[int]*model.User{1: {ID: 1, Email: "admin@example.com"}},
		groups: map[int]*model.SlideGroup{},
		slides: map[int]*model.Slide{},
		nextID: 100,
	}
}

func (f *fakeStore) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateUser(_ context.Context, email, hashed string, name *string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.users[id] = &model.User{ID: id, Email: email, HashedPassword: hashed, Name: name}
	return id, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, id int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, db.ErrUserNotFound
}

func (f *fakeStore) UpdateUserProfile(_ context.Context, id int, email string, name *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return db.ErrUserNotFound
	}
	u.Email, u.Name = email, name
	return nil
}

func (f *fakeStore) ListScreens(context.Context) ([]model.Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]model.Screen{}, f.screens...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeStore) CreateScreen(_ context.Context, name string, position int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.screens = append(f.screens, model.Screen{ID: id, Name: name, Position: position})
	return id, nil
}

func (f *fakeStore) ListSlideGroups(context.Context) ([]model.SlideGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.SlideGroup{}
	for _, g := range f.groups {
		if !g.Archive.IsArchived() {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetSlideGroup(_ context.Context, id int) (*model.SlideGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[id]
	if !ok {
		return nil, model.ErrSlideGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeStore) CreateSlideGroup(_ context.Context, fields model.SlideGroupFields, createdBy string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.groups[id] = &model.SlideGroup{
		ID:        id,
		Title:     fields.Title,
		Priority:  fields.Priority,
		Hidden:    fields.Hidden,
		StartDate: fields.StartDate,
		EndDate:   fields.EndDate,
		CreatedBy: createdBy,
		Archive:   model.Active(),
	}
	return id, nil
}

func (f *fakeStore) activeGroup(id int) (*model.SlideGroup, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, model.ErrSlideGroupNotFound
	}
	if g.Archive.IsArchived() {
		return nil, model.ErrSlideGroupArchived
	}
	return g, nil
}

func (f *fakeStore) UpdateSlideGroup(_ context.Context, id int, fields model.SlideGroupFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, err := f.activeGroup(id)
	if err != nil {
		return err
	}
	g.Title, g.Priority, g.Hidden = fields.Title, fields.Priority, fields.Hidden
	g.StartDate, g.EndDate = fields.StartDate, fields.EndDate
	return nil
}

func (f *fakeStore) PublishSlideGroup(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, err := f.activeGroup(id)
	if err != nil {
		return err
	}
	g.Published = true
	return nil
}

func (f *fakeStore) ArchiveSlideGroup(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, err := f.activeGroup(id)
	if err != nil {
		return err
	}
	g.Archive = model.ArchivedAt(testNow)
	return nil
}

func (f *fakeStore) UnpinSlideGroups(context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeStore) CreateSlide(_ context.Context, groupID, position int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.activeGroup(groupID); err != nil {
		return 0, err
	}
	id := f.id()
	f.slides[id] = &model.Slide{ID: id, GroupID: groupID, Position: position, Archive: model.Active()}
	return id, nil
}

func (f *fakeStore) MoveSlides(_ context.Context, positions map[int]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id := range positions {
		s, ok := f.slides[id]
		if !ok {
			return model.ErrSlideNotFound
		}
		if s.Archive.IsArchived() {
			return model.ErrSlideArchived
		}
	}
	for id, pos := range positions {
		f.slides[id].Position = pos
	}
	return nil
}

func (f *fakeStore) ArchiveSlide(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slides[id]
	if !ok {
		return model.ErrSlideNotFound
	}
	if s.Archive.IsArchived() {
		return model.ErrSlideArchived
	}
	s.Archive = model.ArchivedAt(testNow)
	return nil
}

func (f *fakeStore) CreateContent(ctx context.Context, c db.NewContent, write db.BlobWriter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	found := false
	for _, s := range f.screens {
		found = found || s.ID == c.ScreenID
	}
	if !found {
		return 0, model.ErrScreenNotFound
	}
	if s, ok := f.slides[c.SlideID]; !ok || s.Archive.IsArchived() {
		return 0, model.ErrSlideNotFound
	}

	for i := range f.content {
		if f.content[i].SlideID == c.SlideID && f.content[i].ScreenID == c.ScreenID {
			f.content[i].Archive = model.ArchivedAt(testNow)
		}
	}

	f.writes++
	path, err := write(ctx)
	if err != nil {
		return 0, err
	}
	id := f.id()
	f.content = append(f.content, model.Content{
		ID:          id,
		SlideID:     c.SlideID,
		ScreenID:    c.ScreenID,
		ContentType: c.ContentType,
		FilePath:    path,
		Archive:     model.Active(),
	})
	return id, nil
}

func (f *fakeStore) FeedRows(context.Context, int) ([]model.FeedRow, error) {
	return nil, nil
}
