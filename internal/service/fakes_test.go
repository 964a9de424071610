package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"pawforum/internal/models"
)

// fakeStore реализует все интерфейсы хранилищ поверх карт в памяти, включая
// каскадные удаления и конфликты уникальности, как их обеспечивает схема БД.
type fakeStore struct {
	nextID int64

	users    map[int64]*models.User
	sessions map[string]*models.Session
	posts    map[int64]*models.Post
	replies  map[int64]*models.Reply
	tasks    map[int64]*models.Task
	waiting  map[int64][]models.WaitingListEntry

	postLikes  map[[2]int64]bool
	replyLikes map[[2]int64]bool

	activities []models.Activity
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[int64]*models.User),
		sessions:   make(map[string]*models.Session),
		posts:      make(map[int64]*models.Post),
		replies:    make(map[int64]*models.Reply),
		tasks:      make(map[int64]*models.Task),
		waiting:    make(map[int64][]models.WaitingListEntry),
		postLikes:  make(map[[2]int64]bool),
		replyLikes: make(map[[2]int64]bool),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

// --- UserStorage ---

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return models.ErrUserConflict
		}
	}
	user.ID = f.id()
	user.JoinedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) UpdateUser(ctx context.Context, user models.User) (*models.User, error) {
	existing, ok := f.users[user.ID]
	if !ok {
		return nil, models.ErrNotFound
	}
	for _, u := range f.users {
		if u.ID != user.ID && u.Email == user.Email {
			return nil, models.ErrUserConflict
		}
	}
	*existing = user
	cp := user
	return &cp, nil
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// --- SessionStorage ---

func (f *fakeStore) CreateSession(ctx context.Context, session *models.Session) error {
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok || s.ExpiresAt.Before(time.Now()) {
		return nil, models.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) DeleteOtherSessions(ctx context.Context, userID int64, keepID string) error {
	for id, s := range f.sessions {
		if s.UserID == userID && id != keepID {
			delete(f.sessions, id)
		}
	}
	return nil
}

// --- PostStorage ---

func (f *fakeStore) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	created := *post
	created.ID = f.id()
	created.Created = time.Now()
	cp := created
	f.posts[created.ID] = &cp
	if created.IsTask {
		f.tasks[created.ID] = &models.Task{PostID: created.ID, Status: models.TaskStatusOpen}
	}
	return &created, nil
}

func (f *fakeStore) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	if u, ok := f.users[cp.CreatedBy]; ok {
		cp.Author = u.Username
	}
	return &cp, nil
}

func (f *fakeStore) ListPosts(ctx context.Context, category string) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	for _, p := range f.posts {
		if category != "" && p.Category != category {
			continue
		}
		cp := *p
		if u, ok := f.users[cp.CreatedBy]; ok {
			cp.Author = u.Username
		}
		posts = append(posts, cp)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (f *fakeStore) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	posts, _ := f.ListPosts(ctx, "")
	matched := make([]models.Post, 0)
	for _, p := range posts {
		if containsFold(p.Title, query) || containsFold(p.Content, query) || containsFold(p.Author, query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (f *fakeStore) DeletePost(ctx context.Context, id int64) error {
	if _, ok := f.posts[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.posts, id)
	for rid, r := range f.replies {
		if r.PostID == id {
			delete(f.replies, rid)
			for key := range f.replyLikes {
				if key[1] == rid {
					delete(f.replyLikes, key)
				}
			}
		}
	}
	for key := range f.postLikes {
		if key[1] == id {
			delete(f.postLikes, key)
		}
	}
	delete(f.tasks, id)
	delete(f.waiting, id)
	return nil
}

// --- ReplyStorage ---

func (f *fakeStore) CreateReply(ctx context.Context, reply *models.Reply) (*models.Reply, error) {
	if _, ok := f.posts[reply.PostID]; !ok {
		return nil, models.ErrNotFound
	}
	if reply.ParentID != nil {
		parent, ok := f.replies[*reply.ParentID]
		if !ok {
			return nil, models.ErrNotFound
		}
		if parent.PostID != reply.PostID {
			return nil, models.ErrParentMismatch
		}
	}
	created := *reply
	created.ID = f.id()
	created.Created = time.Now()
	cp := created
	f.replies[created.ID] = &cp
	return &created, nil
}

func (f *fakeStore) GetReplyByID(ctx context.Context, id int64) (*models.Reply, error) {
	r, ok := f.replies[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) GetPostReplies(ctx context.Context, postID int64) ([]models.Reply, error) {
	replies := make([]models.Reply, 0)
	for _, r := range f.replies {
		if r.PostID == postID {
			replies = append(replies, *r)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].ID < replies[j].ID })
	return replies, nil
}

func (f *fakeStore) DeleteReply(ctx context.Context, id int64) error {
	if _, ok := f.replies[id]; !ok {
		return models.ErrNotFound
	}
	// Каскад на поддерево, как в схеме.
	toDelete := []int64{id}
	for len(toDelete) > 0 {
		current := toDelete[0]
		toDelete = toDelete[1:]
		delete(f.replies, current)
		for key := range f.replyLikes {
			if key[1] == current {
				delete(f.replyLikes, key)
			}
		}
		for rid, r := range f.replies {
			if r.ParentID != nil && *r.ParentID == current {
				toDelete = append(toDelete, rid)
			}
		}
	}
	return nil
}

// --- TaskStorage ---

func (f *fakeStore) GetTaskByPostID(ctx context.Context, postID int64) (*models.Task, error) {
	t, ok := f.tasks[postID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) CloseTask(ctx context.Context, postID int64) (*models.Task, error) {
	t, ok := f.tasks[postID]
	if !ok {
		return nil, models.ErrNotFound
	}
	t.Status = models.TaskStatusClosed
	cp := *t
	return &cp, nil
}

func (f *fakeStore) AddWaitingListEntry(ctx context.Context, entry *models.WaitingListEntry) error {
	if _, ok := f.tasks[entry.TaskID]; !ok {
		return models.ErrNotFound
	}
	for _, e := range f.waiting[entry.TaskID] {
		if e.UserID == entry.UserID {
			return models.ErrAlreadyApplied
		}
	}
	entry.AppliedAt = time.Now()
	f.waiting[entry.TaskID] = append(f.waiting[entry.TaskID], *entry)
	return nil
}

func (f *fakeStore) GetWaitingList(ctx context.Context, taskID int64) ([]models.WaitingListEntry, error) {
	entries := make([]models.WaitingListEntry, 0, len(f.waiting[taskID]))
	for _, e := range f.waiting[taskID] {
		if u, ok := f.users[e.UserID]; ok {
			e.Username = u.Username
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// --- LikeStorage ---

func (f *fakeStore) TogglePostLike(ctx context.Context, userID, postID int64) (int32, bool, error) {
	p, ok := f.posts[postID]
	if !ok {
		return 0, false, models.ErrNotFound
	}
	key := [2]int64{userID, postID}
	if f.postLikes[key] {
		delete(f.postLikes, key)
		p.LikeCount--
		return p.LikeCount, false, nil
	}
	f.postLikes[key] = true
	p.LikeCount++
	return p.LikeCount, true, nil
}

func (f *fakeStore) ToggleReplyLike(ctx context.Context, userID, replyID int64) (int32, bool, error) {
	r, ok := f.replies[replyID]
	if !ok {
		return 0, false, models.ErrNotFound
	}
	key := [2]int64{userID, replyID}
	if f.replyLikes[key] {
		delete(f.replyLikes, key)
		r.LikeCount--
		return r.LikeCount, false, nil
	}
	f.replyLikes[key] = true
	r.LikeCount++
	return r.LikeCount, true, nil
}

// --- ActivityStorage ---

func (f *fakeStore) Record(ctx context.Context, activity *models.Activity) error {
	activity.ID = f.id()
	activity.Created = time.Now()
	f.activities = append(f.activities, *activity)
	return nil
}

func (f *fakeStore) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	out := make([]models.Activity, 0, limit)
	for i := len(f.activities) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.activities[i])
	}
	return out, nil
}

func containsFold(haystack, needle string) bool {
	return needle != "" && strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
