package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawforum/internal/models"
	"pawforum/internal/upload"
)

func newPostService(store *fakeStore, uploads upload.Store) PostService {
	if uploads == nil {
		uploads = upload.NewMemoryStore()
	}
	return NewPostService(store, store, store, store, uploads)
}

func mustRegister(t *testing.T, store *fakeStore, username string) *models.User {
	t.Helper()
	users := newUserService(store, nil)
	u, err := users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func TestCreatePost(t *testing.T) {
	store := newFakeStore()
	posts := newPostService(store, nil)
	ctx := context.Background()
	author := mustRegister(t, store, "alice")

	created, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
		Title:    "  Lost cat near the park  ",
		Content:  "Grey tabby, green collar.",
		Category: "lost",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Lost cat near the park", created.Title, "title is trimmed")
	assert.Equal(t, author.ID, created.CreatedBy)
	assert.False(t, created.IsTask)
}

func TestCreatePostValidation(t *testing.T) {
	store := newFakeStore()
	posts := newPostService(store, nil)
	ctx := context.Background()
	author := mustRegister(t, store, "bob")

	cases := []struct {
		name  string
		input CreatePostInput
	}{
		{"empty title", CreatePostInput{Title: "", Content: "body"}},
		{"blank title", CreatePostInput{Title: "   ", Content: "body"}},
		{"too long title", CreatePostInput{Title: strings.Repeat("x", 201), Content: "body"}},
		{"empty content", CreatePostInput{Title: "title", Content: "  "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := posts.CreatePost(ctx, author.ID, tc.input)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}

	// Ровно 200 символов проходит.
	_, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
		Title:   strings.Repeat("я", 200),
		Content: "body",
	})
	assert.NoError(t, err)
}

func TestCreateTaskPostOpensTask(t *testing.T) {
	store := newFakeStore()
	posts := newPostService(store, nil)
	ctx := context.Background()
	author := mustRegister(t, store, "carol")

	created, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
		Title:   "Walk my dog on weekends",
		Content: "Two walks, Saturday and Sunday.",
		IsTask:  true,
	})
	require.NoError(t, err)

	details, err := posts.GetPostDetails(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, details.Task)
	assert.Equal(t, models.TaskStatusOpen, details.Task.Status)
	assert.Empty(t, details.WaitingList)
}

func TestGetPostDetailsBuildsReplyTree(t *testing.T) {
	store := newFakeStore()
	posts := newPostService(store, nil)
	replies := NewReplyService(store, store, store)
	ctx := context.Background()
	author := mustRegister(t, store, "dave")

	post, err := posts.CreatePost(ctx, author.ID, CreatePostInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	root, err := replies.CreateReply(ctx, author.ID, post.ID, "root", nil)
	require.NoError(t, err)
	child, err := replies.CreateReply(ctx, author.ID, post.ID, "child", &root.ID)
	require.NoError(t, err)
	_, err = replies.CreateReply(ctx, author.ID, post.ID, "grandchild", &child.ID)
	require.NoError(t, err)
	_, err = replies.CreateReply(ctx, author.ID, post.ID, "second root", nil)
	require.NoError(t, err)

	details, err := posts.GetPostDetails(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, details.Replies, 2)
	assert.Equal(t, "root", details.Replies[0].Content)
	require.Len(t, details.Replies[0].Children, 1)
	assert.Equal(t, "child", details.Replies[0].Children[0].Content)
	require.Len(t, details.Replies[0].Children[0].Children, 1)
	assert.Equal(t, "grandchild", details.Replies[0].Children[0].Children[0].Content)
	assert.Empty(t, details.Replies[1].Children)
}

func TestGetPostDetailsNotFound(t *testing.T) {
	store := newFakeStore()
	posts := newPostService(store, nil)

	_, err := posts.GetPostDetails(context.Background(), 404)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListPostsByCategory(t *testing.T) {
	store := newFakeStore()
	posts := newPostService(store, nil)
	ctx := context.Background()
	author := mustRegister(t, store, "erin")

	_, err := posts.CreatePost(ctx, author.ID, CreatePostInput{Title: "a", Content: "c", Category: "lost"})
	require.NoError(t, err)
	_, err = posts.CreatePost(ctx, author.ID, CreatePostInput{Title: "b", Content: "c", Category: "found"})
	require.NoError(t, err)

	all, err := posts.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	lost, err := posts.ListPosts(ctx, "lost")
	require.NoError(t, err)
	require.Len(t, lost, 1)
	assert.Equal(t, "a", lost[0].Title)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	store := newFakeStore()
	posts := newPostService(store, nil)
	ctx := context.Background()
	owner := mustRegister(t, store, "frank")
	other := mustRegister(t, store, "grace")

	post, err := posts.CreatePost(ctx, owner.ID, CreatePostInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	err = posts.DeletePost(ctx, other.ID, post.ID)
	assert.ErrorIs(t, err, models.ErrNotOwner)

	err = posts.DeletePost(ctx, owner.ID, post.ID)
	require.NoError(t, err)

	_, err = posts.GetPostDetails(ctx, post.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = posts.DeletePost(ctx, owner.ID, post.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeletePostCascades(t *testing.T) {
	store := newFakeStore()
	posts := newPostService(store, nil)
	replies := NewReplyService(store, store, store)
	likes := NewLikeService(store, store, store, store)
	ctx := context.Background()
	owner := mustRegister(t, store, "heidi")

	post, err := posts.CreatePost(ctx, owner.ID, CreatePostInput{Title: "t", Content: "c", IsTask: true})
	require.NoError(t, err)
	reply, err := replies.CreateReply(ctx, owner.ID, post.ID, "hi", nil)
	require.NoError(t, err)
	_, err = likes.TogglePostLike(ctx, owner.ID, post.ID)
	require.NoError(t, err)
	_, err = likes.ToggleReplyLike(ctx, owner.ID, reply.ID)
	require.NoError(t, err)

	require.NoError(t, posts.DeletePost(ctx, owner.ID, post.ID))

	assert.Empty(t, store.replies)
	assert.Empty(t, store.tasks)
	assert.Empty(t, store.postLikes)
	assert.Empty(t, store.replyLikes)
}

func TestDeletePostRemovesImage(t *testing.T) {
	store := newFakeStore()
	uploads := upload.NewMemoryStore()
	posts := newPostService(store, uploads)
	ctx := context.Background()
	owner := mustRegister(t, store, "ivan")

	post, err := posts.CreatePost(ctx, owner.ID, CreatePostInput{
		Title:     "t",
		Content:   "c",
		ImageName: "photo.jpg",
		ImageData: strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, post.Image)
	require.Equal(t, 1, uploads.Len())

	require.NoError(t, posts.DeletePost(ctx, owner.ID, post.ID))
	assert.Equal(t, 0, uploads.Len())
}

func TestSearch(t *testing.T) {
	store := newFakeStore()
	posts := newPostService(store, nil)
	ctx := context.Background()
	author := mustRegister(t, store, "judy")

	_, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
		Title:   "Missing parrot",
		Content: "Bright green, answers to Kesha.",
	})
	require.NoError(t, err)
	_, err = posts.CreatePost(ctx, author.ID, CreatePostInput{
		Title:   "Free hay",
		Content: "Leftover bale for rabbits.",
	})
	require.NoError(t, err)

	results, err := posts.Search(ctx, "PARROT")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Missing parrot", results[0].Title)
	assert.Equal(t, "judy", results[0].Author)
	assert.Contains(t, results[0].Snippet, "Bright green")

	// Пустой запрос — пустая выдача.
	results, err = posts.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = posts.Search(ctx, "elephant")
	require.NoError(t, err)
	assert.Empty(t, results)
}
