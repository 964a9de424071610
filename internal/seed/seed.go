// Package seed заполняет пустую базу демонстрационными данными.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"pawforum/internal/models"
	"pawforum/internal/service"
)

var demoUsers = []service.RegisterInput{
	{Username: "ella", Email: "ella@pawforum.example", Password: "ella-demo-pass", PetType: "cat", Gender: "female", Postcode: "2000"},
	{Username: "marcus", Email: "marcus@pawforum.example", Password: "marcus-demo-pass", PetType: "dog", Gender: "male", Postcode: "2010"},
	{Username: "tilly", Email: "tilly@pawforum.example", Password: "tilly-demo-pass", PetType: "rabbit", Postcode: "2031"},
	{Username: "sam", Email: "sam@pawforum.example", Password: "sam-demo-pass", PetType: "dog", Postcode: "2042"},
}

var demoPosts = []struct {
	Title    string
	Content  string
	Category string
	IsTask   bool
}{
	{"Best parks for off-leash play?", "Looking for recommendations around the inner west. My kelpie needs more space than our backyard offers.", "Discussion", false},
	{"Cat sitter needed next weekend", "Two indoor cats, very low maintenance. Feeding twice a day and some company in the evening.", "Tasks", true},
	{"Rabbit-proofing tips", "Just adopted a lop and she chews every cable she can reach. What worked for you?", "Advice", false},
	{"Dog walking help while recovering", "I broke my ankle and my lab still needs his morning walks for a few weeks.", "Tasks", true},
	{"Show off your pets!", "Post a photo and a one-line introduction. I'll start in the replies.", "Social", false},
}

var demoReplies = []string{
	"Following this, same situation here.",
	"We had great luck with bitter spray on the cables.",
	"Happy to help if you're nearby, sent you an application.",
	"Sydney Park is fantastic early in the morning.",
	"This forum keeps saving me, thanks all.",
}

// Run создаёт демо-пользователей, посты, ответы, лайки и заявки на задачи.
// Повторный запуск поверх уже засеянной базы безопасен: конфликты
// пропускаются.
func Run(ctx context.Context, users service.UserService, posts service.PostService, replies service.ReplyService, likes service.LikeService, tasks service.TaskService) error {
	rng := rand.New(rand.NewSource(42))

	userIDs := make([]int64, 0, len(demoUsers))
	for _, input := range demoUsers {
		user, err := users.Register(ctx, input)
		if err != nil {
			if errors.Is(err, models.ErrUserConflict) {
				existing, err := users.ListUsers(ctx)
				if err != nil {
					return fmt.Errorf("seed: failed to list users after conflict: %w", err)
				}
				for _, u := range existing {
					if u.Username == input.Username {
						userIDs = append(userIDs, u.ID)
						break
					}
				}
				continue
			}
			return fmt.Errorf("seed: failed to register %s: %w", input.Username, err)
		}
		userIDs = append(userIDs, user.ID)
	}
	if len(userIDs) == 0 {
		return errors.New("seed: no users available")
	}

	for i, dp := range demoPosts {
		author := userIDs[i%len(userIDs)]
		post, err := posts.CreatePost(ctx, author, service.CreatePostInput{
			Title:    dp.Title,
			Content:  dp.Content,
			Category: dp.Category,
			IsTask:   dp.IsTask,
		})
		if err != nil {
			return fmt.Errorf("seed: failed to create post %q: %w", dp.Title, err)
		}

		var rootID *int64
		for j := 0; j < 2+rng.Intn(2); j++ {
			replier := userIDs[rng.Intn(len(userIDs))]
			content := demoReplies[rng.Intn(len(demoReplies))]

			var parent *int64
			if rootID != nil && j > 0 && rng.Intn(2) == 0 {
				parent = rootID
			}
			reply, err := replies.CreateReply(ctx, replier, post.ID, content, parent)
			if err != nil {
				return fmt.Errorf("seed: failed to create reply on post %d: %w", post.ID, err)
			}
			if rootID == nil {
				rootID = &reply.ID
			}
		}

		for _, uid := range userIDs {
			if rng.Intn(2) == 0 {
				if _, err := likes.TogglePostLike(ctx, uid, post.ID); err != nil {
					return fmt.Errorf("seed: failed to like post %d: %w", post.ID, err)
				}
			}
		}

		if dp.IsTask {
			for _, uid := range userIDs {
				if uid == author {
					continue
				}
				if rng.Intn(2) == 0 {
					_, err := tasks.Apply(ctx, uid, post.ID, "I can help with this!")
					if err != nil && !errors.Is(err, models.ErrAlreadyApplied) {
						return fmt.Errorf("seed: failed to apply to task %d: %w", post.ID, err)
					}
				}
			}
		}
	}

	return nil
}
