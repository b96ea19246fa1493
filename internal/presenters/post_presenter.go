package presenters

import (
	"time"

	"github.com/anonto42/social-pod/backend/internal/models"
)

type PostJSON struct {
	GUID                string                  `json:"guid"`
	Body                string                  `json:"body"`
	Public              bool                    `json:"public"`
	CreatedAt           time.Time               `json:"created_at"`
	Author              PersonJSON              `json:"author"`
	Photos              []PhotoJSON             `json:"photos"`
	InteractionCounters InteractionCountersJSON `json:"interaction_counters"`
}

type InteractionCountersJSON struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

type PostPresenter struct {
	post   *models.Post
	author *models.Person
	photos []models.Photo
}

func NewPostPresenter(post *models.Post, author *models.Person, photos []models.Photo) PostPresenter {
	return PostPresenter{post: post, author: author, photos: photos}
}

func (p PostPresenter) AsAPIJSON() PostJSON {
	return PostJSON{
		GUID:      p.post.GUID,
		Body:      p.post.Text,
		Public:    p.post.Public,
		CreatedAt: p.post.CreatedAt,
		Author:    NewPersonPresenter(p.author).AsAPIJSON(),
		Photos:    PhotosAsAPIJSON(p.photos),
		InteractionCounters: InteractionCountersJSON{
			Likes:    p.post.LikesCount,
			Comments: p.post.CommentsCount,
		},
	}
}

type CommentJSON struct {
	GUID      string     `json:"guid"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	Author    PersonJSON `json:"author"`
}

func CommentAsAPIJSON(c *models.Comment) CommentJSON {
	out := CommentJSON{GUID: c.GUID, Body: c.Text, CreatedAt: c.CreatedAt}
	if c.Author != nil {
		out.Author = NewPersonPresenter(c.Author).AsAPIJSON()
	}
	return out
}
