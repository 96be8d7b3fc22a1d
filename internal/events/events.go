package events

import (
	"time"

	"github.com/google/uuid"
)

const TypePostViewed = "post.viewed"

type PostViewedPayload struct {
	PostID string `json:"post_id"`
	Views  int64  `json:"views"`
}

type PostViewed struct {
	ID        uuid.UUID         `json:"id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   PostViewedPayload `json:"payload"`
}

func NewPostViewed(postID string, views int64) PostViewed {
	return PostViewed{
		ID:        uuid.New(),
		Type:      TypePostViewed,
		Timestamp: time.Now().UTC(),
		Payload: PostViewedPayload{
			PostID: postID,
			Views:  views,
		},
	}
}

// IsMilestone reports whether views is 10, 100, 1000 and so on.
func IsMilestone(views int64) bool {
	if views < 10 {
		return false
	}
	for views%10 == 0 {
		views /= 10
	}
	return views == 1
}
