// Package notifications implements the out-of-band like notification
// pipeline: the API process enqueues jobs into Redis, a worker process pops
// them and delivers an email, best effort and at most once.
package notifications

// LikeEvent describes a like for notification purposes. Field names follow
// the persisted wire schema consumed by the worker.
type LikeEvent struct {
	TitlePost  string `json:"title_post"`
	NameUser   string `json:"name_user"`
	Email      string `json:"email"`
	NameFriend string `json:"name_friend"`
}
