package models

import "time"

// User is a profile document written by the identity provider.
// groupcal only reads it.
type User struct {
	// ID is the stable identifier issued by the identity provider.
	ID string `json:"-" firestore:"-"`

	Username   string `json:"username" firestore:"username"`
	Email      string `json:"email" firestore:"email"`
	ProfilePic string `json:"profilePic" firestore:"profilePic"`
}

// Friendship links two users. The pair is unordered, so lookups check both
// orderings; at most one document exists per pair.
type Friendship struct {
	ID string `json:"-" firestore:"-"`

	UserA     string    `json:"userA" firestore:"userA"`
	UserB     string    `json:"userB" firestore:"userB"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// Other returns the participant that is not uid.
func (f *Friendship) Other(uid string) string {
	if f.UserA == uid {
		return f.UserB
	}
	return f.UserA
}

// FriendProfile is the display projection returned by ListFriends.
type FriendProfile struct {
	UID        string
	Username   string
	ProfilePic string
}
