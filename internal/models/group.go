package models

import "time"

const (
	// DefaultCoverPhoto is used when a group is created without a cover photo.
	DefaultCoverPhoto = "/img/defaultgroup.jpg"

	// DefaultProfilePic is used for members and friends without a stored picture.
	DefaultProfilePic = "/img/defaultprofile.png"
)

// Group is a named set of members sharing a task list.
// A group with zero members is deleted rather than kept.
type Group struct {
	// ID is the document ID: the group name, possibly with a disambiguating suffix.
	ID string `json:"-" firestore:"-"`

	// Members are embedded snapshots, in join order.
	Members []Member `json:"members" firestore:"members"`

	// CoverPhoto is a URL; DefaultCoverPhoto when not supplied.
	CoverPhoto string `json:"coverPhoto" firestore:"coverPhoto"`

	// Completions counts tasks ever cleared by the group. Never decremented.
	Completions int64 `json:"completions" firestore:"completions"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// HasMember reports whether uid is among the group's members.
func (g *Group) HasMember(uid string) bool {
	for _, m := range g.Members {
		if m.UID == uid {
			return true
		}
	}
	return false
}

// MemberIDs returns the member user IDs in order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UID
	}
	return ids
}

// Member is a denormalized copy of a user's display data stored inside a group.
type Member struct {
	UID        string `json:"uid" firestore:"uid"`
	Username   string `json:"username" firestore:"username"`
	ProfilePic string `json:"profilePic" firestore:"profilePic"`
}

// MemberProfile is the display projection returned by GetMembers.
type MemberProfile struct {
	UID        string
	Username   string
	Email      string
	ProfilePic string
}

// GroupSummary is the lightweight projection returned by search and listings.
type GroupSummary struct {
	Name        string
	CoverPhoto  string
	Completions int64
	MemberCount int
}

// Summary projects g into a GroupSummary.
func (g *Group) Summary() GroupSummary {
	return GroupSummary{
		Name:        g.ID,
		CoverPhoto:  g.CoverPhoto,
		Completions: g.Completions,
		MemberCount: len(g.Members),
	}
}
