package service

import (
	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/pkg/api"
)

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]*api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = &api.Member{Uid: m.UID, Username: m.Username, ProfilePic: m.ProfilePic}
	}
	return &api.Group{
		Id:          g.ID,
		Members:     members,
		CoverPhoto:  g.CoverPhoto,
		Completions: g.Completions,
		CreatedAt:   api.NewTimestamp(g.CreatedAt),
	}
}

func toAPISummaries(in []models.GroupSummary) []*api.GroupSummary {
	out := make([]*api.GroupSummary, len(in))
	for i, s := range in {
		out[i] = &api.GroupSummary{
			Name:        s.Name,
			CoverPhoto:  s.CoverPhoto,
			Completions: s.Completions,
			MemberCount: int32(s.MemberCount),
		}
	}
	return out
}

func toAPITask(t *models.GroupTask) *api.Task {
	completed := t.Completed
	if completed == nil {
		completed = []string{}
	}
	return &api.Task{
		Id:        t.ID,
		Title:     t.Title,
		Desc:      t.Desc,
		DateIso:   t.DateISO,
		Priority:  t.Priority,
		CreatedAt: api.NewTimestamp(t.CreatedAt),
		Completed: completed,
		Shared:    t.Shared,
	}
}

func fromAPITask(in *api.TaskInput) models.GroupTask {
	if in == nil {
		return models.GroupTask{}
	}
	return models.GroupTask{
		Title:    in.Title,
		Desc:     in.Desc,
		DateISO:  in.DateIso,
		Priority: in.Priority,
	}
}

func toAPIFriendship(f *models.Friendship) *api.Friendship {
	return &api.Friendship{
		Id:        f.ID,
		UserA:     f.UserA,
		UserB:     f.UserB,
		CreatedAt: api.NewTimestamp(f.CreatedAt),
	}
}
