package service

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/groupcal/internal/groups"
	"github.com/mmynk/groupcal/internal/middleware"
	"github.com/mmynk/groupcal/pkg/api"
	"github.com/mmynk/groupcal/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	groups *groups.Service
}

// NewGroupService creates a new GroupService backed by svc.
func NewGroupService(svc *groups.Service) *GroupService {
	return &GroupService{groups: svc}
}

// CreateGroup registers a group, or returns the existing one under the reuse
// policy. With JoinAsMember the caller is added afterwards.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "join", req.Msg.JoinAsMember)

	group, created, err := s.groups.CreateGroup(ctx, req.Msg.Name, req.Msg.CoverPhoto)
	if err != nil {
		slog.Error("CreateGroup failed", "name", req.Msg.Name, "error", err)
		return nil, connectError(err)
	}

	if req.Msg.JoinAsMember {
		uid, err := userOrCaller("", middleware.GetUserID(ctx))
		if err != nil {
			return nil, err
		}
		if _, err := s.groups.AddMember(ctx, group.ID, uid); err != nil {
			slog.Error("CreateGroup join failed", "group_id", group.ID, "user_id", uid, "error", err)
			return nil, connectError(err)
		}
		if group, err = s.groups.GetGroup(ctx, group.ID); err != nil {
			return nil, connectError(err)
		}
	}

	slog.Info("Group ready", "group_id", group.ID, "created", created)

	return connect.NewResponse(&api.CreateGroupResponse{
		Group:   toAPIGroup(group),
		Created: created,
	}), nil
}

func (s *GroupService) GroupExists(ctx context.Context, req *connect.Request[api.GroupExistsRequest]) (*connect.Response[api.GroupExistsResponse], error) {
	exists, err := s.groups.GroupExists(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("GroupExists failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GroupExistsResponse{Exists: exists}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupId)

	group, err := s.groups.GetGroup(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// AddMember adds a user, or the caller, to a group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	uid, err := userOrCaller(req.Msg.UserId, middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	slog.Info("AddMember request received", "group_id", req.Msg.GroupId, "user_id", uid)

	added, err := s.groups.AddMember(ctx, req.Msg.GroupId, uid)
	if err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupId, "user_id", uid, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.AddMemberResponse{Added: added}), nil
}

func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	slog.Info("AddMembers request received", "group_id", req.Msg.GroupId, "count", len(req.Msg.UserIds))

	added, err := s.groups.AddMembers(ctx, req.Msg.GroupId, req.Msg.UserIds)
	if err != nil {
		slog.Error("AddMembers failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, connectError(err)
	}
	if added == nil {
		added = []string{}
	}

	return connect.NewResponse(&api.AddMembersResponse{Added: added}), nil
}

// RemoveMember removes a user, or the caller, from a group. Removing the last
// member deletes the group.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	uid, err := userOrCaller(req.Msg.UserId, middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupId, "user_id", uid)

	removed, deleted, err := s.groups.RemoveMember(ctx, req.Msg.GroupId, uid)
	if err != nil {
		slog.Error("RemoveMember failed", "group_id", req.Msg.GroupId, "user_id", uid, "error", err)
		return nil, connectError(err)
	}
	if deleted {
		slog.Info("Group deleted after last member left", "group_id", req.Msg.GroupId)
	}

	return connect.NewResponse(&api.RemoveMemberResponse{Removed: removed, GroupDeleted: deleted}), nil
}

func (s *GroupService) GetMembers(ctx context.Context, req *connect.Request[api.GetMembersRequest]) (*connect.Response[api.GetMembersResponse], error) {
	members, err := s.groups.GetMembers(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("GetMembers failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.MemberProfile, len(members))
	for i, m := range members {
		out[i] = &api.MemberProfile{Uid: m.UID, Username: m.Username, Email: m.Email, ProfilePic: m.ProfilePic}
	}
	return connect.NewResponse(&api.GetMembersResponse{Members: out}), nil
}

// ListMyGroups lists the groups the caller belongs to.
func (s *GroupService) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	uid, err := userOrCaller("", middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	summaries, err := s.groups.ListUserGroups(ctx, uid)
	if err != nil {
		slog.Error("ListMyGroups failed", "user_id", uid, "error", err)
		return nil, connectError(err)
	}

	slog.Info("ListMyGroups successful", "user_id", uid, "count", len(summaries))
	return connect.NewResponse(&api.ListMyGroupsResponse{Groups: toAPISummaries(summaries)}), nil
}

// AddTask adds or overwrites a shared task.
func (s *GroupService) AddTask(ctx context.Context, req *connect.Request[api.AddTaskRequest]) (*connect.Response[api.AddTaskResponse], error) {
	slog.Info("AddTask request received", "group_id", req.Msg.GroupId)

	task, err := s.groups.AddTaskToGroup(ctx, req.Msg.GroupId, fromAPITask(req.Msg.Task))
	if err != nil {
		slog.Error("AddTask failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Task added", "group_id", req.Msg.GroupId, "task_id", task.ID)
	return connect.NewResponse(&api.AddTaskResponse{Task: toAPITask(task)}), nil
}

func (s *GroupService) ListTasks(ctx context.Context, req *connect.Request[api.ListTasksRequest]) (*connect.Response[api.ListTasksResponse], error) {
	tasks, err := s.groups.GetGroupTasks(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("ListTasks failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Task, 0, len(tasks))
	for _, id := range slices.Sorted(maps.Keys(tasks)) {
		out = append(out, toAPITask(tasks[id]))
	}
	return connect.NewResponse(&api.ListTasksResponse{Tasks: out}), nil
}

func (s *GroupService) GetTask(ctx context.Context, req *connect.Request[api.GetTaskRequest]) (*connect.Response[api.GetTaskResponse], error) {
	task, err := s.groups.GetGroupTask(ctx, req.Msg.GroupId, req.Msg.TaskId)
	if err != nil {
		slog.Error("GetTask failed", "group_id", req.Msg.GroupId, "task_id", req.Msg.TaskId, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetTaskResponse{Task: toAPITask(task)}), nil
}

// CompleteTask records a completion and clears the task once every current
// member has completed it.
func (s *GroupService) CompleteTask(ctx context.Context, req *connect.Request[api.CompleteTaskRequest]) (*connect.Response[api.CompleteTaskResponse], error) {
	uid, err := userOrCaller(req.Msg.UserId, middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	slog.Info("CompleteTask request received", "group_id", req.Msg.GroupId, "task_id", req.Msg.TaskId, "user_id", uid)

	c, err := s.groups.CompleteGroupTask(ctx, req.Msg.GroupId, req.Msg.TaskId, uid)
	if err != nil {
		slog.Error("CompleteTask failed", "group_id", req.Msg.GroupId, "task_id", req.Msg.TaskId, "error", err)
		return nil, connectError(err)
	}

	remaining := c.Remaining
	if remaining == nil {
		remaining = []string{}
	}
	if c.Cleared {
		slog.Info("Task cleared", "group_id", req.Msg.GroupId, "task_id", req.Msg.TaskId)
	}

	return connect.NewResponse(&api.CompleteTaskResponse{
		Task:      toAPITask(c.Task),
		Cleared:   c.Cleared,
		Remaining: remaining,
	}), nil
}

// RemoveTask deletes a task without counting a completion.
func (s *GroupService) RemoveTask(ctx context.Context, req *connect.Request[api.RemoveTaskRequest]) (*connect.Response[api.RemoveTaskResponse], error) {
	slog.Info("RemoveTask request received", "group_id", req.Msg.GroupId, "task_id", req.Msg.TaskId)

	if err := s.groups.DeleteGroupTask(ctx, req.Msg.GroupId, req.Msg.TaskId); err != nil {
		slog.Error("RemoveTask failed", "group_id", req.Msg.GroupId, "task_id", req.Msg.TaskId, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.RemoveTaskResponse{}), nil
}

func (s *GroupService) SearchGroups(ctx context.Context, req *connect.Request[api.SearchGroupsRequest]) (*connect.Response[api.SearchGroupsResponse], error) {
	summaries, err := s.groups.SearchForGroup(ctx, req.Msg.Pattern)
	if err != nil {
		slog.Error("SearchGroups failed", "pattern", req.Msg.Pattern, "error", err)
		return nil, connectError(err)
	}

	slog.Info("SearchGroups successful", "pattern", req.Msg.Pattern, "count", len(summaries))
	return connect.NewResponse(&api.SearchGroupsResponse{Groups: toAPISummaries(summaries)}), nil
}
