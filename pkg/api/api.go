// Package api defines the request and response messages of the
// groupcal.v1 Connect services.
package api

type Member struct {
	Uid        string `json:"uid"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

type Group struct {
	Id          string     `json:"id"`
	Members     []*Member  `json:"members"`
	CoverPhoto  string     `json:"coverPhoto"`
	Completions int64      `json:"completions"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
}

type GroupSummary struct {
	Name        string `json:"name"`
	CoverPhoto  string `json:"coverPhoto"`
	Completions int64  `json:"completions"`
	MemberCount int32  `json:"memberCount"`
}

type MemberProfile struct {
	Uid        string `json:"uid"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
}

type TaskInput struct {
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	DateIso  string `json:"dateISO"`
	Priority string `json:"priority,omitempty"`
}

type Task struct {
	Id        string     `json:"id"`
	Title     string     `json:"title"`
	Desc      string     `json:"desc"`
	DateIso   string     `json:"dateISO"`
	Priority  string     `json:"priority"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	Completed []string   `json:"completed"`
	Shared    bool       `json:"shared"`
}

type Friendship struct {
	Id        string     `json:"id"`
	UserA     string     `json:"userA"`
	UserB     string     `json:"userB"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
}

type FriendProfile struct {
	Uid        string `json:"uid"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

// GroupService messages.

type CreateGroupRequest struct {
	Name       string `json:"name"`
	CoverPhoto string `json:"coverPhoto,omitempty"`
	// JoinAsMember adds the caller to the group after it is created or reused.
	JoinAsMember bool `json:"joinAsMember,omitempty"`
}

type CreateGroupResponse struct {
	Group   *Group `json:"group"`
	Created bool   `json:"created"`
}

type GroupExistsRequest struct {
	GroupId string `json:"groupId"`
}

type GroupExistsResponse struct {
	Exists bool `json:"exists"`
}

type GetGroupRequest struct {
	GroupId string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

// AddMemberRequest adds UserId, or the caller when UserId is empty.
type AddMemberRequest struct {
	GroupId string `json:"groupId"`
	UserId  string `json:"userId,omitempty"`
}

type AddMemberResponse struct {
	Added bool `json:"added"`
}

type AddMembersRequest struct {
	GroupId string   `json:"groupId"`
	UserIds []string `json:"userIds"`
}

type AddMembersResponse struct {
	Added []string `json:"added"`
}

// RemoveMemberRequest removes UserId, or the caller when UserId is empty.
type RemoveMemberRequest struct {
	GroupId string `json:"groupId"`
	UserId  string `json:"userId,omitempty"`
}

type RemoveMemberResponse struct {
	Removed      bool `json:"removed"`
	GroupDeleted bool `json:"groupDeleted"`
}

type GetMembersRequest struct {
	GroupId string `json:"groupId"`
}

type GetMembersResponse struct {
	Members []*MemberProfile `json:"members"`
}

type ListMyGroupsRequest struct{}

type ListMyGroupsResponse struct {
	Groups []*GroupSummary `json:"groups"`
}

type AddTaskRequest struct {
	GroupId string     `json:"groupId"`
	Task    *TaskInput `json:"task"`
}

type AddTaskResponse struct {
	Task *Task `json:"task"`
}

type ListTasksRequest struct {
	GroupId string `json:"groupId"`
}

// ListTasksResponse lists tasks ordered by task ID, which orders them by date.
type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

type GetTaskRequest struct {
	GroupId string `json:"groupId"`
	TaskId  string `json:"taskId"`
}

type GetTaskResponse struct {
	Task *Task `json:"task"`
}

// CompleteTaskRequest records a completion by UserId, or by the caller when
// UserId is empty.
type CompleteTaskRequest struct {
	GroupId string `json:"groupId"`
	TaskId  string `json:"taskId"`
	UserId  string `json:"userId,omitempty"`
}

type CompleteTaskResponse struct {
	Task      *Task    `json:"task"`
	Cleared   bool     `json:"cleared"`
	Remaining []string `json:"remaining"`
}

// RemoveTaskRequest deletes a task without counting it as completed.
type RemoveTaskRequest struct {
	GroupId string `json:"groupId"`
	TaskId  string `json:"taskId"`
}

type RemoveTaskResponse struct{}

type SearchGroupsRequest struct {
	Pattern string `json:"pattern"`
}

type SearchGroupsResponse struct {
	Groups []*GroupSummary `json:"groups"`
}

// FriendService messages.

type AddFriendRequest struct {
	FriendId string `json:"friendId"`
}

type AddFriendResponse struct {
	Friendship *Friendship `json:"friendship"`
	Created    bool        `json:"created"`
}

type RemoveFriendRequest struct {
	FriendId string `json:"friendId"`
}

type RemoveFriendResponse struct {
	Removed int32 `json:"removed"`
}

type ListFriendsRequest struct{}

type ListFriendsResponse struct {
	Friends []*FriendProfile `json:"friends"`
}
