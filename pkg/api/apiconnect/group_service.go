// Package apiconnect wires the groupcal.v1 services to Connect handlers and
// clients.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/groupcal/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "groupcal.v1.GroupService"

// Procedure paths for GroupService.
const (
	GroupServiceCreateGroupProcedure  = "/groupcal.v1.GroupService/CreateGroup"
	GroupServiceGroupExistsProcedure  = "/groupcal.v1.GroupService/GroupExists"
	GroupServiceGetGroupProcedure     = "/groupcal.v1.GroupService/GetGroup"
	GroupServiceAddMemberProcedure    = "/groupcal.v1.GroupService/AddMember"
	GroupServiceAddMembersProcedure   = "/groupcal.v1.GroupService/AddMembers"
	GroupServiceRemoveMemberProcedure = "/groupcal.v1.GroupService/RemoveMember"
	GroupServiceGetMembersProcedure   = "/groupcal.v1.GroupService/GetMembers"
	GroupServiceListMyGroupsProcedure = "/groupcal.v1.GroupService/ListMyGroups"
	GroupServiceAddTaskProcedure      = "/groupcal.v1.GroupService/AddTask"
	GroupServiceListTasksProcedure    = "/groupcal.v1.GroupService/ListTasks"
	GroupServiceGetTaskProcedure      = "/groupcal.v1.GroupService/GetTask"
	GroupServiceCompleteTaskProcedure = "/groupcal.v1.GroupService/CompleteTask"
	GroupServiceRemoveTaskProcedure   = "/groupcal.v1.GroupService/RemoveTask"
	GroupServiceSearchGroupsProcedure = "/groupcal.v1.GroupService/SearchGroups"
)

// GroupServiceHandler is implemented by the server side of GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GroupExists(context.Context, *connect.Request[api.GroupExistsRequest]) (*connect.Response[api.GroupExistsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	GetMembers(context.Context, *connect.Request[api.GetMembersRequest]) (*connect.Response[api.GetMembersResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	AddTask(context.Context, *connect.Request[api.AddTaskRequest]) (*connect.Response[api.AddTaskResponse], error)
	ListTasks(context.Context, *connect.Request[api.ListTasksRequest]) (*connect.Response[api.ListTasksResponse], error)
	GetTask(context.Context, *connect.Request[api.GetTaskRequest]) (*connect.Response[api.GetTaskResponse], error)
	CompleteTask(context.Context, *connect.Request[api.CompleteTaskRequest]) (*connect.Response[api.CompleteTaskResponse], error)
	RemoveTask(context.Context, *connect.Request[api.RemoveTaskRequest]) (*connect.Response[api.RemoveTaskResponse], error)
	SearchGroups(context.Context, *connect.Request[api.SearchGroupsRequest]) (*connect.Response[api.SearchGroupsResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for svc. It returns the path to
// mount it on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	routes := map[string]http.Handler{
		GroupServiceCreateGroupProcedure:  connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceGroupExistsProcedure:  connect.NewUnaryHandler(GroupServiceGroupExistsProcedure, svc.GroupExists, opts...),
		GroupServiceGetGroupProcedure:     connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceAddMemberProcedure:    connect.NewUnaryHandler(GroupServiceAddMemberProcedure, svc.AddMember, opts...),
		GroupServiceAddMembersProcedure:   connect.NewUnaryHandler(GroupServiceAddMembersProcedure, svc.AddMembers, opts...),
		GroupServiceRemoveMemberProcedure: connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...),
		GroupServiceGetMembersProcedure:   connect.NewUnaryHandler(GroupServiceGetMembersProcedure, svc.GetMembers, opts...),
		GroupServiceListMyGroupsProcedure: connect.NewUnaryHandler(GroupServiceListMyGroupsProcedure, svc.ListMyGroups, opts...),
		GroupServiceAddTaskProcedure:      connect.NewUnaryHandler(GroupServiceAddTaskProcedure, svc.AddTask, opts...),
		GroupServiceListTasksProcedure:    connect.NewUnaryHandler(GroupServiceListTasksProcedure, svc.ListTasks, opts...),
		GroupServiceGetTaskProcedure:      connect.NewUnaryHandler(GroupServiceGetTaskProcedure, svc.GetTask, opts...),
		GroupServiceCompleteTaskProcedure: connect.NewUnaryHandler(GroupServiceCompleteTaskProcedure, svc.CompleteTask, opts...),
		GroupServiceRemoveTaskProcedure:   connect.NewUnaryHandler(GroupServiceRemoveTaskProcedure, svc.RemoveTask, opts...),
		GroupServiceSearchGroupsProcedure: connect.NewUnaryHandler(GroupServiceSearchGroupsProcedure, svc.SearchGroups, opts...),
	}
	return "/" + GroupServiceName + "/", route(routes)
}

// GroupServiceClient is a client for GroupService.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GroupExists(context.Context, *connect.Request[api.GroupExistsRequest]) (*connect.Response[api.GroupExistsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	GetMembers(context.Context, *connect.Request[api.GetMembersRequest]) (*connect.Response[api.GetMembersResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	AddTask(context.Context, *connect.Request[api.AddTaskRequest]) (*connect.Response[api.AddTaskResponse], error)
	ListTasks(context.Context, *connect.Request[api.ListTasksRequest]) (*connect.Response[api.ListTasksResponse], error)
	GetTask(context.Context, *connect.Request[api.GetTaskRequest]) (*connect.Response[api.GetTaskResponse], error)
	CompleteTask(context.Context, *connect.Request[api.CompleteTaskRequest]) (*connect.Response[api.CompleteTaskResponse], error)
	RemoveTask(context.Context, *connect.Request[api.RemoveTaskRequest]) (*connect.Response[api.RemoveTaskResponse], error)
	SearchGroups(context.Context, *connect.Request[api.SearchGroupsRequest]) (*connect.Response[api.SearchGroupsResponse], error)
}

// NewGroupServiceClient constructs a client for the GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &groupServiceClient{
		createGroup:  connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		groupExists:  connect.NewClient[api.GroupExistsRequest, api.GroupExistsResponse](httpClient, baseURL+GroupServiceGroupExistsProcedure, opts...),
		getGroup:     connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		addMember:    connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+GroupServiceAddMemberProcedure, opts...),
		addMembers:   connect.NewClient[api.AddMembersRequest, api.AddMembersResponse](httpClient, baseURL+GroupServiceAddMembersProcedure, opts...),
		removeMember: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
		getMembers:   connect.NewClient[api.GetMembersRequest, api.GetMembersResponse](httpClient, baseURL+GroupServiceGetMembersProcedure, opts...),
		listMyGroups: connect.NewClient[api.ListMyGroupsRequest, api.ListMyGroupsResponse](httpClient, baseURL+GroupServiceListMyGroupsProcedure, opts...),
		addTask:      connect.NewClient[api.AddTaskRequest, api.AddTaskResponse](httpClient, baseURL+GroupServiceAddTaskProcedure, opts...),
		listTasks:    connect.NewClient[api.ListTasksRequest, api.ListTasksResponse](httpClient, baseURL+GroupServiceListTasksProcedure, opts...),
		getTask:      connect.NewClient[api.GetTaskRequest, api.GetTaskResponse](httpClient, baseURL+GroupServiceGetTaskProcedure, opts...),
		completeTask: connect.NewClient[api.CompleteTaskRequest, api.CompleteTaskResponse](httpClient, baseURL+GroupServiceCompleteTaskProcedure, opts...),
		removeTask:   connect.NewClient[api.RemoveTaskRequest, api.RemoveTaskResponse](httpClient, baseURL+GroupServiceRemoveTaskProcedure, opts...),
		searchGroups: connect.NewClient[api.SearchGroupsRequest, api.SearchGroupsResponse](httpClient, baseURL+GroupServiceSearchGroupsProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup  *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	groupExists  *connect.Client[api.GroupExistsRequest, api.GroupExistsResponse]
	getGroup     *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	addMember    *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	addMembers   *connect.Client[api.AddMembersRequest, api.AddMembersResponse]
	removeMember *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	getMembers   *connect.Client[api.GetMembersRequest, api.GetMembersResponse]
	listMyGroups *connect.Client[api.ListMyGroupsRequest, api.ListMyGroupsResponse]
	addTask      *connect.Client[api.AddTaskRequest, api.AddTaskResponse]
	listTasks    *connect.Client[api.ListTasksRequest, api.ListTasksResponse]
	getTask      *connect.Client[api.GetTaskRequest, api.GetTaskResponse]
	completeTask *connect.Client[api.CompleteTaskRequest, api.CompleteTaskResponse]
	removeTask   *connect.Client[api.RemoveTaskRequest, api.RemoveTaskResponse]
	searchGroups *connect.Client[api.SearchGroupsRequest, api.SearchGroupsResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GroupExists(ctx context.Context, req *connect.Request[api.GroupExistsRequest]) (*connect.Response[api.GroupExistsResponse], error) {
	return c.groupExists.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetMembers(ctx context.Context, req *connect.Request[api.GetMembersRequest]) (*connect.Response[api.GetMembersResponse], error) {
	return c.getMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	return c.listMyGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddTask(ctx context.Context, req *connect.Request[api.AddTaskRequest]) (*connect.Response[api.AddTaskResponse], error) {
	return c.addTask.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListTasks(ctx context.Context, req *connect.Request[api.ListTasksRequest]) (*connect.Response[api.ListTasksResponse], error) {
	return c.listTasks.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetTask(ctx context.Context, req *connect.Request[api.GetTaskRequest]) (*connect.Response[api.GetTaskResponse], error) {
	return c.getTask.CallUnary(ctx, req)
}

func (c *groupServiceClient) CompleteTask(ctx context.Context, req *connect.Request[api.CompleteTaskRequest]) (*connect.Response[api.CompleteTaskResponse], error) {
	return c.completeTask.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveTask(ctx context.Context, req *connect.Request[api.RemoveTaskRequest]) (*connect.Response[api.RemoveTaskResponse], error) {
	return c.removeTask.CallUnary(ctx, req)
}

func (c *groupServiceClient) SearchGroups(ctx context.Context, req *connect.Request[api.SearchGroupsRequest]) (*connect.Response[api.SearchGroupsResponse], error) {
	return c.searchGroups.CallUnary(ctx, req)
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, unimplemented(GroupServiceCreateGroupProcedure)
}

func (UnimplementedGroupServiceHandler) GroupExists(context.Context, *connect.Request[api.GroupExistsRequest]) (*connect.Response[api.GroupExistsResponse], error) {
	return nil, unimplemented(GroupServiceGroupExistsProcedure)
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, unimplemented(GroupServiceGetGroupProcedure)
}

func (UnimplementedGroupServiceHandler) AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return nil, unimplemented(GroupServiceAddMemberProcedure)
}

func (UnimplementedGroupServiceHandler) AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	return nil, unimplemented(GroupServiceAddMembersProcedure)
}

func (UnimplementedGroupServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, unimplemented(GroupServiceRemoveMemberProcedure)
}

func (UnimplementedGroupServiceHandler) GetMembers(context.Context, *connect.Request[api.GetMembersRequest]) (*connect.Response[api.GetMembersResponse], error) {
	return nil, unimplemented(GroupServiceGetMembersProcedure)
}

func (UnimplementedGroupServiceHandler) ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	return nil, unimplemented(GroupServiceListMyGroupsProcedure)
}

func (UnimplementedGroupServiceHandler) AddTask(context.Context, *connect.Request[api.AddTaskRequest]) (*connect.Response[api.AddTaskResponse], error) {
	return nil, unimplemented(GroupServiceAddTaskProcedure)
}

func (UnimplementedGroupServiceHandler) ListTasks(context.Context, *connect.Request[api.ListTasksRequest]) (*connect.Response[api.ListTasksResponse], error) {
	return nil, unimplemented(GroupServiceListTasksProcedure)
}

func (UnimplementedGroupServiceHandler) GetTask(context.Context, *connect.Request[api.GetTaskRequest]) (*connect.Response[api.GetTaskResponse], error) {
	return nil, unimplemented(GroupServiceGetTaskProcedure)
}

func (UnimplementedGroupServiceHandler) CompleteTask(context.Context, *connect.Request[api.CompleteTaskRequest]) (*connect.Response[api.CompleteTaskResponse], error) {
	return nil, unimplemented(GroupServiceCompleteTaskProcedure)
}

func (UnimplementedGroupServiceHandler) RemoveTask(context.Context, *connect.Request[api.RemoveTaskRequest]) (*connect.Response[api.RemoveTaskResponse], error) {
	return nil, unimplemented(GroupServiceRemoveTaskProcedure)
}

func (UnimplementedGroupServiceHandler) SearchGroups(context.Context, *connect.Request[api.SearchGroupsRequest]) (*connect.Response[api.SearchGroupsResponse], error) {
	return nil, unimplemented(GroupServiceSearchGroupsProcedure)
}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(procedure+" is not implemented"))
}

func route(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

func withClientCodec(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}
