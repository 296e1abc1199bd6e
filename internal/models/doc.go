// Package models defines the core domain models for groupcal.
//
// # Stored Documents
//
// The document store holds four collections:
//   - groups/{groupId}: Group, keyed by the group name
//   - groups/{groupId}/tasks/{taskId}: GroupTask, keyed by TaskID(dateISO, title)
//   - users/{userId}: User profile, written by the identity provider and read-only here
//   - friendships/{friendshipId}: Friendship, one document per unordered pair
//
// # Projections
//
// MemberProfile, GroupSummary and FriendProfile are read-side views returned by the
// services and are never stored.
//
// # Design Principles
//
//  1. Members are embedded snapshots (uid, username, picture) so listing a group needs
//     no fan-out reads.
//  2. Document IDs are not duplicated inside the document body.
//  3. Field names match the stored document keys used by the web client.
package models
