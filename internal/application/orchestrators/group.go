package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"churchdesk/internal/domain/group"
)

// GroupStore defines the groups table operations.
type GroupStore interface {
	Create(ctx context.Context, build func(id string) (group.Group, error)) (group.Group, error)
	Update(ctx context.Context, id string, mutate func(*group.Group) error) (group.Group, error)
}

// GroupDeps holds dependencies for the group orchestrators.
type GroupDeps struct {
	GroupStore  GroupStore
	MemberStore MemberLookup
}

// CreateGroupInput carries input for the orchestrator.
type CreateGroupInput struct {
	Name        string
	Leader      string
	MeetingDay  string
	Description string
}

// ExecuteCreateGroup creates an empty group.
func ExecuteCreateGroup(ctx context.Context, input CreateGroupInput, deps GroupDeps) (group.Group, error) {
	g, err := deps.GroupStore.Create(ctx, func(id string) (group.Group, error) {
		g := group.Group{
			ID:          id,
			Name:        strings.TrimSpace(input.Name),
			Leader:      strings.TrimSpace(input.Leader),
			MeetingDay:  input.MeetingDay,
			Description: input.Description,
		}
		return g, g.Validate()
	})
	if err != nil {
		return group.Group{}, err
	}
	slog.Info("group_event", "event", "group_created", "group_id", g.ID)
	return g, nil
}

// ExecuteAddGroupMember adds an existing member to a group.
// PRE: group and member exist
// POST: member appears once in the group, or group.ErrAlreadyInGroup
func ExecuteAddGroupMember(ctx context.Context, groupID, memberID string, deps GroupDeps) (group.Group, error) {
	if _, err := deps.MemberStore.GetByID(ctx, memberID); err != nil {
		return group.Group{}, err
	}
	g, err := deps.GroupStore.Update(ctx, groupID, func(g *group.Group) error {
		return g.Add(memberID)
	})
	if err != nil {
		return group.Group{}, err
	}
	slog.Info("group_event", "event", "group_member_added", "group_id", g.ID, "member_id", memberID, "size", g.Size())
	return g, nil
}

// ExecuteRemoveGroupMember removes a member from a group.
func ExecuteRemoveGroupMember(ctx context.Context, groupID, memberID string, deps GroupDeps) (group.Group, error) {
	g, err := deps.GroupStore.Update(ctx, groupID, func(g *group.Group) error {
		return g.Remove(memberID)
	})
	if err != nil {
		return group.Group{}, err
	}
	slog.Info("group_event", "event", "group_member_removed", "group_id", g.ID, "member_id", memberID)
	return g, nil
}
