package group

import (
	"errors"
	"slices"
	"strings"
)

// Domain errors
var (
	ErrEmptyName      = errors.New("group name cannot be empty")
	ErrEmptyMemberID  = errors.New("member id cannot be empty")
	ErrAlreadyInGroup = errors.New("member is already in this group")
	ErrNotInGroup     = errors.New("member is not in this group")
)

// MeetingDays lists the accepted meeting days.
var MeetingDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Group is a cell, fellowship or ministry team.
type Group struct {
	ID          string
	Name        string
	Leader      string
	MeetingDay  string
	Description string
	MemberIDs   []string
}

// Validate checks if the Group has valid data.
func (g *Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Has reports whether memberID belongs to the group.
func (g *Group) Has(memberID string) bool {
	return slices.Contains(g.MemberIDs, memberID)
}

// Size returns the number of members in the group.
func (g *Group) Size() int {
	return len(g.MemberIDs)
}

// Add appends memberID to the group.
// PRE: memberID non-empty and not already present
// POST: MemberIDs contains memberID exactly once
func (g *Group) Add(memberID string) error {
	if strings.TrimSpace(memberID) == "" {
		return ErrEmptyMemberID
	}
	if g.Has(memberID) {
		return ErrAlreadyInGroup
	}
	g.MemberIDs = append(g.MemberIDs, memberID)
	return nil
}

// Remove drops memberID from the group.
func (g *Group) Remove(memberID string) error {
	i := slices.Index(g.MemberIDs, memberID)
	if i < 0 {
		return ErrNotInGroup
	}
	g.MemberIDs = slices.Delete(g.MemberIDs, i, i+1)
	return nil
}
