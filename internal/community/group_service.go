package community

import (
	"context"
	"errors"
	"fmt"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/api"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/mutation"
)

// ErrAlreadyInGroup enforces membership exclusivity: a user belongs to at
// most one group at a time and must leave it before joining another.
var ErrAlreadyInGroup = errors.New("already a member of another group")

// GroupService handles group membership, including the one-group-per-user
// constraint the chat channel exclusivity derives from.
type GroupService struct {
	client    *api.Client
	mutations *mutation.Controller
}

// NewGroupService creates a new GroupService.
func NewGroupService(client *api.Client, mutations *mutation.Controller) *GroupService {
	return &GroupService{client: client, mutations: mutations}
}

// HasOtherGroup reports whether the current user belongs to a group other
// than the given one.
func (s *GroupService) HasOtherGroup(ctx context.Context, groupID int64) (bool, error) {
	memberships, err := s.client.Memberships(ctx)
	if err != nil {
		return false, err
	}
	if len(memberships) == 0 {
		return false, nil
	}
	for _, m := range memberships {
		if m.ID == groupID {
			return false, nil
		}
	}
	return true, nil
}

// Join adds the user to a group after checking exclusivity locally; the
// server enforces it authoritatively either way.
func (s *GroupService) Join(ctx context.Context, groupID int64) error {
	other, err := s.HasOtherGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if other {
		return ErrAlreadyInGroup
	}

	return mutation.SubmitAppend(ctx, s.mutations, mutation.Append[int64]{
		EntityID: fmt.Sprintf("group:%d:membership", groupID),
		Confirm: func(ctx context.Context) (int64, error) {
			return groupID, s.client.JoinGroup(ctx, groupID)
		},
		Commit: func(int64) {},
	})
}

// Leave removes the user from a group.
func (s *GroupService) Leave(ctx context.Context, groupID int64) error {
	return mutation.SubmitAppend(ctx, s.mutations, mutation.Append[int64]{
		EntityID: fmt.Sprintf("group:%d:membership", groupID),
		Confirm: func(ctx context.Context) (int64, error) {
			return groupID, s.client.LeaveGroup(ctx, groupID)
		},
		Commit: func(int64) {},
	})
}
