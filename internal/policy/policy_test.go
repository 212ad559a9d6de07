package policy

import (
	"errors"
	"testing"

	"movielib/proj/internal/domain/apperr"
	"movielib/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

var (
	anonymous = models.AnonymousPrincipal
	alice     = models.Principal{UserID: 1, Username: "alice", Role: models.RoleUser}
	bob       = models.Principal{UserID: 2, Username: "bob", Role: models.RoleUser}
	admin     = models.Principal{UserID: 3, Username: "root", Role: models.RoleAdmin}

	principals = []models.Principal{anonymous, alice, bob, admin}
)

func TestMovieMutationsRequireAdmin(t *testing.T) {
	for _, p := range principals {
		for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
			for _, public := range []bool{true, false} {
				d := Decide(p, action, Movie(public))
				assert.Equal(t, p.IsAdmin(), d.Allowed(), "principal %+v action %s", p, action)
			}
		}
	}
}

func TestMovieMutationErrors(t *testing.T) {
	d := Decide(anonymous, ActionCreate, Movie(true))
	assert.ErrorIs(t, d.Err(), apperr.ErrUnauthenticated)

	d = Decide(alice, ActionDelete, Movie(true))
	assert.ErrorIs(t, d.Err(), apperr.ErrForbidden)
	assert.ErrorIs(t, d.Err(), ErrAdminRequired)
}

func TestMovieRead(t *testing.T) {
	assert.True(t, Decide(anonymous, ActionRead, Movie(true)).Allowed())

	d := Decide(anonymous, ActionRead, Movie(false))
	assert.False(t, d.Allowed())
	assert.ErrorIs(t, d.Err(), apperr.ErrUnauthenticated)

	for _, p := range []models.Principal{alice, admin} {
		assert.True(t, Decide(p, ActionRead, Movie(false)).Allowed())
	}
}

func TestCommentOwnership(t *testing.T) {
	owners := []int64{0, alice.UserID, bob.UserID, admin.UserID}
	for _, p := range principals {
		for _, owner := range owners {
			for _, action := range []Action{ActionUpdate, ActionDelete} {
				d := Decide(p, action, Comment(owner))
				want := p.IsAdmin() || (!p.IsAnonymous() && p.UserID == owner)
				assert.Equal(t, want, d.Allowed(), "principal %+v owner %d action %s", p, owner, action)
			}
		}
	}
}

func TestCommentDenialKinds(t *testing.T) {
	assert.ErrorIs(t, Decide(anonymous, ActionUpdate, Comment(alice.UserID)).Err(), apperr.ErrUnauthenticated)
	assert.ErrorIs(t, Decide(bob, ActionDelete, Comment(alice.UserID)).Err(), ErrNotCommentAuthor)
	assert.ErrorIs(t, Decide(alice, ActionDelete, Comment(0)).Err(), apperr.ErrForbidden)
	assert.True(t, Decide(admin, ActionDelete, Comment(0)).Allowed())
}

func TestCommentReadAndCreate(t *testing.T) {
	for _, p := range principals {
		assert.True(t, Decide(p, ActionRead, Comment(alice.UserID)).Allowed())
		assert.Equal(t, !p.IsAnonymous(), Decide(p, ActionCreate, Comment(0)).Allowed())
	}
}

func TestUserRole(t *testing.T) {
	testCases := []struct {
		name    string
		p       models.Principal
		target  int64
		role    models.Role
		wantErr error
	}{
		{"anonymous", anonymous, alice.UserID, models.RoleAdmin, apperr.ErrUnauthenticated},
		{"user promotes self", alice, alice.UserID, models.RoleAdmin, ErrAdminRequired},
		{"user demotes other", alice, bob.UserID, models.RoleUser, ErrAdminRequired},
		{"admin promotes user", admin, alice.UserID, models.RoleAdmin, nil},
		{"admin demotes user", admin, bob.UserID, models.RoleUser, nil},
		{"admin keeps own admin role", admin, admin.UserID, models.RoleAdmin, nil},
		{"admin demotes self", admin, admin.UserID, models.RoleUser, ErrSelfDemotion},
		{"admin sets unknown role on self", admin, admin.UserID, models.Role("owner"), ErrSelfDemotion},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.p, ActionUpdate, UserRole(tc.target, tc.role))
			if tc.wantErr == nil {
				assert.True(t, d.Allowed())
				assert.NoError(t, d.Err())
				return
			}
			assert.False(t, d.Allowed())
			assert.True(t, errors.Is(d.Err(), tc.wantErr), "got %v", d.Err())
		})
	}
}

func TestUserRoleOnlySupportsUpdate(t *testing.T) {
	for _, action := range []Action{ActionRead, ActionCreate, ActionDelete} {
		assert.ErrorIs(t, Decide(admin, action, UserRole(alice.UserID, models.RoleAdmin)).Err(), ErrUnknownRule)
	}
}

func TestUserAccounts(t *testing.T) {
	assert.True(t, Decide(admin, ActionRead, User(alice.UserID)).Allowed())
	assert.ErrorIs(t, Decide(alice, ActionRead, User(alice.UserID)).Err(), apperr.ErrForbidden)
	assert.ErrorIs(t, Decide(anonymous, ActionRead, User(alice.UserID)).Err(), apperr.ErrUnauthenticated)
	assert.False(t, Decide(admin, ActionDelete, User(alice.UserID)).Allowed())
}

func TestUnknownKindIsDenied(t *testing.T) {
	d := Decide(admin, ActionRead, Resource{Kind: "playlist"})
	assert.ErrorIs(t, d.Err(), apperr.ErrForbidden)
}
