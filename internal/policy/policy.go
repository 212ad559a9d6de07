// Package policy decides whether a principal may perform an action on a
// resource. Decide is pure and safe for concurrent use.
//
//	Resource   Read                     Create         Update / Delete
//	movie      public, or authenticated admin          admin
//	comment    anyone                   authenticated  author or admin
//	user role  -                        -              admin, no self-demotion
//	user       admin                    -              -
package policy

import (
	"movielib/proj/internal/domain/apperr"
	"movielib/proj/internal/domain/models"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Kind string

const (
	KindMovie    Kind = "movie"
	KindComment  Kind = "comment"
	KindUserRole Kind = "user_role"
	KindUser     Kind = "user"
)

// Resource describes the target of an action. OwnerID is zero when no one
// can claim ownership of the resource.
type Resource struct {
	Kind    Kind
	OwnerID int64
	Public  bool
	NewRole models.Role
}

func Movie(public bool) Resource {
	return Resource{Kind: KindMovie, Public: public}
}

func Comment(authorID int64) Resource {
	return Resource{Kind: KindComment, OwnerID: authorID}
}

// UserRole targets the role of the user identified by targetID.
func UserRole(targetID int64, newRole models.Role) Resource {
	return Resource{Kind: KindUserRole, OwnerID: targetID, NewRole: newRole}
}

func User(id int64) Resource {
	return Resource{Kind: KindUser, OwnerID: id}
}

type Decision struct {
	err error
}

func (d Decision) Allowed() bool {
	return d.err == nil
}

// Err returns nil on allow, otherwise an error matching either
// apperr.ErrUnauthenticated or apperr.ErrForbidden.
func (d Decision) Err() error {
	return d.err
}

var allow = Decision{}

var (
	ErrLoginRequired    = apperr.New(apperr.ErrUnauthenticated, "authentication required")
	ErrAdminRequired    = apperr.New(apperr.ErrForbidden, "admin access required")
	ErrNotCommentAuthor = apperr.New(apperr.ErrForbidden, "you can only modify your own comments")
	ErrSelfDemotion     = apperr.New(apperr.ErrForbidden, "cannot demote yourself")
	ErrUnknownRule      = apperr.New(apperr.ErrForbidden, "action is not permitted")
)

func deny(err error) Decision {
	return Decision{err: err}
}

func Decide(p models.Principal, action Action, res Resource) Decision {
	switch res.Kind {
	case KindMovie:
		return decideMovie(p, action, res)
	case KindComment:
		return decideComment(p, action, res)
	case KindUserRole:
		return decideUserRole(p, action, res)
	case KindUser:
		if action == ActionRead {
			return adminOnly(p)
		}
	}
	return deny(ErrUnknownRule)
}

func decideMovie(p models.Principal, action Action, res Resource) Decision {
	switch action {
	case ActionRead:
		if res.Public || !p.IsAnonymous() {
			return allow
		}
		return deny(ErrLoginRequired)
	case ActionCreate, ActionUpdate, ActionDelete:
		return adminOnly(p)
	}
	return deny(ErrUnknownRule)
}

func decideComment(p models.Principal, action Action, res Resource) Decision {
	switch action {
	case ActionRead:
		return allow
	case ActionCreate:
		if p.IsAnonymous() {
			return deny(ErrLoginRequired)
		}
		return allow
	case ActionUpdate, ActionDelete:
		return ownerOrAdmin(p, res.OwnerID)
	}
	return deny(ErrUnknownRule)
}

func decideUserRole(p models.Principal, action Action, res Resource) Decision {
	if action != ActionUpdate {
		return deny(ErrUnknownRule)
	}
	if d := adminOnly(p); !d.Allowed() {
		return d
	}
	if res.OwnerID == p.UserID && res.NewRole != models.RoleAdmin {
		return deny(ErrSelfDemotion)
	}
	return allow
}

func adminOnly(p models.Principal) Decision {
	switch {
	case p.IsAnonymous():
		return deny(ErrLoginRequired)
	case !p.IsAdmin():
		return deny(ErrAdminRequired)
	}
	return allow
}

// ownerOrAdmin checks the admin role first, so admins never need an owner
// match. A zero owner id can only be acted on by admins.
func ownerOrAdmin(p models.Principal, ownerID int64) Decision {
	switch {
	case p.IsAnonymous():
		return deny(ErrLoginRequired)
	case p.IsAdmin():
		return allow
	case ownerID != 0 && ownerID == p.UserID:
		return allow
	}
	return deny(ErrNotCommentAuthor)
}
