package studio

import "errors"

var (
	ErrStudioNotFound   = errors.New("studio not found")
	ErrStudioExists     = errors.New("you already own a studio")
	ErrOwnerNotArtist   = errors.New("only artists with a profile can own a studio")
	ErrNotStudioOwner   = errors.New("only the studio owner can do this")
	ErrUnknownCatalogID = errors.New("unknown style or service")
	ErrDuplicateID      = errors.New("duplicate id in selection")

	ErrInvitationNotFound        = errors.New("invitation not found")
	ErrInvitationExpired         = errors.New("invitation has expired")
	ErrInvitationAlreadyAccepted = errors.New("invitation already accepted")
	ErrInvitationAlreadyRejected = errors.New("invitation already rejected")
	ErrInvitationPending         = errors.New("artist already has a pending invitation")
	ErrAlreadyMember             = errors.New("artist is already a member")
	ErrNotInvitee                = errors.New("invitation belongs to another user")
	ErrCannotInviteSelf          = errors.New("cannot invite yourself")
	ErrInviteeNotArtist          = errors.New("only artists with a profile can be invited")
	ErrMembershipNotFound        = errors.New("membership not found")
	ErrCannotRemoveRejected      = errors.New("rejected invitations cannot be removed")
)
