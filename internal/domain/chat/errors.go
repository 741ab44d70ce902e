package chat

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("you are not part of this conversation")
	ErrCannotChatSelf       = errors.New("cannot start chat with yourself")
	ErrUserNotFound         = errors.New("user not found")
	ErrAwaitingAcceptance   = errors.New("waiting for the artist to accept this conversation")
	ErrConversationDeclined = errors.New("conversation was declined")
	ErrNotRecipient         = errors.New("only the contacted user can answer a request")
	ErrNotRequested         = errors.New("conversation is not awaiting a response")
	ErrEmptyMessage         = errors.New("message needs content or media")
	ErrInvalidMessageID     = errors.New("message id must be a uuid")
	ErrMessageIDConflict    = errors.New("message id already used")
	ErrBlocked              = errors.New("user has blocked you or you have blocked user")
)
