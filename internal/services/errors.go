package services

import "errors"

var (
	// ErrEmailTaken is returned on signup with an already registered email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailNotVerified is returned on sign-in before email verification.
	ErrEmailNotVerified = errors.New("email is not verified")
	// ErrInvalidVerifyCode is returned for a wrong verification code.
	ErrInvalidVerifyCode = errors.New("invalid verification code")
	// ErrSelfSwipe is returned when a user swipes on themselves.
	ErrSelfSwipe = errors.New("cannot swipe on yourself")
	// ErrNotParticipant is returned when a user acts on a match they are not part of.
	ErrNotParticipant = errors.New("user is not a participant of this match")
	// ErrEmptyMessage is returned for a message with no content.
	ErrEmptyMessage = errors.New("message content is empty")
)
