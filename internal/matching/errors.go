package matching

import "errors"

var (
	ErrInvalidProfile    = errors.New("profile needs user and hackathon")
	ErrDuplicateProfile  = errors.New("user already has a profile in this hackathon")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrMatchNotFound     = errors.New("match not found")
	ErrNotParticipant    = errors.New("profile is not part of this match")
	ErrSelfMatch         = errors.New("cannot match a profile with itself")
	ErrHackathonMismatch = errors.New("profiles belong to a different hackathon")
	ErrInvalidScore      = errors.New("score must be between 0 and 100")
)
