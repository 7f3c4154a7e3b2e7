package models

import (
	"errors"
	"time"
)

type MatchStatus string

const (
	MatchStatusPending        MatchStatus = "PENDING"
	MatchStatusMutualInterest MatchStatus = "MUTUAL_INTEREST"
	MatchStatusNotInterested  MatchStatus = "NOT_INTERESTED"
	MatchStatusExpired        MatchStatus = "EXPIRED"
)

// IsTerminal reports whether no further transition is possible
func (s MatchStatus) IsTerminal() bool {
	switch s {
	case MatchStatusMutualInterest, MatchStatusNotInterested, MatchStatusExpired:
		return true
	default:
		return false
	}
}

type MatchAction string

const (
	MatchActionInterested    MatchAction = "INTERESTED"
	MatchActionNotInterested MatchAction = "NOT_INTERESTED"
)

func (a MatchAction) IsValid() bool {
	return a == MatchActionInterested || a == MatchActionNotInterested
}

// Side of a match a profile is on
type Side int

const (
	SideNone Side = iota
	SideSender
	SideReceiver
)

func (s Side) String() string {
	switch s {
	case SideSender:
		return "sender"
	case SideReceiver:
		return "receiver"
	default:
		return "none"
	}
}

var (
	ErrMatchClosed   = errors.New("match is already closed")
	ErrInvalidAction = errors.New("invalid match action")
	ErrInvalidSide   = errors.New("invalid match side")
)

// Match is a directed, scored proposal from one profile to another
type Match struct {
	ID          string `json:"id"`
	SenderID    string `json:"senderId"`
	ReceiverID  string `json:"receiverId"`
	HackathonID string `json:"hackathonId"`

	MatchScore    float64 `json:"matchScore"`
	SkillScore    float64 `json:"skillScore"`
	TimezoneScore float64 `json:"timezoneScore"`

	Strengths      []string `json:"strengths"`
	Considerations []string `json:"considerations"`

	Status         MatchStatus  `json:"status"`
	SenderAction   *MatchAction `json:"senderAction,omitempty"`
	ReceiverAction *MatchAction `json:"receiverAction,omitempty"`

	Candidate *Profile `json:"candidate,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// NewMatch creates a pending proposal
func NewMatch(id, senderID, receiverID, hackathonID string, now time.Time) *Match {
	return &Match{
		ID:          id,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		HackathonID: hackathonID,
		Status:      MatchStatusPending,
		CreatedAt:   now,
	}
}

// SideOf returns which side of the match the profile is on
func (m *Match) SideOf(profileID string) Side {
	switch profileID {
	case m.SenderID:
		return SideSender
	case m.ReceiverID:
		return SideReceiver
	default:
		return SideNone
	}
}

// Respond records one side's action and derives the resulting status.
// Any NOT_INTERESTED closes the match; two INTERESTED make it mutual.
func (m *Match) Respond(side Side, action MatchAction, now time.Time) error {
	if m.Status.IsTerminal() {
		return ErrMatchClosed
	}
	if !action.IsValid() {
		return ErrInvalidAction
	}

	a := action
	switch side {
	case SideSender:
		m.SenderAction = &a
	case SideReceiver:
		m.ReceiverAction = &a
	default:
		return ErrInvalidSide
	}

	m.Status = deriveStatus(m.SenderAction, m.ReceiverAction)
	m.touch(now)

	return nil
}

// Expire closes a pending match
func (m *Match) Expire(now time.Time) error {
	if m.Status.IsTerminal() {
		return ErrMatchClosed
	}

	m.Status = MatchStatusExpired
	m.touch(now)

	return nil
}

// IsStale reports whether a pending match is older than ttl
func (m *Match) IsStale(now time.Time, ttl time.Duration) bool {
	return m.Status == MatchStatusPending && now.Sub(m.CreatedAt) >= ttl
}

func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}

	c := *m
	c.Strengths = cloneStrings(m.Strengths)
	c.Considerations = cloneStrings(m.Considerations)
	c.SenderAction = cloneAction(m.SenderAction)
	c.ReceiverAction = cloneAction(m.ReceiverAction)
	c.Candidate = m.Candidate.Clone()
	c.UpdatedAt = cloneTime(m.UpdatedAt)

	return &c
}

func (m *Match) touch(now time.Time) {
	t := now
	m.UpdatedAt = &t
}

func deriveStatus(sender, receiver *MatchAction) MatchStatus {
	if isAction(sender, MatchActionNotInterested) || isAction(receiver, MatchActionNotInterested) {
		return MatchStatusNotInterested
	}
	if isAction(sender, MatchActionInterested) && isAction(receiver, MatchActionInterested) {
		return MatchStatusMutualInterest
	}
	return MatchStatusPending
}

func isAction(a *MatchAction, want MatchAction) bool {
	return a != nil && *a == want
}

func cloneAction(a *MatchAction) *MatchAction {
	if a == nil {
		return nil
	}
	v := *a
	return &v
}
