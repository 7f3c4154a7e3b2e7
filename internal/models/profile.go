package models

import "time"

// Profile is a participant's declared skills and preferences for one hackathon
type Profile struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	HackathonID string `json:"hackathonId"`

	Skills     []string `json:"skills"`
	LookingFor []string `json:"lookingFor"`

	PreferredRole *string `json:"preferredRole,omitempty"`
	Availability  *string `json:"availability,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	GithubURL     *string `json:"githubUrl,omitempty"`

	// chat for mutual interest notifications
	TelegramChatID *int64 `json:"telegramChatId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy so stored records never alias caller memory
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}

	c := *p
	c.Skills = cloneStrings(p.Skills)
	c.LookingFor = cloneStrings(p.LookingFor)
	c.PreferredRole = cloneString(p.PreferredRole)
	c.Availability = cloneString(p.Availability)
	c.Bio = cloneString(p.Bio)
	c.GithubURL = cloneString(p.GithubURL)

	if p.TelegramChatID != nil {
		id := *p.TelegramChatID
		c.TelegramChatID = &id
	}

	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
