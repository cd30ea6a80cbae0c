package entities

import (
	"time"
)

// Experience is a work history entry embedded in a profile.
type Experience struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
	From     string `json:"from"`
	To       string `json:"to,omitempty"`
	Current  bool   `json:"current"`
	Desc     string `json:"desc,omitempty"`
}

// Insurance is an insurance policy entry embedded in a profile.
type Insurance struct {
	Company   string `json:"company"`
	PolicyNum string `json:"policy_num"`
}

// Profile holds the personal details of a user, one profile per user.
type Profile struct {
	ID          string       `json:"id" db:"id"`
	UserID      string       `json:"user_id" db:"user_id"`
	Prefix      string       `json:"prefix,omitempty" db:"prefix"`
	Suffix      string       `json:"suffix,omitempty" db:"suffix"`
	Birthday    *time.Time   `json:"birthday,omitempty" db:"birthday"`
	Bio         string       `json:"bio,omitempty" db:"bio"`
	Social      Social       `json:"social" db:"-"`
	Experiences []Experience `json:"experiences" db:"-"`
	Insurance   []Insurance  `json:"insurance" db:"-"`
	CreatedAt   time.Time    `json:"date_created" db:"created_at"`
	User        *PublicUser  `json:"user,omitempty" db:"-"`
}

// ExperienceIndex returns the position of the experience with the given id,
// or -1.
func (p *Profile) ExperienceIndex(expID string) int {
	for i, e := range p.Experiences {
		if e.ID == expID {
			return i
		}
	}
	return -1
}

// AddExperience prepends an experience entry.
func (p *Profile) AddExperience(e Experience) {
	p.Experiences = append([]Experience{e}, p.Experiences...)
}

// RemoveExperience splices out the entry matching the given id.
func (p *Profile) RemoveExperience(expID string) bool {
	i := p.ExperienceIndex(expID)
	if i < 0 {
		return false
	}
	p.Experiences = append(p.Experiences[:i], p.Experiences[i+1:]...)
	return true
}
