package presenters

import "github.com/anonto42/social-pod/backend/internal/models"

// PersonJSON is the one representation of a person used across the API.
type PersonJSON struct {
	GUID       string `json:"guid"`
	DiasporaID string `json:"diaspora_id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
}

type PersonPresenter struct {
	person *models.Person
}

func NewPersonPresenter(person *models.Person) PersonPresenter {
	return PersonPresenter{person: person}
}

func (p PersonPresenter) AsAPIJSON() PersonJSON {
	return PersonJSON{
		GUID:       p.person.GUID,
		DiasporaID: p.person.DiasporaHandle,
		Name:       p.person.Name(),
		Avatar:     p.person.Profile.ImageURL,
	}
}

// ProfileJSON extends PersonJSON with the editable profile fields.
type ProfileJSON struct {
	PersonJSON
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatars   struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"avatars"`
}

func (p PersonPresenter) AsProfileJSON() ProfileJSON {
	out := ProfileJSON{
		PersonJSON: p.AsAPIJSON(),
		FirstName:  p.person.Profile.FirstName,
		LastName:   p.person.Profile.LastName,
	}
	out.Avatars.Small = p.person.Profile.ImageURLSmall
	out.Avatars.Medium = p.person.Profile.ImageURLMedium
	out.Avatars.Large = p.person.Profile.ImageURL
	return out
}
