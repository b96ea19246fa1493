package presenters

import (
	"time"

	"github.com/anonto42/social-pod/backend/internal/models"
)

type PhotoJSON struct {
	GUID       string         `json:"guid"`
	CreatedAt  time.Time      `json:"created_at"`
	Post       *string        `json:"post,omitempty"`
	Dimensions DimensionsJSON `json:"dimensions"`
	Sizes      SizesJSON      `json:"sizes"`
	Author     PersonJSON     `json:"author"`
}

type DimensionsJSON struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

type SizesJSON struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

type PhotoPresenter struct {
	photo *models.Photo
}

func NewPhotoPresenter(photo *models.Photo) PhotoPresenter {
	return PhotoPresenter{photo: photo}
}

// AsAPIJSON renders the photo; Author must be loaded. The post key is present
// only for photos attached to a post.
func (p PhotoPresenter) AsAPIJSON() PhotoJSON {
	photo := p.photo
	out := PhotoJSON{
		GUID:      photo.GUID,
		CreatedAt: photo.CreatedAt,
		Dimensions: DimensionsJSON{
			Height: photo.Height,
			Width:  photo.Width,
		},
		Sizes: SizesJSON{
			Small:  photo.URL(models.SizeThumbSmall),
			Medium: photo.URL(models.SizeThumbMedium),
			Large:  photo.URL(models.SizeScaledFull),
		},
	}
	if photo.StatusMessageGUID != nil && *photo.StatusMessageGUID != "" {
		guid := *photo.StatusMessageGUID
		out.Post = &guid
	}
	if photo.Author != nil {
		out.Author = NewPersonPresenter(photo.Author).AsAPIJSON()
	}
	return out
}

func PhotosAsAPIJSON(photos []models.Photo) []PhotoJSON {
	out := make([]PhotoJSON, len(photos))
	for i := range photos {
		out[i] = NewPhotoPresenter(&photos[i]).AsAPIJSON()
	}
	return out
}
