package services

import "errors"

var (
	ErrPhotoNotFound        = errors.New("photo not found")
	ErrInvalidImage         = errors.New("invalid image upload")
	ErrInvalidAspect        = errors.New("aspect does not belong to user")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrInvalidPost          = errors.New("post has neither text nor photos")
	ErrLikeExists           = errors.New("like already exists")
	ErrNoLike               = errors.New("like does not exist")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrPersonNotFound       = errors.New("person not found")
)
