package i18n

import (
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
)

// Message keys of the API error catalog.
const (
	PhotosNotFound           = "api.endpoint_errors.photos.not_found"
	PhotosFailedCreate       = "api.endpoint_errors.photos.failed_create"
	PhotosFailedDelete       = "api.endpoint_errors.photos.failed_delete"
	PostsNotFound            = "api.endpoint_errors.posts.not_found"
	PostsFailedCreate        = "api.endpoint_errors.posts.failed_create"
	PostsFailedDelete        = "api.endpoint_errors.posts.failed_delete"
	CommentsFailedCreate     = "api.endpoint_errors.comments.not_allowed"
	CommentsNotFound         = "api.endpoint_errors.comments.not_found"
	LikesLikeExists          = "api.endpoint_errors.likes.like_exists"
	LikesNoLike              = "api.endpoint_errors.likes.no_like"
	NotificationsNotFound    = "api.endpoint_errors.notifications.not_found"
	NotificationsCantProcess = "api.endpoint_errors.notifications.cant_process"
	AspectsNotFound          = "api.endpoint_errors.aspects.not_found"
	AspectsCantCreate        = "api.endpoint_errors.aspects.cant_create"
	ContactsNotFound         = "api.endpoint_errors.contacts.not_found"
	ContactsCantCreate       = "api.endpoint_errors.contacts.cant_create"
	UsersNotFound            = "api.endpoint_errors.users.not_found"
	PeopleNotFound           = "api.endpoint_errors.people.not_found"
	AuthInvalidCredentials   = "api.endpoint_errors.auth.invalid_credentials"
	AuthInsufficientScope    = "api.endpoint_errors.auth.insufficient_scope"
	AuthBadLogin             = "api.endpoint_errors.auth.bad_login"
	AuthAccountExists        = "api.endpoint_errors.auth.account_exists"
	AuthInvalidRequest       = "api.endpoint_errors.auth.invalid_request"
	AuthFirebaseUnavailable  = "api.endpoint_errors.auth.firebase_unavailable"
	UsersCantUpdate          = "api.endpoint_errors.users.cant_update"
)

var english = map[string]string{
	PhotosNotFound:           "Photo with provided guid could not be found",
	PhotosFailedCreate:       "Failed to create the photo",
	PhotosFailedDelete:       "Not allowed to delete the photo",
	PostsNotFound:            "Post with provided guid could not be found",
	PostsFailedCreate:        "Failed to create the post",
	PostsFailedDelete:        "Not allowed to delete the post",
	CommentsFailedCreate:     "User is not allowed to comment",
	CommentsNotFound:         "Comment with provided guid could not be found",
	LikesLikeExists:          "Like already exists",
	LikesNoLike:              "Like doesn't exist",
	NotificationsNotFound:    "Notification with provided guid could not be found",
	NotificationsCantProcess: "Couldn't process the notifications request",
	AspectsNotFound:          "Aspect with provided ID could not be found",
	AspectsCantCreate:        "Failed to create the aspect",
	ContactsNotFound:         "Contact could not be found",
	ContactsCantCreate:       "Failed to add user to aspect",
	UsersNotFound:            "User not found",
	PeopleNotFound:           "Person with provided guid could not be found",
	AuthInvalidCredentials:   "Invalid or expired access token",
	AuthInsufficientScope:    "The access token lacks the required scope",
	AuthBadLogin:             "Invalid email or password",
	AuthAccountExists:        "An account with this username or email already exists",
	AuthInvalidRequest:       "The request could not be processed",
	AuthFirebaseUnavailable:  "Firebase sign-in is not configured",
	UsersCantUpdate:          "Failed to update the profile",
}

// NewTranslator builds the API message translator for locale. Only English
// is bundled; other locales fall back to it.
func NewTranslator(locale string) (ut.Translator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	trans, found := uni.GetTranslator(locale)
	if !found {
		trans, _ = uni.GetTranslator("en")
	}
	for key, text := range english {
		if err := trans.Add(key, text, false); err != nil {
			return nil, fmt.Errorf("add translation %s: %w", key, err)
		}
	}
	return trans, nil
}

// T translates key, returning the key itself when it is not in the catalog.
func T(trans ut.Translator, key string) string {
	text, err := trans.T(key)
	if err != nil {
		return key
	}
	return text
}
