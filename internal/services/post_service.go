package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostView is a post with what is needed to present it.
type PostView struct {
	Post   *models.Post
	Author *models.Person
	Photos []models.Photo
}

// PostService handles status messages and the interactions on them.
type PostService struct {
	posts         repositories.PostRepository
	likes         repositories.LikeRepository
	comments      repositories.CommentRepository
	commentLikes  repositories.CommentLikeRepository
	aspects       repositories.AspectRepository
	people        repositories.PersonRepository
	photos        repositories.PhotoRepository
	notifications *NotificationService
	log           *zap.Logger
}

func NewPostService(
	posts repositories.PostRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	commentLikes repositories.CommentLikeRepository,
	aspects repositories.AspectRepository,
	people repositories.PersonRepository,
	photos repositories.PhotoRepository,
	notifications *NotificationService,
	log *zap.Logger,
) *PostService {
	return &PostService{
		posts:         posts,
		likes:         likes,
		comments:      comments,
		commentLikes:  commentLikes,
		aspects:       aspects,
		people:        people,
		photos:        photos,
		notifications: notifications,
		log:           log,
	}
}

// Create stores a post and attaches the author's listed photos to it.
func (s *PostService) Create(ctx context.Context, author *models.User, req models.CreatePostRequest) (*PostView, error) {
	text := strings.TrimSpace(req.Body)
	photoGUIDs, err := s.ownPhotos(ctx, author.PersonID, req.Photos)
	if err != nil {
		return nil, err
	}
	if text == "" && len(photoGUIDs) == 0 {
		return nil, ErrInvalidPost
	}

	post := &models.Post{
		GUID:       uuid.NewString(),
		AuthorID:   author.PersonID,
		Text:       text,
		Public:     req.Public,
		PhotoGUIDs: photoGUIDs,
	}
	if !req.Public {
		ids, err := s.resolveAspects(ctx, author, req.AspectIDs)
		if err != nil {
			return nil, err
		}
		post.AspectIDs = ids
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	if len(photoGUIDs) > 0 {
		if _, err := s.photos.AttachToPost(ctx, author.PersonID, photoGUIDs, post.GUID); err != nil {
			s.log.Error("failed to attach photos", zap.String("post", post.GUID), zap.Error(err))
		}
	}
	return s.view(ctx, post)
}

// ownPhotos keeps the guids of photos authored by authorID, in request order
// and without duplicates.
func (s *PostService) ownPhotos(ctx context.Context, authorID uint, guids []string) ([]string, error) {
	if len(guids) == 0 {
		return nil, nil
	}
	photos, err := s.photos.GetPhotosByGUIDs(ctx, guids)
	if err != nil {
		return nil, fmt.Errorf("load photos: %w", err)
	}
	owned := make(map[string]bool, len(photos))
	for _, p := range photos {
		if p.AuthorID == authorID {
			owned[p.GUID] = true
		}
	}
	var out []string
	for _, g := range guids {
		if owned[g] {
			out = append(out, g)
			delete(owned, g)
		}
	}
	return out, nil
}

func (s *PostService) resolveAspects(ctx context.Context, author *models.User, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return s.aspects.AspectIDs(ctx, author.ID)
	}
	for _, id := range ids {
		if _, err := s.aspects.GetAspect(ctx, author.ID, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrInvalidAspect, id)
			}
			return nil, err
		}
	}
	return ids, nil
}

// Get returns the post when viewer may see it.
func (s *PostService) Get(ctx context.Context, viewer *models.User, guid string) (*PostView, error) {
	post, err := s.visiblePost(ctx, viewer, guid)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

// Delete removes one of the viewer's posts.
func (s *PostService) Delete(ctx context.Context, viewer *models.User, guid string) error {
	post, err := s.posts.GetPostByGUID(ctx, guid)
	if err != nil {
		return postErr(err)
	}
	if post.AuthorID != viewer.PersonID {
		return ErrPostNotFound
	}
	return postErr(s.posts.DeletePost(ctx, guid))
}

// Like records the viewer's like and notifies the post author.
func (s *PostService) Like(ctx context.Context, viewer *models.User, guid string) (*models.Like, error) {
	post, err := s.visiblePost(ctx, viewer, guid)
	if err != nil {
		return nil, err
	}
	liked, err := s.likes.HasLiked(ctx, guid, viewer.PersonID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, ErrLikeExists
	}

	like := &models.Like{PostGUID: guid, AuthorID: viewer.PersonID}
	if err := s.likes.CreateLike(ctx, like); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementLikesCount(ctx, guid); err != nil {
		s.log.Error("failed to increment likes count", zap.String("post", guid), zap.Error(err))
	}
	s.notifications.NotifyQuietly(ctx, post.AuthorID, models.NotificationLiked, guid, viewer.PersonID)
	return like, nil
}

func (s *PostService) Unlike(ctx context.Context, viewer *models.User, guid string) error {
	if _, err := s.visiblePost(ctx, viewer, guid); err != nil {
		return err
	}
	if err := s.likes.DeleteLike(ctx, guid, viewer.PersonID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNoLike
		}
		return err
	}
	if err := s.posts.DecrementLikesCount(ctx, guid); err != nil {
		s.log.Error("failed to decrement likes count", zap.String("post", guid), zap.Error(err))
	}
	return nil
}

// Comment adds a comment, notifying the post author and earlier commenters.
func (s *PostService) Comment(ctx context.Context, viewer *models.User, guid, text string) (*models.Comment, error) {
	post, err := s.visiblePost(ctx, viewer, guid)
	if err != nil {
		return nil, err
	}

	earlier, err := s.comments.CommenterIDs(ctx, guid)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostGUID: guid, AuthorID: viewer.PersonID, Text: strings.TrimSpace(text)}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementCommentsCount(ctx, guid); err != nil {
		s.log.Error("failed to increment comments count", zap.String("post", guid), zap.Error(err))
	}
	if comment.Author, err = s.people.GetByID(ctx, viewer.PersonID); err != nil {
		return nil, err
	}

	s.notifications.NotifyQuietly(ctx, post.AuthorID, models.NotificationCommentOnPost, guid, viewer.PersonID)
	for _, personID := range earlier {
		if personID == post.AuthorID {
			continue
		}
		s.notifications.NotifyQuietly(ctx, personID, models.NotificationAlsoCommented, guid, viewer.PersonID)
	}
	return comment, nil
}

// LikeComment records the viewer's like on a comment and notifies its author.
func (s *PostService) LikeComment(ctx context.Context, viewer *models.User, commentGUID string) error {
	comment, err := s.visibleComment(ctx, viewer, commentGUID)
	if err != nil {
		return err
	}
	err = s.commentLikes.CreateCommentLike(ctx, &models.CommentLike{CommentID: comment.ID, AuthorID: viewer.PersonID})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrLikeExists
		}
		return err
	}
	s.notifications.NotifyQuietly(ctx, comment.AuthorID, models.NotificationLikedComment, comment.PostGUID, viewer.PersonID)
	return nil
}

// UnlikeComment removes the viewer's like from a comment.
func (s *PostService) UnlikeComment(ctx context.Context, viewer *models.User, commentGUID string) error {
	comment, err := s.visibleComment(ctx, viewer, commentGUID)
	if err != nil {
		return err
	}
	if err := s.commentLikes.DeleteCommentLike(ctx, comment.ID, viewer.PersonID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNoLike
		}
		return err
	}
	return nil
}

// visibleComment loads a comment on a post the viewer may see.
func (s *PostService) visibleComment(ctx context.Context, viewer *models.User, guid string) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if _, err := s.visiblePost(ctx, viewer, comment.PostGUID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// Stream returns a page of the person's posts the viewer may see, newest
// first: everything for the viewer's own stream, otherwise public posts and
// posts shared with an aspect of the author's that the viewer is in.
func (s *PostService) Stream(ctx context.Context, viewer *models.User, personGUID string, page, perPage int) ([]PostView, int64, error) {
	author, err := s.people.GetByGUID(ctx, personGUID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, 0, ErrPersonNotFound
		}
		return nil, 0, err
	}

	var scope repositories.PostScope
	switch {
	case author.ID == viewer.PersonID:
		scope.All = true
	case author.Local():
		if scope.AspectIDs, err = s.aspects.MemberAspectIDs(ctx, *author.OwnerID, viewer.PersonID); err != nil {
			return nil, 0, err
		}
	}

	posts, total, err := s.posts.GetPostsByAuthor(ctx, author.ID, scope, int64((page-1)*perPage), int64(perPage))
	if err != nil {
		return nil, 0, err
	}

	var guids []string
	for _, p := range posts {
		guids = append(guids, p.PhotoGUIDs...)
	}
	photos, err := s.photos.GetPhotosByGUIDs(ctx, guids)
	if err != nil {
		return nil, 0, fmt.Errorf("load photos: %w", err)
	}
	views := make([]PostView, len(posts))
	for i := range posts {
		views[i] = PostView{Post: &posts[i], Author: author, Photos: postPhotos(&posts[i], photos)}
	}
	return views, total, nil
}

func (s *PostService) Comments(ctx context.Context, viewer *models.User, guid string) ([]models.Comment, error) {
	if _, err := s.visiblePost(ctx, viewer, guid); err != nil {
		return nil, err
	}
	return s.comments.GetCommentsByPost(ctx, guid)
}

func (s *PostService) visiblePost(ctx context.Context, viewer *models.User, guid string) (*models.Post, error) {
	post, err := s.posts.GetPostByGUID(ctx, guid)
	if err != nil {
		return nil, postErr(err)
	}
	if post.AuthorID == viewer.PersonID || post.Public {
		return post, nil
	}
	ok, err := s.aspects.IsMemberOfAny(ctx, viewer.PersonID, post.AspectIDs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) view(ctx context.Context, post *models.Post) (*PostView, error) {
	author, err := s.people.GetByID(ctx, post.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}
	photos, err := s.photos.GetPhotosByGUIDs(ctx, post.PhotoGUIDs)
	if err != nil {
		return nil, fmt.Errorf("load photos: %w", err)
	}
	return &PostView{Post: post, Author: author, Photos: postPhotos(post, photos)}, nil
}

// postPhotos picks the post author's photos from loaded in the order the post
// lists them.
func postPhotos(post *models.Post, loaded []models.Photo) []models.Photo {
	byGUID := make(map[string]models.Photo, len(loaded))
	for _, p := range loaded {
		if p.AuthorID == post.AuthorID {
			byGUID[p.GUID] = p
		}
	}
	out := []models.Photo{}
	for _, g := range post.PhotoGUIDs {
		if p, ok := byGUID[g]; ok {
			out = append(out, p)
		}
	}
	return out
}

func postErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}
