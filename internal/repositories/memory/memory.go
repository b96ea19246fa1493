// Package memory keeps every repository in process memory. It backs the
// service and handler tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/repositories"
	"github.com/google/uuid"
)

// Store holds the shared state behind the repository views.
type Store struct {
	mu sync.Mutex

	nextID uint
	now    func() time.Time

	users         map[uint]*models.User
	people        map[uint]*models.Person
	photos        map[uint]*models.Photo
	photoAspects  map[uint][]uint
	posts         map[string]*models.Post
	likes         []models.Like
	comments      []models.Comment
	commentLikes  []models.CommentLike
	aspects       map[uint]*models.Aspect
	memberships   []models.AspectMembership
	notifications map[uint]*models.Notification
	actors        []models.NotificationActor
}

func NewStore() *Store {
	return &Store{
		now:           time.Now,
		users:         map[uint]*models.User{},
		people:        map[uint]*models.Person{},
		photos:        map[uint]*models.Photo{},
		photoAspects:  map[uint][]uint{},
		posts:         map[string]*models.Post{},
		aspects:       map[uint]*models.Aspect{},
		notifications: map[uint]*models.Notification{},
	}
}

// tick returns a strictly increasing time so orderings are deterministic.
func (s *Store) tick() time.Time {
	s.nextID++
	return s.now().Add(time.Duration(s.nextID) * time.Millisecond)
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

func (s *Store) Users() repositories.UserRepository                 { return users{s} }
func (s *Store) People() repositories.PersonRepository              { return people{s} }
func (s *Store) Photos() repositories.PhotoRepository               { return photos{s} }
func (s *Store) Posts() repositories.PostRepository                 { return posts{s} }
func (s *Store) Likes() repositories.LikeRepository                 { return likes{s} }
func (s *Store) Comments() repositories.CommentRepository           { return comments{s} }
func (s *Store) CommentLikes() repositories.CommentLikeRepository   { return commentLikes{s} }
func (s *Store) Aspects() repositories.AspectRepository             { return aspects{s} }
func (s *Store) Notifications() repositories.NotificationRepository { return notifications{s} }

// person returns a copy of the person with its profile.
func (s *Store) person(id uint) (models.Person, bool) {
	p, ok := s.people[id]
	if !ok {
		return models.Person{}, false
	}
	return *p, true
}

type users struct{ s *Store }

func (r users) CreateUser(ctx context.Context, user *models.User, person *models.Person) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	if person.GUID == "" {
		person.GUID = uuid.NewString()
	}
	person.ID = r.s.id()
	person.Profile.PersonID = person.ID
	user.ID = r.s.id()
	user.PersonID = person.ID
	owner := user.ID
	person.OwnerID = &owner

	stored := *person
	r.s.people[person.ID] = &stored
	u := *user
	u.Person = nil
	r.s.users[user.ID] = &u
	user.Person = person
	return nil
}

func (r users) find(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			out := *u
			if p, ok := r.s.person(u.PersonID); ok {
				out.Person = &p
			}
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r users) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r users) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r users) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.FirebaseUID != nil && *u.FirebaseUID == uid })
}

func (r users) GetUserByPersonID(ctx context.Context, personID uint) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.PersonID == personID })
}

func (r users) UpdateUser(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	u := *user
	u.Person = nil
	r.s.users[user.ID] = &u
	return nil
}

// AddPerson stores a person without an account, like a remote contact.
func (s *Store) AddPerson(person *models.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if person.GUID == "" {
		person.GUID = uuid.NewString()
	}
	person.ID = s.id()
	person.Profile.PersonID = person.ID
	stored := *person
	s.people[person.ID] = &stored
}

type people struct{ s *Store }

func (r people) GetByID(ctx context.Context, id uint) (*models.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.person(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r people) GetByGUID(ctx context.Context, guid string) (*models.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.people {
		if p.GUID == guid {
			out := *p
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r people) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uint]models.Person, len(ids))
	for _, id := range ids {
		if p, ok := r.s.person(id); ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r people) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.people[profile.PersonID]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Profile = *profile
	return nil
}

type photos struct{ s *Store }

func (r photos) withAuthor(p *models.Photo) models.Photo {
	out := *p
	if a, ok := r.s.person(p.AuthorID); ok {
		out.Author = &a
	}
	return out
}

func (r photos) CreatePhoto(ctx context.Context, photo *models.Photo, aspectIDs []uint, profile *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var owner *models.Person
	if profile != nil {
		p, ok := r.s.people[profile.PersonID]
		if !ok {
			return repositories.ErrNotFound
		}
		owner = p
	}
	if photo.GUID == "" {
		photo.GUID = uuid.NewString()
	}
	photo.ID = r.s.id()
	photo.CreatedAt = r.s.tick()
	photo.UpdatedAt = photo.CreatedAt
	stored := *photo
	stored.Author = nil
	r.s.photos[photo.ID] = &stored
	r.s.photoAspects[photo.ID] = slices.Clone(aspectIDs)
	if owner != nil {
		owner.Profile = *profile
	}
	return nil
}

func (r photos) GetPhotoByGUID(ctx context.Context, guid string) (*models.Photo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.photos {
		if p.GUID == guid {
			out := r.withAuthor(p)
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r photos) GetPhotosByGUIDs(ctx context.Context, guids []string) ([]models.Photo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Photo
	for _, p := range r.s.photos {
		if slices.Contains(guids, p.GUID) {
			out = append(out, r.withAuthor(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r photos) ListByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]models.Photo, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.Photo
	for _, p := range r.s.photos {
		if p.AuthorID == authorID {
			all = append(all, r.withAuthor(p))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r photos) AspectIDs(ctx context.Context, photoID uint) ([]uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.photoAspects[photoID]), nil
}

func (r photos) AttachToPost(ctx context.Context, authorID uint, guids []string, postGUID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.photos {
		if p.AuthorID == authorID && slices.Contains(guids, p.GUID) {
			g := postGUID
			p.StatusMessageGUID = &g
			p.Pending = false
			n++
		}
	}
	return n, nil
}

func (r photos) DeletePhoto(ctx context.Context, photo *models.Photo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.photos[photo.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.photos, photo.ID)
	delete(r.s.photoAspects, photo.ID)
	return nil
}

type posts struct{ s *Store }

func (r posts) CreatePost(ctx context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post.CreatedAt = r.s.tick()
	post.UpdatedAt = post.CreatedAt
	stored := *post
	r.s.posts[post.GUID] = &stored
	return nil
}

func (r posts) GetPostByGUID(ctx context.Context, guid string) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[guid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r posts) GetPostsByGUIDs(ctx context.Context, guids []string) (map[string]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]models.Post, len(guids))
	for _, g := range guids {
		if p, ok := r.s.posts[g]; ok {
			out[g] = *p
		}
	}
	return out, nil
}

func (r posts) GetPostsByAuthor(ctx context.Context, authorID uint, scope repositories.PostScope, skip, limit int64) ([]models.Post, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.Post
	for _, p := range r.s.posts {
		if p.AuthorID != authorID {
			continue
		}
		if scope.All || p.Public || slices.ContainsFunc(p.AspectIDs, func(id uint) bool { return slices.Contains(scope.AspectIDs, id) }) {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, int(skip), int(limit)), int64(len(all)), nil
}

func (r posts) DeletePost(ctx context.Context, guid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[guid]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.posts, guid)
	return nil
}

func (r posts) bump(guid string, likes, comments int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.posts[guid]; ok {
		p.LikesCount += likes
		p.CommentsCount += comments
	}
	return nil
}

func (r posts) IncrementLikesCount(ctx context.Context, guid string) error { return r.bump(guid, 1, 0) }

func (r posts) DecrementLikesCount(ctx context.Context, guid string) error {
	return r.bump(guid, -1, 0)
}

func (r posts) IncrementCommentsCount(ctx context.Context, guid string) error {
	return r.bump(guid, 0, 1)
}

type likes struct{ s *Store }

func (r likes) CreateLike(ctx context.Context, like *models.Like) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.likes {
		if l.PostGUID == like.PostGUID && l.AuthorID == like.AuthorID {
			return repositories.ErrDuplicate
		}
	}
	if like.GUID == "" {
		like.GUID = uuid.NewString()
	}
	like.ID = r.s.id()
	like.CreatedAt = r.s.tick()
	r.s.likes = append(r.s.likes, *like)
	return nil
}

func (r likes) DeleteLike(ctx context.Context, postGUID string, authorID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, l := range r.s.likes {
		if l.PostGUID == postGUID && l.AuthorID == authorID {
			r.s.likes = slices.Delete(r.s.likes, i, i+1)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r likes) HasLiked(ctx context.Context, postGUID string, authorID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.likes {
		if l.PostGUID == postGUID && l.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (r likes) CountByPost(ctx context.Context, postGUID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, l := range r.s.likes {
		if l.PostGUID == postGUID {
			n++
		}
	}
	return n, nil
}

type comments struct{ s *Store }

func (r comments) CreateComment(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if comment.GUID == "" {
		comment.GUID = uuid.NewString()
	}
	comment.ID = r.s.id()
	comment.CreatedAt = r.s.tick()
	stored := *comment
	stored.Author = nil
	r.s.comments = append(r.s.comments, stored)
	return nil
}

func (r comments) GetCommentByGUID(ctx context.Context, guid string) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.comments {
		if c.GUID == guid {
			if a, ok := r.s.person(c.AuthorID); ok {
				c.Author = &a
			}
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r comments) GetCommentsByPost(ctx context.Context, postGUID string) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Comment
	for _, c := range r.s.comments {
		if c.PostGUID == postGUID {
			if a, ok := r.s.person(c.AuthorID); ok {
				c.Author = &a
			}
			out = append(out, c)
		}
	}
	return out, nil
}

func (r comments) CommenterIDs(ctx context.Context, postGUID string) ([]uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uint
	for _, c := range r.s.comments {
		if c.PostGUID == postGUID && !slices.Contains(ids, c.AuthorID) {
			ids = append(ids, c.AuthorID)
		}
	}
	return ids, nil
}

type commentLikes struct{ s *Store }

func (r commentLikes) CreateCommentLike(ctx context.Context, like *models.CommentLike) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.commentLikes {
		if l.CommentID == like.CommentID && l.AuthorID == like.AuthorID {
			return repositories.ErrDuplicate
		}
	}
	like.ID = r.s.id()
	like.CreatedAt = r.s.tick()
	r.s.commentLikes = append(r.s.commentLikes, *like)
	return nil
}

func (r commentLikes) DeleteCommentLike(ctx context.Context, commentID, authorID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, l := range r.s.commentLikes {
		if l.CommentID == commentID && l.AuthorID == authorID {
			r.s.commentLikes = slices.Delete(r.s.commentLikes, i, i+1)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r commentLikes) CountByComment(ctx context.Context, commentID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, l := range r.s.commentLikes {
		if l.CommentID == commentID {
			n++
		}
	}
	return n, nil
}

type aspects struct{ s *Store }

func (r aspects) CreateAspect(ctx context.Context, aspect *models.Aspect) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.aspects {
		if a.UserID == aspect.UserID && a.Name == aspect.Name {
			return repositories.ErrDuplicate
		}
	}
	aspect.ID = r.s.id()
	aspect.CreatedAt = r.s.tick()
	stored := *aspect
	r.s.aspects[aspect.ID] = &stored
	return nil
}

func (r aspects) GetAspect(ctx context.Context, userID, aspectID uint) (*models.Aspect, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.aspects[aspectID]
	if !ok || a.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r aspects) ListAspects(ctx context.Context, userID uint) ([]models.Aspect, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Aspect
	for _, a := range r.s.aspects {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r aspects) AspectIDs(ctx context.Context, userID uint) ([]uint, error) {
	list, _ := r.ListAspects(ctx, userID)
	ids := make([]uint, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	return ids, nil
}

func (r aspects) AddMember(ctx context.Context, aspectID, personID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.memberships {
		if m.AspectID == aspectID && m.PersonID == personID {
			return false, nil
		}
	}
	r.s.memberships = append(r.s.memberships, models.AspectMembership{
		ID: r.s.id(), AspectID: aspectID, PersonID: personID, CreatedAt: r.s.tick(),
	})
	return true, nil
}

func (r aspects) RemoveMember(ctx context.Context, aspectID, personID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, m := range r.s.memberships {
		if m.AspectID == aspectID && m.PersonID == personID {
			r.s.memberships = slices.Delete(r.s.memberships, i, i+1)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r aspects) ListMembers(ctx context.Context, aspectID uint) ([]models.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Person
	for _, m := range r.s.memberships {
		if m.AspectID == aspectID {
			if p, ok := r.s.person(m.PersonID); ok {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r aspects) IsMemberOfAny(ctx context.Context, personID uint, aspectIDs []uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.memberships {
		if m.PersonID == personID && slices.Contains(aspectIDs, m.AspectID) {
			return true, nil
		}
	}
	return false, nil
}

func (r aspects) MemberAspectIDs(ctx context.Context, userID, personID uint) ([]uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uint
	for _, m := range r.s.memberships {
		if a, ok := r.s.aspects[m.AspectID]; ok && a.UserID == userID && m.PersonID == personID {
			ids = append(ids, m.AspectID)
		}
	}
	return ids, nil
}

func (r aspects) SharesWith(ctx context.Context, userID, personID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.memberships {
		if a, ok := r.s.aspects[m.AspectID]; ok && a.UserID == userID && m.PersonID == personID {
			return true, nil
		}
	}
	return false, nil
}

type notifications struct{ s *Store }

func (r notifications) FindUnread(ctx context.Context, recipientID uint, typ models.NotificationType, targetGUID string) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *models.Notification
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID && n.Type == typ && n.TargetGUID == targetGUID && n.Unread {
			if found == nil || n.ID > found.ID {
				found = n
			}
		}
	}
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	out := *found
	return &out, nil
}

func (r notifications) CreateNotification(ctx context.Context, n *models.Notification, actorID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.GUID == "" {
		n.GUID = uuid.NewString()
	}
	n.ID = r.s.id()
	n.CreatedAt = r.s.tick()
	n.UpdatedAt = n.CreatedAt
	stored := *n
	r.s.notifications[n.ID] = &stored
	r.s.actors = append(r.s.actors, models.NotificationActor{ID: r.s.id(), NotificationID: n.ID, PersonID: actorID})
	return nil
}

func (r notifications) AddActor(ctx context.Context, n *models.Notification, actorID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.notifications[n.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, a := range r.s.actors {
		if a.NotificationID == n.ID && a.PersonID == actorID {
			stored.UpdatedAt = r.s.tick()
			return nil
		}
	}
	r.s.actors = append(r.s.actors, models.NotificationActor{ID: r.s.id(), NotificationID: n.ID, PersonID: actorID})
	stored.UpdatedAt = r.s.tick()
	return nil
}

func (r notifications) List(ctx context.Context, recipientID uint, filter repositories.NotificationFilter, offset, limit int) ([]models.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.Notification
	for _, n := range r.s.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if filter.OnlyUnread && !n.Unread {
			continue
		}
		if len(filter.Types) > 0 && !slices.Contains(filter.Types, n.Type) {
			continue
		}
		if filter.After != nil && !n.CreatedAt.After(*filter.After) {
			continue
		}
		all = append(all, *n)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].UpdatedAt.Equal(all[j].UpdatedAt) {
			return all[i].UpdatedAt.After(all[j].UpdatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return page(all, offset, limit), int64(len(all)), nil
}

func (r notifications) GetByGUID(ctx context.Context, recipientID uint, guid string) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.GUID == guid && n.RecipientID == recipientID {
			out := *n
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r notifications) ActorIDs(ctx context.Context, ids []uint) (map[uint][]uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uint][]uint, len(ids))
	for _, a := range r.s.actors {
		if slices.Contains(ids, a.NotificationID) {
			out[a.NotificationID] = append(out[a.NotificationID], a.PersonID)
		}
	}
	return out, nil
}

func (r notifications) SetUnread(ctx context.Context, id uint, unread bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.notifications[id]; ok {
		n.Unread = unread
	}
	return nil
}

func (r notifications) MarkAllAsRead(ctx context.Context, recipientID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID {
			n.Unread = false
		}
	}
	return nil
}

func (r notifications) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, x := range r.s.notifications {
		if x.RecipientID == recipientID && x.Unread {
			n++
		}
	}
	return n, nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
