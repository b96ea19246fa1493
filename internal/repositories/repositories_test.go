package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB migrates the relational schema into a throwaway SQLite file.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "pod.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Person{},
		&models.Profile{},
		&models.Aspect{},
		&models.AspectMembership{},
		&models.Photo{},
		&models.PhotoAspect{},
		&models.Like{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Notification{},
		&models.NotificationActor{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@pod.example"}
	p := &models.Person{DiasporaHandle: name + "@pod.example", Profile: models.Profile{FirstName: name}}
	require.NoError(t, NewPostgresUserRepository(db).CreateUser(context.Background(), u, p))
	return u
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	require.NotZero(t, alice.PersonID)

	got, err := repo.GetUserByEmail(ctx, "ALICE@pod.example")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	require.NotNil(t, got.Person)
	require.NotNil(t, got.Person.OwnerID)
	assert.Equal(t, alice.ID, *got.Person.OwnerID)
	assert.Equal(t, "alice", got.Person.Profile.FirstName)

	_, err = repo.GetUserByEmail(ctx, "nobody@pod.example")
	assert.ErrorIs(t, err, ErrNotFound)

	dup := &models.User{Username: "alice", Email: "other@pod.example"}
	err = repo.CreateUser(ctx, dup, &models.Person{DiasporaHandle: "alice2@pod.example"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestNotificationRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	liked := &models.Notification{RecipientID: alice.ID, Type: models.NotificationLiked, TargetGUID: "post-1", Unread: true}
	require.NoError(t, repo.CreateNotification(ctx, liked, bob.PersonID))
	commented := &models.Notification{RecipientID: alice.ID, Type: models.NotificationCommentOnPost, TargetGUID: "post-1", Unread: true}
	require.NoError(t, repo.CreateNotification(ctx, commented, carol.PersonID))

	t.Run("find unread", func(t *testing.T) {
		found, err := repo.FindUnread(ctx, alice.ID, models.NotificationLiked, "post-1")
		require.NoError(t, err)
		assert.Equal(t, liked.ID, found.ID)
		_, err = repo.FindUnread(ctx, alice.ID, models.NotificationLiked, "post-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("actors keep insertion order and are added once", func(t *testing.T) {
		require.NoError(t, repo.AddActor(ctx, liked, carol.PersonID))
		require.NoError(t, repo.AddActor(ctx, liked, bob.PersonID))

		actors, err := repo.ActorIDs(ctx, []uint{liked.ID, commented.ID})
		require.NoError(t, err)
		assert.Equal(t, []uint{bob.PersonID, carol.PersonID}, actors[liked.ID])
		assert.Equal(t, []uint{carol.PersonID}, actors[commented.ID])
	})

	t.Run("most recently updated first", func(t *testing.T) {
		list, total, err := repo.List(ctx, alice.ID, NotificationFilter{}, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, list, 2)
		assert.Equal(t, liked.ID, list[0].ID)
		assert.Equal(t, commented.ID, list[1].ID)
	})

	t.Run("type filter", func(t *testing.T) {
		list, total, err := repo.List(ctx, alice.ID, NotificationFilter{Types: []models.NotificationType{models.NotificationCommentOnPost}}, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, commented.ID, list[0].ID)
	})

	t.Run("after filter", func(t *testing.T) {
		after := commented.CreatedAt
		list, _, err := repo.List(ctx, alice.ID, NotificationFilter{After: &after}, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, list)

		before := liked.CreatedAt.Add(-1)
		list, _, err = repo.List(ctx, alice.ID, NotificationFilter{After: &before}, 0, 10)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("read state", func(t *testing.T) {
		require.NoError(t, repo.SetUnread(ctx, liked.ID, false))
		count, err := repo.GetUnreadCount(ctx, alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		list, _, err := repo.List(ctx, alice.ID, NotificationFilter{OnlyUnread: true}, 0, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, commented.ID, list[0].ID)

		require.NoError(t, repo.MarkAllAsRead(ctx, alice.ID))
		count, err = repo.GetUnreadCount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Zero(t, count)

		got, err := repo.GetByGUID(ctx, alice.ID, commented.GUID)
		require.NoError(t, err)
		assert.False(t, got.Unread)
		_, err = repo.GetByGUID(ctx, bob.ID, commented.GUID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPhotoRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresPhotoRepository(db)
	people := NewPostgresPersonRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	aspect := &models.Aspect{UserID: alice.ID, Name: "Friends"}
	require.NoError(t, NewPostgresAspectRepository(db).CreateAspect(ctx, aspect))

	first := &models.Photo{AuthorID: alice.PersonID, Pending: true, URLThumbSmall: "s1"}
	require.NoError(t, repo.CreatePhoto(ctx, first, []uint{aspect.ID}, nil))
	second := &models.Photo{AuthorID: alice.PersonID, Public: true, URLThumbSmall: "s2"}
	require.NoError(t, repo.CreatePhoto(ctx, second, nil, nil))
	others := &models.Photo{AuthorID: bob.PersonID}
	require.NoError(t, repo.CreatePhoto(ctx, others, nil, nil))

	ids, err := repo.AspectIDs(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{aspect.ID}, ids)

	got, err := repo.GetPhotoByGUID(ctx, first.GUID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Profile.FirstName)
	assert.True(t, got.Pending)

	page, total, err := repo.ListByAuthor(ctx, alice.PersonID, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, second.GUID, page[0].GUID)

	n, err := repo.AttachToPost(ctx, alice.PersonID, []string{first.GUID, others.GUID}, "post-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	loaded, err := repo.GetPhotosByGUIDs(ctx, []string{first.GUID, others.GUID})
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	for _, p := range loaded {
		if p.GUID == first.GUID {
			require.NotNil(t, p.StatusMessageGUID)
			assert.Equal(t, "post-1", *p.StatusMessageGUID)
			assert.False(t, p.Pending)
		} else {
			assert.Nil(t, p.StatusMessageGUID)
		}
	}

	require.NoError(t, repo.DeletePhoto(ctx, first))
	_, err = repo.GetPhotoByGUID(ctx, first.GUID)
	assert.ErrorIs(t, err, ErrNotFound)
	ids, err = repo.AspectIDs(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.ErrorIs(t, repo.DeletePhoto(ctx, first), ErrNotFound)

	t.Run("profile saved with the photo", func(t *testing.T) {
		person, err := people.GetByID(ctx, alice.PersonID)
		require.NoError(t, err)
		profile := person.Profile
		profile.ImageURLSmall = "avatar-small"

		avatar := &models.Photo{AuthorID: alice.PersonID, Public: true}
		require.NoError(t, repo.CreatePhoto(ctx, avatar, nil, &profile))

		person, err = people.GetByID(ctx, alice.PersonID)
		require.NoError(t, err)
		assert.Equal(t, "avatar-small", person.Profile.ImageURLSmall)
		assert.Equal(t, "alice", person.Profile.FirstName)
	})

	t.Run("failed profile write rolls the photo back", func(t *testing.T) {
		// a second profile row for alice violates the unique person index
		clash := &models.Profile{PersonID: alice.PersonID, ImageURLSmall: "clash"}
		photo := &models.Photo{AuthorID: alice.PersonID, Public: true}
		require.Error(t, repo.CreatePhoto(ctx, photo, nil, clash))

		_, err := repo.GetPhotoByGUID(ctx, photo.GUID)
		assert.ErrorIs(t, err, ErrNotFound)
		person, err := people.GetByID(ctx, alice.PersonID)
		require.NoError(t, err)
		assert.Equal(t, "avatar-small", person.Profile.ImageURLSmall)
	})
}

func TestAspectRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresAspectRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	friends := &models.Aspect{UserID: alice.ID, Name: "Friends"}
	require.NoError(t, repo.CreateAspect(ctx, friends))
	work := &models.Aspect{UserID: alice.ID, Name: "Work"}
	require.NoError(t, repo.CreateAspect(ctx, work))
	assert.ErrorIs(t, repo.CreateAspect(ctx, &models.Aspect{UserID: alice.ID, Name: "Friends"}), ErrDuplicate)

	created, err := repo.AddMember(ctx, friends.ID, bob.PersonID)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.AddMember(ctx, friends.ID, bob.PersonID)
	require.NoError(t, err)
	assert.False(t, created)

	shares, err := repo.SharesWith(ctx, alice.ID, bob.PersonID)
	require.NoError(t, err)
	assert.True(t, shares)
	shares, err = repo.SharesWith(ctx, bob.ID, alice.PersonID)
	require.NoError(t, err)
	assert.False(t, shares)

	ids, err := repo.MemberAspectIDs(ctx, alice.ID, bob.PersonID)
	require.NoError(t, err)
	assert.Equal(t, []uint{friends.ID}, ids)

	member, err := repo.IsMemberOfAny(ctx, bob.PersonID, []uint{work.ID})
	require.NoError(t, err)
	assert.False(t, member)

	members, err := repo.ListMembers(ctx, friends.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "bob", members[0].Profile.FirstName)

	require.NoError(t, repo.RemoveMember(ctx, friends.ID, bob.PersonID))
	assert.ErrorIs(t, repo.RemoveMember(ctx, friends.ID, bob.PersonID), ErrNotFound)
}

func TestLikeRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	require.NoError(t, repo.CreateLike(ctx, &models.Like{PostGUID: "post-1", AuthorID: alice.PersonID}))
	assert.ErrorIs(t, repo.CreateLike(ctx, &models.Like{PostGUID: "post-1", AuthorID: alice.PersonID}), ErrDuplicate)

	liked, err := repo.HasLiked(ctx, "post-1", alice.PersonID)
	require.NoError(t, err)
	assert.True(t, liked)
	count, err := repo.CountByPost(ctx, "post-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.DeleteLike(ctx, "post-1", alice.PersonID))
	assert.ErrorIs(t, repo.DeleteLike(ctx, "post-1", alice.PersonID), ErrNotFound)
}
