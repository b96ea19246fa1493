package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/social-pod/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostScope selects which of an author's posts a reader may see.
type PostScope struct {
	All       bool   // the author reading their own posts
	AspectIDs []uint // limited posts shared with any of these aspects
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByGUID(ctx context.Context, guid string) (*models.Post, error)
	GetPostsByGUIDs(ctx context.Context, guids []string) (map[string]models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID uint, scope PostScope, skip, limit int64) ([]models.Post, int64, error)
	DeletePost(ctx context.Context, guid string) error
	IncrementLikesCount(ctx context.Context, guid string) error
	DecrementLikesCount(ctx context.Context, guid string) error
	IncrementCommentsCount(ctx context.Context, guid string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the guid and author indexes used by the lookups below.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "guid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByGUID retrieves a post by its GUID
func (r *MongoPostRepository) GetPostByGUID(ctx context.Context, guid string) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"guid": guid}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByGUIDs returns the posts found, keyed by GUID
func (r *MongoPostRepository) GetPostsByGUIDs(ctx context.Context, guids []string) (map[string]models.Post, error) {
	out := make(map[string]models.Post, len(guids))
	if len(guids) == 0 {
		return out, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"guid": bson.M{"$in": guids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	for _, p := range posts {
		out[p.GUID] = p
	}
	return out, nil
}

// GetPostsByAuthor retrieves a page of a person's posts within scope, newest
// first, along with the number of matching posts
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID uint, scope PostScope, skip, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{"author_id": authorID}
	if !scope.All {
		visible := bson.A{bson.M{"public": true}}
		if len(scope.AspectIDs) > 0 {
			visible = append(visible, bson.M{"aspect_ids": bson.M{"$in": scope.AspectIDs}})
		}
		filter["$or"] = visible
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// DeletePost deletes a post by GUID
func (r *MongoPostRepository) DeletePost(ctx context.Context, guid string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"guid": guid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) IncrementLikesCount(ctx context.Context, guid string) error {
	return r.inc(ctx, guid, "likes_count", 1)
}

func (r *MongoPostRepository) DecrementLikesCount(ctx context.Context, guid string) error {
	return r.inc(ctx, guid, "likes_count", -1)
}

func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, guid string) error {
	return r.inc(ctx, guid, "comments_count", 1)
}

func (r *MongoPostRepository) inc(ctx context.Context, guid, field string, by int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"guid": guid}, bson.M{"$inc": bson.M{field: by}})
	return err
}
