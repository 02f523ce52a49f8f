package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const postsCollection = "posts"

// DefaultLimit caps list responses when the client does not ask for a page
// size.
const DefaultLimit = 20

// MongoStorage implements Storage on a MongoDB collection.
type MongoStorage struct {
	col *mongo.Collection
}

// NewMongoStorage creates the storage over the posts collection.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{col: db.Collection(postsCollection)}
}

// EnsureIndexes creates the unique title and slug indexes. Safe to call on
// every start.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create posts indexes: %w", err)
	}
	return nil
}

func (s *MongoStorage) CreatePost(ctx context.Context, post *Post) error {
	if _, err := s.col.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (s *MongoStorage) GetPost(ctx context.Context, id string) (*Post, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStorage) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	return s.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

func (s *MongoStorage) ListPosts(ctx context.Context, q ListQuery) ([]*Post, error) {
	cursor, err := s.col.Find(ctx, listFilter(q), listOptions(q))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*Post{}
	for cursor.Next(ctx) {
		var p Post
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		posts = append(posts, &p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func (s *MongoStorage) UpdatePost(ctx context.Context, post *Post) error {
	res, err := s.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: post.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "title", Value: post.Title},
			{Key: "slug", Value: post.Slug},
			{Key: "description", Value: post.Description},
			{Key: "content", Value: post.Content},
			{Key: "tags", Value: post.Tags},
			{Key: "category", Value: post.Category},
			{Key: "status", Value: post.Status},
			{Key: "updated_at", Value: post.UpdatedAt},
		}}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("failed to update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *MongoStorage) DeletePost(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *MongoStorage) SetStatus(ctx context.Context, id string, status Status) error {
	return s.setFields(ctx, id, bson.D{
		{Key: "status", Value: status},
		{Key: "updated_at", Value: time.Now()},
	})
}

func (s *MongoStorage) SetCoverImage(ctx context.Context, id string, url string) error {
	return s.setFields(ctx, id, bson.D{
		{Key: "cover_image", Value: url},
		{Key: "updated_at", Value: time.Now()},
	})
}

func (s *MongoStorage) setFields(ctx context.Context, id string, fields bson.D) error {
	res, err := s.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: fields}},
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *MongoStorage) findOne(ctx context.Context, filter bson.D) (*Post, error) {
	var p Post
	if err := s.col.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return &p, nil
}

func listFilter(q ListQuery) bson.D {
	filter := bson.D{}
	if q.AuthorID != "" {
		filter = append(filter, bson.E{Key: "author_id", Value: q.AuthorID})
	}
	if q.Status != nil {
		filter = append(filter, bson.E{Key: "status", Value: *q.Status})
	}
	if q.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: q.Category})
	}
	return filter
}

// listOptions translates the sort/fields/page/limit query features into find
// options.
func listOptions(q ListQuery) options.Lister[options.FindOptions] {
	opts := options.Find()

	sort := q.Sort
	if sort == "" {
		sort = "-createdAt"
	}
	sortDoc := bson.D{}
	for field := range strings.SplitSeq(sort, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = field[1:]
		}
		sortDoc = append(sortDoc, bson.E{Key: bsonField(field), Value: order})
	}
	if len(sortDoc) > 0 {
		opts = opts.SetSort(sortDoc)
	}

	if q.Fields != "" {
		projection := bson.D{}
		for field := range strings.SplitSeq(q.Fields, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			projection = append(projection, bson.E{Key: bsonField(field), Value: 1})
		}
		if len(projection) > 0 {
			opts = opts.SetProjection(projection)
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	opts = opts.SetLimit(int64(limit)).SetSkip(int64((page - 1) * limit))

	return opts
}

// bsonField maps API field names to stored field names.
func bsonField(name string) string {
	switch name {
	case "createdAt":
		return "created_at"
	case "updatedAt":
		return "updated_at"
	case "authorId":
		return "author_id"
	case "coverImage":
		return "cover_image"
	default:
		return name
	}
}
