package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// MongoStorage implements Storage on a MongoDB collection.
type MongoStorage struct {
	col *mongo.Collection
}

// NewMongoStorage creates the storage over the users collection.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{col: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}
	return nil
}

func (s *MongoStorage) CreateUser(ctx context.Context, user *User) error {
	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *MongoStorage) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *MongoStorage) UpdatePassword(ctx context.Context, id string, hash []byte, changedAt time.Time) error {
	res, err := s.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "password_hash", Value: hash},
			{Key: "password_changed_at", Value: changedAt},
		}}},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *MongoStorage) SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error {
	res, err := s.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "reset_token_hash", Value: tokenHash},
			{Key: "reset_token_expires_at", Value: expiresAt},
		}}},
	)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *MongoStorage) ClearResetToken(ctx context.Context, id string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$unset", Value: bson.D{
			{Key: "reset_token_hash", Value: ""},
			{Key: "reset_token_expires_at", Value: ""},
		}}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CompleteReset relies on FindOneAndUpdate hitting a single document, which
// makes the token consumable exactly once even under concurrent requests.
func (s *MongoStorage) CompleteReset(ctx context.Context, tokenHash string, hash []byte, changedAt time.Time) (*User, error) {
	filter := bson.D{
		{Key: "reset_token_hash", Value: tokenHash},
		{Key: "reset_token_expires_at", Value: bson.D{{Key: "$gt", Value: time.Now()}}},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "password_hash", Value: hash},
			{Key: "password_changed_at", Value: changedAt},
		}},
		{Key: "$unset", Value: bson.D{
			{Key: "reset_token_hash", Value: ""},
			{Key: "reset_token_expires_at", Value: ""},
		}},
	}

	var user User
	err := s.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("failed to complete reset: %w", err)
	}
	return &user, nil
}

func (s *MongoStorage) findOne(ctx context.Context, filter bson.D) (*User, error) {
	var user User
	if err := s.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
