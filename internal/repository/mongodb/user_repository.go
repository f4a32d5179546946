package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
	"github.com/mohammedadiga/newRoodxServer/internal/domain/models"
)

const usersCollection = "users"

// UserRepository is the MongoDB implementation of interfaces.UserRepository.
type UserRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewUserRepository creates a repository bound to the users collection.
func NewUserRepository(db *mongo.Database, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		collection: db.Collection(usersCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique indexes the uniqueness invariants depend
// on. Sparse so documents missing a contact field do not collide on null.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "session._id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "verifications.token", Value: 1}},
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Sessions == nil {
		user.Sessions = []models.Session{}
	}
	if user.Verifications == nil {
		user.Verifications = []models.Verification{}
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainErrors.ErrUsernameExists
		}
		r.logger.Error("Failed to insert user", zap.Error(err), zap.String("username", user.Username))
		return err
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainErrors.ErrUserNotFound
		}
		r.logger.Error("Failed to find user by id", zap.Error(err), zap.String("user_id", id))
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, email, phone, username string) (*models.User, error) {
	or := bson.A{}
	if email != "" {
		or = append(or, bson.M{"email": models.NormalizeEmail(email)})
	}
	if phone != "" {
		or = append(or, bson.M{"phone": phone})
	}
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if len(or) == 0 {
		return nil, domainErrors.ErrUserNotFound
	}

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"$or": or}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainErrors.ErrUserNotFound
		}
		r.logger.Error("Failed to find user by identifier", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"session._id": sessionID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainErrors.ErrSessionNotFound
		}
		r.logger.Error("Failed to find user by session id", zap.Error(err), zap.String("session_id", sessionID))
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	filter := bson.M{
		"verifications": bson.M{
			"$elemMatch": bson.M{
				"token": token,
				"type":  models.VerificationPasswordReset,
			},
		},
	}
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainErrors.ErrUserNotFound
		}
		r.logger.Error("Failed to find user by reset token", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) PushSession(ctx context.Context, userID string, session models.Session) error {
	update := bson.M{
		"$push": bson.M{"session": session},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		r.logger.Error("Failed to push session", zap.Error(err), zap.String("user_id", userID))
		return err
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) PullSession(ctx context.Context, sessionID string) error {
	update := bson.M{"$pull": bson.M{"session": bson.M{"_id": sessionID}}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"session._id": sessionID}, update)
	if err != nil {
		r.logger.Error("Failed to pull session", zap.Error(err), zap.String("session_id", sessionID))
		return err
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrSessionNotFound
	}
	return nil
}

func (r *UserRepository) PullUserSession(ctx context.Context, userID, sessionID string) error {
	filter := bson.M{"_id": userID, "session._id": sessionID}
	update := bson.M{"$pull": bson.M{"session": bson.M{"_id": sessionID}}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to pull user session", zap.Error(err),
			zap.String("user_id", userID), zap.String("session_id", sessionID))
		return err
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrSessionNotFound
	}
	return nil
}

func (r *UserRepository) ExtendSession(ctx context.Context, sessionID string, expiredAt time.Time) error {
	filter := bson.M{"session._id": sessionID}
	update := bson.M{"$set": bson.M{"session.$.expiredAt": expiredAt}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to extend session", zap.Error(err), zap.String("session_id", sessionID))
		return err
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrSessionNotFound
	}
	return nil
}

func (r *UserRepository) ClearSessions(ctx context.Context, userID string) error {
	update := bson.M{"$set": bson.M{"session": []models.Session{}, "updatedAt": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		r.logger.Error("Failed to clear sessions", zap.Error(err), zap.String("user_id", userID))
		return err
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ReplaceVerifications(ctx context.Context, userID string, verifications []models.Verification) error {
	if verifications == nil {
		verifications = []models.Verification{}
	}
	update := bson.M{"$set": bson.M{"verifications": verifications, "updatedAt": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		r.logger.Error("Failed to replace verifications", zap.Error(err), zap.String("user_id", userID))
		return err
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordDigest string) error {
	update := bson.M{"$set": bson.M{"password": passwordDigest, "updatedAt": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		r.logger.Error("Failed to update password", zap.Error(err), zap.String("user_id", userID))
		return err
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}
