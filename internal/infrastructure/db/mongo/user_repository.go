package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karibu-kenya/travel-api/internal/core/domain"
	"github.com/karibu-kenya/travel-api/internal/core/ports"
)

const usersCollection = "users"

// UserRepository is the MongoDB adapter for the credential store. All
// login-guard transitions are expressed as single update documents so
// concurrent failed logins for the same account cannot lose counts.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(usersCollection)}
}

// Create inserts a new account document. user.Password must already be a
// hash by the time it reaches this layer.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves an account by its (lowercased) email. The password
// hash is excluded unless includePassword is set.
func (r *UserRepository) FindByEmail(ctx context.Context, email string, includePassword bool) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, includePassword)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, false)
}

func (r *UserRepository) FindByIDWithPassword(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, true)
}

// FindByVerificationTokenHash matches the stored verifier with an unexpired
// TTL, exactly mirroring how the token was persisted.
func (r *UserRepository) FindByVerificationTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"email_verification_token":  tokenHash,
		"email_verification_expire": bson.M{"$gt": now},
	}, false)
}

func (r *UserRepository) FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"password_reset_token":  tokenHash,
		"password_reset_expire": bson.M{"$gt": now},
	}, false)
}

// UpdateProfile merges the permitted fields and returns the updated account.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fields ports.ProfileUpdate) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.FirstName != nil {
		set["first_name"] = *fields.FirstName
	}
	if fields.LastName != nil {
		set["last_name"] = *fields.LastName
	}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.Phone != nil {
		set["phone"] = *fields.Phone
	}
	if fields.Nationality != nil {
		set["nationality"] = *fields.Nationality
	}
	if fields.DateOfBirth != nil {
		set["date_of_birth"] = *fields.DateOfBirth
	}
	if fields.Language != nil {
		set["preferences.language"] = *fields.Language
	}
	if fields.Currency != nil {
		set["preferences.currency"] = *fields.Currency
	}
	if fields.Interests != nil {
		set["preferences.interests"] = *fields.Interests
	}
	if fields.Budget != nil {
		set["preferences.budget"] = *fields.Budget
	}
	if fields.EmergencyContact != nil {
		set["emergency_contact"] = *fields.EmergencyContact
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0})

	var user domain.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

// UpdatePassword stores a new hash and clears any pending reset token in the
// same update.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"password": passwordHash, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"password_reset_token": 1, "password_reset_expire": 1},
	})
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id, tokenHash string, expire time.Time) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"email_verification_token": tokenHash, "email_verification_expire": expire},
	})
}

func (r *UserRepository) ClearVerificationToken(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{
		"$unset": bson.M{"email_verification_token": 1, "email_verification_expire": 1},
	})
}

// MarkEmailVerified flips the verified flag and consumes the token in one
// update.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"is_email_verified": true, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"email_verification_token": 1, "email_verification_expire": 1},
	})
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expire time.Time) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"password_reset_token": tokenHash, "password_reset_expire": expire},
	})
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{
		"$unset": bson.M{"password_reset_token": 1, "password_reset_expire": 1},
	})
}

// RecordFailedLogin executes the whole guard transition as one aggregation
// pipeline update: an expired lock restarts the counter at 1 and drops the
// lock, otherwise the counter increments, and reaching the threshold sets
// lock_until = now+lockFor in the same write.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id string, threshold int, lockFor time.Duration, now time.Time) error {
	lock := bson.M{"$ifNull": bson.A{"$lock_until", nil}}
	stale := bson.M{"$and": bson.A{
		bson.M{"$ne": bson.A{lock, nil}},
		bson.M{"$lte": bson.A{lock, now}},
	}}
	nextAttempts := bson.M{"$cond": bson.A{
		stale,
		1,
		bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$login_attempts", 0}}, 1}},
	}}
	nextLock := bson.M{"$cond": bson.A{
		bson.M{"$gte": bson.A{nextAttempts, threshold}},
		now.Add(lockFor),
		"$$REMOVE",
	}}

	pipeline := bson.A{bson.M{"$set": bson.M{
		"login_attempts": nextAttempts,
		"lock_until":     nextLock,
		"updated_at":     now,
	}}}
	return r.updateOne(ctx, id, pipeline)
}

func (r *UserRepository) ResetLoginAttempts(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{
		"$unset": bson.M{"login_attempts": 1, "lock_until": 1},
	})
}

func (r *UserRepository) SetLastLogin(ctx context.Context, id string, now time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"last_login": now}})
}

// EnsureIndexes creates the unique email index and the creation-time index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, includePassword bool) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if !includePassword {
		opts.SetProjection(bson.M{"password": 0})
	}

	var user domain.User
	if err := r.col.FindOne(ctx, filter, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) updateOne(ctx context.Context, id string, update interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
