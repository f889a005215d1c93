package store

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BMDarkLight/Simple-Doctor-API/model"
	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 8

// CredentialStore keeps user emails and bcrypt password hashes.
type CredentialStore struct {
	coll      *mongo.Collection
	hasher    *util.PasswordHasher
	dummyHash string
	now       func() time.Time
}

func NewCredentialStore(db *mongo.Database, hasher *util.PasswordHasher) (*CredentialStore, error) {
	// compared against when the email is unknown, so both failure paths cost a bcrypt round
	dummy, err := hasher.Hash("placeholder-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &CredentialStore{
		coll:      db.Collection(UsersCollection),
		hasher:    hasher,
		dummyHash: dummy,
		now:       utcNow,
	}, nil
}

// EnsureIndexes creates the unique email index backing duplicate detection.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

// Register creates an account and returns its hex id.
func (s *CredentialStore) Register(ctx context.Context, email, password string) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	if len(password) > util.MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	err := s.coll.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return "", ErrDuplicateEmail
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", fmt.Errorf("find user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	res, err := s.coll.InsertOne(ctx, model.User{
		Email:          email,
		HashedPassword: hash,
		CreatedAt:      s.now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return "", ErrDuplicateEmail
	}
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return insertedHex(res)
}

// Authenticate returns the email as token subject when the password matches.
// Unknown email and wrong password produce the same ErrInvalidCredentials.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (string, error) {
	var u model.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		_, _ = s.hasher.Verify(password, s.dummyHash)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, u.HashedPassword)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	return u.Email, nil
}

// Lookup loads the account for an authenticated subject.
func (s *CredentialStore) Lookup(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
