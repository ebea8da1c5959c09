package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mvarner/pulseboard/internal/app/system/normalize"
	"github.com/mvarner/pulseboard/internal/domain/models"
)

var (
	// ErrNotFound is returned when no user matches the given id.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a write would violate the unique
	// email index.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrInvalidRole is returned when the role is not Admin or User.
	ErrInvalidRole = errors.New(`role must be "Admin" or "User"`)
	// ErrInvalidStatus is returned when the status is not Active or Inactive.
	ErrInvalidStatus = errors.New(`status must be "Active" or "Inactive"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email. Returns ErrNotFound if
// absent.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByGoogleID looks up a user by Google subject. Returns ErrNotFound if
// absent.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns every user, oldest first.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Status == "" {
		u.Status = models.StatusActive
	}

	if !models.ValidRole(u.Role) {
		return models.User{}, ErrInvalidRole
	}
	if !models.ValidStatus(u.Status) {
		return models.User{}, ErrInvalidStatus
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the four mutable fields an admin can replace.
type Update struct {
	Name   string
	Email  string
	Role   string
	Status string
}

// Replace overwrites the mutable fields of a user and returns the updated
// record. Returns ErrNotFound if the id does not resolve and
// ErrDuplicateEmail if the new email collides with another user.
// Concurrent replaces are last-writer-wins.
func (s *Store) Replace(ctx context.Context, id primitive.ObjectID, upd Update) (*models.User, error) {
	upd.Role = normalize.Role(upd.Role)
	upd.Status = normalize.Status(upd.Status)
	if !models.ValidRole(upd.Role) {
		return nil, ErrInvalidRole
	}
	if !models.ValidStatus(upd.Status) {
		return nil, ErrInvalidStatus
	}

	set := bson.M{
		"name":       normalize.Name(upd.Name),
		"email":      normalize.Email(upd.Email),
		"role":       upd.Role,
		"status":     upd.Status,
		"updated_at": time.Now().UTC(),
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

// SetStatus sets a user's status and returns the updated record. Returns
// ErrInvalidStatus for an unknown status and ErrNotFound if the id does not
// resolve; neither mutates anything.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.User, error) {
	status = normalize.Status(status)
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Delete removes a user by id. Returns ErrNotFound if nothing was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of user records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
