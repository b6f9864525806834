package databases

// go generate: mockery --name InvitationDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/models"
)

const invitationName = "onboarding_invitations"

// InvitationDatabase contains the methods to use with the onboarding invitation database
type InvitationDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Invitation, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Invitation, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	InsertOne(ctx context.Context, invitation models.Invitation) (InsertOneResultHelper, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Invitation, error)
	DeleteOne(ctx context.Context, filter interface{}) error
	Redeem(ctx context.Context, token string, now time.Time) (*models.Invitation, error)
}

type invitationDatabase struct {
	db DatabaseHelper
}

// NewInvitationDatabase initializes a new instance of invitation database with the provided db connection
func NewInvitationDatabase(db DatabaseHelper) InvitationDatabase {
	return &invitationDatabase{
		db: db,
	}
}

func (i *invitationDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Invitation, error) {
	invitation := &models.Invitation{}
	err := i.db.Collection(invitationName).FindOne(ctx, filter).Decode(invitation)
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

func (i *invitationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Invitation, error) {
	var invitations []models.Invitation
	cur, err := i.db.Collection(invitationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&invitations)
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

func (i *invitationDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return i.db.Collection(invitationName).CountDocuments(ctx, filter)
}

func (i *invitationDatabase) InsertOne(ctx context.Context, invitation models.Invitation) (InsertOneResultHelper, error) {
	return i.db.Collection(invitationName).InsertOne(ctx, invitation)
}

func (i *invitationDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Invitation, error) {
	invitation := &models.Invitation{}
	err := i.db.Collection(invitationName).FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(invitation)
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

func (i *invitationDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return deleted(i.db.Collection(invitationName).DeleteOne(ctx, filter))
}

// Redeem consumes one use of the invitation in a single atomic update. It returns
// mongo.ErrNoDocuments when the token is unknown or no longer active at now.
func (i *invitationDatabase) Redeem(ctx context.Context, token string, now time.Time) (*models.Invitation, error) {
	filter := bson.M{
		"token":     token,
		"isActive":  true,
		"expiresAt": bson.M{"$gte": now},
		"$expr":     bson.M{"$lt": bson.A{"$usedCount", "$maxUses"}},
	}
	update := bson.M{
		"$inc": bson.M{"usedCount": 1},
		"$set": bson.M{"lastUsedAt": now},
	}
	return i.FindOneAndUpdate(ctx, filter, update)
}

// StatusFilter translates a derived invitation status into a query at now. Unknown statuses
// yield nil.
func StatusFilter(status models.InvitationStatus, now time.Time) bson.M {
	switch status {
	case models.InvitationRevoked:
		return bson.M{"isActive": false}
	case models.InvitationExpired:
		return bson.M{"isActive": true, "expiresAt": bson.M{"$lt": now}}
	case models.InvitationUsedUp:
		return bson.M{
			"isActive":  true,
			"expiresAt": bson.M{"$gte": now},
			"$expr":     bson.M{"$gte": bson.A{"$usedCount", "$maxUses"}},
		}
	case models.InvitationActive:
		return bson.M{
			"isActive":  true,
			"expiresAt": bson.M{"$gte": now},
			"$expr":     bson.M{"$lt": bson.A{"$usedCount", "$maxUses"}},
		}
	}
	return nil
}
