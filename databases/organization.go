package databases

// go generate: mockery --name OrganizationDatabase
// go generate: mockery --name CreatorDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/models"
)

const (
	organizationName = "organizations"
	creatorName      = "creators"
)

// OrganizationDatabase contains the methods to use with the organization database
type OrganizationDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Organization, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Organization, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	Upsert(ctx context.Context, org models.Organization) error
}

type organizationDatabase struct {
	db DatabaseHelper
}

// NewOrganizationDatabase initializes a new instance of organization database with the provided db connection
func NewOrganizationDatabase(db DatabaseHelper) OrganizationDatabase {
	return &organizationDatabase{
		db: db,
	}
}

func (o *organizationDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Organization, error) {
	org := &models.Organization{}
	err := o.db.Collection(organizationName).FindOne(ctx, filter).Decode(org)
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (o *organizationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Organization, error) {
	var orgs []models.Organization
	cur, err := o.db.Collection(organizationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&orgs)
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (o *organizationDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return o.db.Collection(organizationName).CountDocuments(ctx, filter)
}

// Upsert creates the organization or refreshes its name and slug
func (o *organizationDatabase) Upsert(ctx context.Context, org models.Organization) error {
	_, err := o.db.Collection(organizationName).UpdateOne(ctx,
		bson.M{"_id": org.ID},
		bson.M{
			"$set":         bson.M{"name": org.Name, "slug": org.Slug},
			"$setOnInsert": bson.M{"createdAt": org.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// CreatorDatabase contains the methods to use with the creator database
type CreatorDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Creator, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Creator, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	Upsert(ctx context.Context, creator models.Creator) error
}

type creatorDatabase struct {
	db DatabaseHelper
}

// NewCreatorDatabase initializes a new instance of creator database with the provided db connection
func NewCreatorDatabase(db DatabaseHelper) CreatorDatabase {
	return &creatorDatabase{
		db: db,
	}
}

func (c *creatorDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Creator, error) {
	creator := &models.Creator{}
	err := c.db.Collection(creatorName).FindOne(ctx, filter).Decode(creator)
	if err != nil {
		return nil, err
	}
	return creator, nil
}

func (c *creatorDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Creator, error) {
	var creators []models.Creator
	cur, err := c.db.Collection(creatorName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&creators)
	if err != nil {
		return nil, err
	}
	return creators, nil
}

func (c *creatorDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(creatorName).CountDocuments(ctx, filter)
}

// Upsert keys creators on their identity provider user id
func (c *creatorDatabase) Upsert(ctx context.Context, creator models.Creator) error {
	_, err := c.db.Collection(creatorName).UpdateOne(ctx,
		bson.M{"userId": creator.UserID},
		bson.M{
			"$set": bson.M{
				"organizationId": creator.OrganizationID,
				"name":           creator.Name,
				"email":          creator.Email,
				"role":           creator.Role,
			},
			"$setOnInsert": bson.M{"createdAt": creator.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
