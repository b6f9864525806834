package databases

// go generate: mockery --name SlotDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/models"
)

const slotName = "content_slots"

// SlotDatabase contains the methods to use with the content slot database
type SlotDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Slot, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Slot, error)
	InsertOne(ctx context.Context, slot models.Slot) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}) error
}

type slotDatabase struct {
	db DatabaseHelper
}

// NewSlotDatabase initializes a new instance of slot database with the provided db connection
func NewSlotDatabase(db DatabaseHelper) SlotDatabase {
	return &slotDatabase{
		db: db,
	}
}

func (s *slotDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Slot, error) {
	slot := &models.Slot{}
	err := s.db.Collection(slotName).FindOne(ctx, filter).Decode(slot)
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *slotDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Slot, error) {
	var slots []models.Slot
	cur, err := s.db.Collection(slotName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&slots)
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *slotDatabase) InsertOne(ctx context.Context, slot models.Slot) (InsertOneResultHelper, error) {
	return s.db.Collection(slotName).InsertOne(ctx, slot)
}

func (s *slotDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	return matched(s.db.Collection(slotName).UpdateOne(ctx, filter, update))
}

func (s *slotDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	res, err := s.db.Collection(slotName).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *slotDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return deleted(s.db.Collection(slotName).DeleteOne(ctx, filter))
}
