package databases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPaginate struct {
	limit int64
	page  int64
}

func newMongoPaginate(limit, page int) *mongoPaginate {
	if page < 1 {
		page = 1
	}
	return &mongoPaginate{
		limit: int64(limit),
		page:  int64(page),
	}
}

func (mp *mongoPaginate) getPaginatedOpts() *options.FindOptions {
	l := mp.limit
	skip := mp.page*mp.limit - mp.limit
	fOpt := options.FindOptions{Limit: &l, Skip: &skip}

	return &fOpt
}

// PageOptions returns find options for a 1-based page of size limit sorted by sort
func PageOptions(page, limit int, sort bson.D) *options.FindOptions {
	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return opts
}

// IsDuplicateKey reports whether err is a unique index violation
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// matched converts an update that touched nothing into mongo.ErrNoDocuments
func matched(res *mongo.UpdateResult, err error) error {
	if err != nil {
		return err
	}
	if res == nil || res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// deleted converts a delete that removed nothing into mongo.ErrNoDocuments
func deleted(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
