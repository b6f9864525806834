package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Indexes lists the indexes each collection needs
func Indexes() map[string][]mongo.IndexModel {
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}
	plain := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys}
	}
	return map[string][]mongo.IndexModel{
		ofModelName: {
			unique(bson.D{{Key: "organizationId", Value: 1}, {Key: "slug", Value: 1}}),
			plain(bson.D{{Key: "organizationId", Value: 1}, {Key: "createdAt", Value: -1}}),
			plain(bson.D{{Key: "sharedOrganizationIds", Value: 1}}),
		},
		postName: {
			plain(bson.D{{Key: "organizationId", Value: 1}, {Key: "createdAt", Value: -1}}),
			plain(bson.D{{Key: "authorId", Value: 1}, {Key: "createdAt", Value: -1}}),
		},
		commentName: {
			plain(bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}}),
		},
		PostLikeName:    {unique(bson.D{{Key: "userId", Value: 1}, {Key: "targetId", Value: 1}})},
		BookmarkName:    {unique(bson.D{{Key: "userId", Value: 1}, {Key: "targetId", Value: 1}})},
		CommentLikeName: {unique(bson.D{{Key: "userId", Value: 1}, {Key: "targetId", Value: 1}})},
		captionName: {
			plain(bson.D{{Key: "modelId", Value: 1}, {Key: "createdAt", Value: -1}}),
		},
		captionUsageName: {
			plain(bson.D{{Key: "captionId", Value: 1}, {Key: "usedAt", Value: -1}}),
		},
		pipelineName: {
			plain(bson.D{{Key: "organizationId", Value: 1}, {Key: "status", Value: 1}}),
			plain(bson.D{{Key: "modelId", Value: 1}}),
		},
		slotName: {
			plain(bson.D{{Key: "modelId", Value: 1}, {Key: "scheduledFor", Value: 1}}),
		},
		invitationName: {
			unique(bson.D{{Key: "token", Value: 1}}),
			plain(bson.D{{Key: "organizationId", Value: 1}, {Key: "createdAt", Value: -1}}),
		},
		creatorName:   {unique(bson.D{{Key: "userId", Value: 1}})},
		apiClientName: {unique(bson.D{{Key: "clientId", Value: 1}})},
		jobName: {
			plain(bson.D{{Key: "status", Value: 1}, {Key: "completedAt", Value: 1}}),
		},
	}
}

// EnsureIndexes creates every index in Indexes. Existing indexes are left alone.
func EnsureIndexes(ctx context.Context, db DatabaseHelper) error {
	for name, idx := range Indexes() {
		if err := db.Collection(name).CreateIndexes(ctx, idx); err != nil {
			return err
		}
		zap.S().Debugw("ensured indexes", "collection", name, "count", len(idx))
	}
	return nil
}
