package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caption is a reusable caption in a model's caption bank
type Caption struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID string             `json:"organizationId" bson:"organizationId"`
	ModelID        primitive.ObjectID `json:"modelId" bson:"modelId"`
	Text           string             `json:"text" bson:"text"`
	ContentTypes   []string           `json:"contentTypes" bson:"contentTypes"`
	MessageTypes   []string           `json:"messageTypes" bson:"messageTypes"`
	UsageCount     int64              `json:"usageCount" bson:"usageCount"`
	TotalRevenue   float64            `json:"totalRevenue" bson:"totalRevenue"`
	LastUsedAt     *time.Time         `json:"lastUsedAt,omitempty" bson:"lastUsedAt,omitempty"`
	CreatedBy      string             `json:"createdBy" bson:"createdBy"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CaptionUsage records one use of a caption and the revenue it brought in
type CaptionUsage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaptionID primitive.ObjectID `json:"captionId" bson:"captionId"`
	ModelID   primitive.ObjectID `json:"modelId" bson:"modelId"`
	Revenue   float64            `json:"revenue" bson:"revenue"`
	UsedBy    string             `json:"usedBy" bson:"usedBy"`
	UsedAt    time.Time          `json:"usedAt" bson:"usedAt"`
}

// CaptionAnalytics summarizes a caption bank
type CaptionAnalytics struct {
	TotalCaptions        int                `json:"totalCaptions"`
	TotalUsage           int64              `json:"totalUsage"`
	TotalRevenue         float64            `json:"totalRevenue"`
	AverageRevenuePerUse float64            `json:"averageRevenuePerUse"`
	TopCaptions          []Caption          `json:"topCaptions"`
	RevenueByContentType map[string]float64 `json:"revenueByContentType"`
	RevenueByMessageType map[string]float64 `json:"revenueByMessageType"`
}

// TopCaptionsLimit bounds CaptionAnalytics.TopCaptions
const TopCaptionsLimit = 5

// SummarizeCaptions reduces a set of captions into analytics. A caption's revenue counts once
// toward each of its tags.
func SummarizeCaptions(captions []Caption) CaptionAnalytics {
	a := CaptionAnalytics{
		TotalCaptions:        len(captions),
		TopCaptions:          []Caption{},
		RevenueByContentType: map[string]float64{},
		RevenueByMessageType: map[string]float64{},
	}
	for _, c := range captions {
		a.TotalUsage += c.UsageCount
		a.TotalRevenue += c.TotalRevenue
		for _, t := range uniqueStrings(c.ContentTypes) {
			a.RevenueByContentType[t] += c.TotalRevenue
		}
		for _, t := range uniqueStrings(c.MessageTypes) {
			a.RevenueByMessageType[t] += c.TotalRevenue
		}
	}
	if a.TotalUsage > 0 {
		a.AverageRevenuePerUse = a.TotalRevenue / float64(a.TotalUsage)
	}

	ranked := make([]Caption, len(captions))
	copy(ranked, captions)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalRevenue != ranked[j].TotalRevenue {
			return ranked[i].TotalRevenue > ranked[j].TotalRevenue
		}
		return ranked[i].UsageCount > ranked[j].UsageCount
	})
	if len(ranked) > TopCaptionsLimit {
		ranked = ranked[:TopCaptionsLimit]
	}
	a.TopCaptions = append(a.TopCaptions, ranked...)
	return a
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// --- Request DTOs ---

// CreateCaptionRequest is the request body for adding a caption to a model's bank
type CreateCaptionRequest struct {
	Text         string   `json:"text" validate:"required,min=1,max=2200"`
	ContentTypes []string `json:"contentTypes" validate:"max=20,dive,required,max=40"`
	MessageTypes []string `json:"messageTypes" validate:"max=20,dive,required,max=40"`
}

// UpdateCaptionRequest patches a caption
type UpdateCaptionRequest struct {
	Text         *string   `json:"text,omitempty" validate:"omitempty,min=1,max=2200"`
	ContentTypes *[]string `json:"contentTypes,omitempty" validate:"omitempty,max=20"`
	MessageTypes *[]string `json:"messageTypes,omitempty" validate:"omitempty,max=20"`
}

// RecordCaptionUsageRequest records a use of a caption
type RecordCaptionUsageRequest struct {
	Revenue float64 `json:"revenue" validate:"gte=0"`
}
