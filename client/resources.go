package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/linesmerrill/studio-api/models"
)

// ListModels lists the model profiles visible to the caller
func (c *Client) ListModels(ctx context.Context, opts ListOptions) (Page[models.OFModel], error) {
	return list[models.OFModel](ctx, c, "/api/of-models", opts)
}

// GetModel fetches one model profile
func (c *Client) GetModel(ctx context.Context, id string) (models.OFModel, error) {
	return get[models.OFModel](ctx, c, http.MethodGet, "/api/of-models/"+escape(id), nil)
}

// CreateModel creates a model profile
func (c *Client) CreateModel(ctx context.Context, req models.CreateOFModelRequest) (models.OFModel, error) {
	return get[models.OFModel](ctx, c, http.MethodPost, "/api/of-models", req)
}

// UpdateModel patches a model profile
func (c *Client) UpdateModel(ctx context.Context, id string, req models.UpdateOFModelRequest) (models.OFModel, error) {
	return get[models.OFModel](ctx, c, http.MethodPatch, "/api/of-models/"+escape(id), req)
}

// DeleteModel deletes a model profile and its captions and pipeline items
func (c *Client) DeleteModel(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/of-models/"+escape(id), nil, nil, nil)
	return err
}

// ListCaptions lists a model's caption bank
func (c *Client) ListCaptions(ctx context.Context, modelID string, opts ListOptions) (Page[models.Caption], error) {
	return list[models.Caption](ctx, c, "/api/of-models/"+escape(modelID)+"/captions", opts)
}

// CaptionAnalytics summarizes a model's caption bank
func (c *Client) CaptionAnalytics(ctx context.Context, modelID string) (models.CaptionAnalytics, error) {
	return get[models.CaptionAnalytics](ctx, c, http.MethodGet, "/api/of-models/"+escape(modelID)+"/captions/analytics", nil)
}

// CreateCaption adds a caption to a model's bank
func (c *Client) CreateCaption(ctx context.Context, modelID string, req models.CreateCaptionRequest) (models.Caption, error) {
	return get[models.Caption](ctx, c, http.MethodPost, "/api/of-models/"+escape(modelID)+"/captions", req)
}

// UpdateCaption patches a caption
func (c *Client) UpdateCaption(ctx context.Context, id string, req models.UpdateCaptionRequest) (models.Caption, error) {
	return get[models.Caption](ctx, c, http.MethodPatch, "/api/captions/"+escape(id), req)
}

// DeleteCaption deletes a caption
func (c *Client) DeleteCaption(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/captions/"+escape(id), nil, nil, nil)
	return err
}

// RecordCaptionUsage records one use of a caption
func (c *Client) RecordCaptionUsage(ctx context.Context, id string, revenue float64) (models.Caption, error) {
	return get[models.Caption](ctx, c, http.MethodPost, "/api/captions/"+escape(id)+"/usage", models.RecordCaptionUsageRequest{Revenue: revenue})
}

// Profile fetches a feed profile header
func (c *Client) Profile(ctx context.Context, userID string) (models.FeedProfile, error) {
	return get[models.FeedProfile](ctx, c, http.MethodGet, "/api/feed/profile/"+escape(userID), nil)
}

// ProfilePosts lists the posts written by userID
func (c *Client) ProfilePosts(ctx context.Context, userID string, opts ListOptions) (Page[models.Post], error) {
	return list[models.Post](ctx, c, "/api/feed/profile/"+escape(userID)+"/posts", opts)
}

// ListPosts lists the organization feed
func (c *Client) ListPosts(ctx context.Context, opts ListOptions) (Page[models.Post], error) {
	return list[models.Post](ctx, c, "/api/feed/posts", opts)
}

// GetPost fetches one post with the caller's like and bookmark state
func (c *Client) GetPost(ctx context.Context, id string) (models.Post, error) {
	return get[models.Post](ctx, c, http.MethodGet, "/api/feed/posts/"+escape(id), nil)
}

// CreatePost publishes a post
func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (models.Post, error) {
	return get[models.Post](ctx, c, http.MethodPost, "/api/feed/posts", req)
}

// DeletePost deletes a post with its comments and reactions
func (c *Client) DeletePost(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/feed/posts/"+escape(id), nil, nil, nil)
	return err
}

// LikePost likes (on) or unlikes a post
func (c *Client) LikePost(ctx context.Context, id string, on bool) (models.ToggleResult, error) {
	return get[models.ToggleResult](ctx, c, toggleMethod(on), "/api/feed/posts/"+escape(id)+"/like", nil)
}

// BookmarkPost bookmarks (on) or unbookmarks a post
func (c *Client) BookmarkPost(ctx context.Context, id string, on bool) (models.ToggleResult, error) {
	return get[models.ToggleResult](ctx, c, toggleMethod(on), "/api/feed/posts/"+escape(id)+"/bookmark", nil)
}

// Bookmarks lists the caller's bookmarked posts
func (c *Client) Bookmarks(ctx context.Context, opts ListOptions) (Page[models.Post], error) {
	return list[models.Post](ctx, c, "/api/feed/bookmarks", opts)
}

// ListComments lists the top-level comments of a post with their replies
func (c *Client) ListComments(ctx context.Context, postID string, opts ListOptions) (Page[models.Comment], error) {
	return list[models.Comment](ctx, c, "/api/feed/posts/"+escape(postID)+"/comments", opts)
}

// CreateComment comments on a post, or replies when req.ParentID is set
func (c *Client) CreateComment(ctx context.Context, postID string, req models.CreateCommentRequest) (models.Comment, error) {
	return get[models.Comment](ctx, c, http.MethodPost, "/api/feed/posts/"+escape(postID)+"/comments", req)
}

// DeleteComment deletes a comment and its replies
func (c *Client) DeleteComment(ctx context.Context, id string) (Deleted, error) {
	return get[Deleted](ctx, c, http.MethodDelete, "/api/feed/comments/"+escape(id), nil)
}

// LikeComment likes (on) or unlikes a comment
func (c *Client) LikeComment(ctx context.Context, id string, on bool) (models.ToggleResult, error) {
	return get[models.ToggleResult](ctx, c, toggleMethod(on), "/api/feed/comments/"+escape(id)+"/like", nil)
}

func toggleMethod(on bool) string {
	if on {
		return http.MethodPost
	}
	return http.MethodDelete
}

// ListInvitations lists onboarding invitations. opts.Status filters on the derived status.
func (c *Client) ListInvitations(ctx context.Context, opts ListOptions) (Page[models.InvitationView], error) {
	return list[models.InvitationView](ctx, c, "/api/onboarding-invitations", opts)
}

// GetInvitation fetches one invitation
func (c *Client) GetInvitation(ctx context.Context, id string) (models.InvitationView, error) {
	return get[models.InvitationView](ctx, c, http.MethodGet, "/api/onboarding-invitations/"+escape(id), nil)
}

// CreateInvitation creates an onboarding link
func (c *Client) CreateInvitation(ctx context.Context, req models.CreateInvitationRequest) (models.InvitationView, error) {
	return get[models.InvitationView](ctx, c, http.MethodPost, "/api/onboarding-invitations", req)
}

// UpdateInvitation patches an invitation
func (c *Client) UpdateInvitation(ctx context.Context, id string, req models.UpdateInvitationRequest) (models.InvitationView, error) {
	return get[models.InvitationView](ctx, c, http.MethodPatch, "/api/onboarding-invitations/"+escape(id), req)
}

// RevokeInvitation revokes an invitation
func (c *Client) RevokeInvitation(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/onboarding-invitations/"+escape(id), nil, nil, nil)
	return err
}

// PublicInvitation looks up an invitation by its token without authenticating
func (c *Client) PublicInvitation(ctx context.Context, token string) (models.PublicInvitation, error) {
	return get[models.PublicInvitation](ctx, c, http.MethodGet, "/api/onboarding-invitations/token/"+escape(token), nil)
}

// RedeemInvitation submits a model profile through an onboarding link
func (c *Client) RedeemInvitation(ctx context.Context, token string, req models.RedeemInvitationRequest) (models.OFModel, error) {
	return get[models.OFModel](ctx, c, http.MethodPost, "/api/onboarding-invitations/token/"+escape(token)+"/redeem", req)
}

// ListPipeline lists pipeline items. opts.Status and opts.ModelID filter.
func (c *Client) ListPipeline(ctx context.Context, opts ListOptions) (Page[models.PipelineItem], error) {
	return list[models.PipelineItem](ctx, c, "/api/instagram/pipeline", opts)
}

// PipelineSummary counts pipeline items per status, optionally for one model
func (c *Client) PipelineSummary(ctx context.Context, modelID string) (models.PipelineSummary, error) {
	var out models.PipelineSummary
	_, err := c.do(ctx, http.MethodGet, "/api/instagram/pipeline/summary", ListOptions{ModelID: modelID}.values(), nil, &out)
	return out, err
}

// GetPipelineItem fetches one pipeline item
func (c *Client) GetPipelineItem(ctx context.Context, id string) (models.PipelineItem, error) {
	return get[models.PipelineItem](ctx, c, http.MethodGet, "/api/instagram/pipeline/"+escape(id), nil)
}

// CreatePipelineItem adds a content item to the pipeline
func (c *Client) CreatePipelineItem(ctx context.Context, req models.CreatePipelineItemRequest) (models.PipelineItem, error) {
	return get[models.PipelineItem](ctx, c, http.MethodPost, "/api/instagram/pipeline", req)
}

// UpdatePipelineItem patches a pipeline item
func (c *Client) UpdatePipelineItem(ctx context.Context, id string, req models.UpdatePipelineItemRequest) (models.PipelineItem, error) {
	return get[models.PipelineItem](ctx, c, http.MethodPatch, "/api/instagram/pipeline/"+escape(id), req)
}

// DeletePipelineItem deletes a pipeline item and frees its slots
func (c *Client) DeletePipelineItem(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/instagram/pipeline/"+escape(id), nil, nil, nil)
	return err
}

// ListSlots lists slots. opts.ModelID, opts.Kind, opts.From and opts.To filter.
func (c *Client) ListSlots(ctx context.Context, opts ListOptions) ([]models.Slot, error) {
	var out []models.Slot
	_, err := c.do(ctx, http.MethodGet, "/api/instagram/slots", opts.values(), nil, &out)
	return out, err
}

// CreateSlot reserves a slot
func (c *Client) CreateSlot(ctx context.Context, req models.CreateSlotRequest) (models.Slot, error) {
	return get[models.Slot](ctx, c, http.MethodPost, "/api/instagram/slots", req)
}

// DeleteSlot deletes a slot and unlinks its item
func (c *Client) DeleteSlot(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/instagram/slots/"+escape(id), nil, nil, nil)
	return err
}

// AdminModels lists every model of the caller's organization
func (c *Client) AdminModels(ctx context.Context, opts ListOptions) (Page[models.OFModel], error) {
	return list[models.OFModel](ctx, c, "/api/admin/models", opts)
}

// AdminCreators lists the creators of the caller's organization
func (c *Client) AdminCreators(ctx context.Context, opts ListOptions) (Page[models.Creator], error) {
	return list[models.Creator](ctx, c, "/api/admin/creators", opts)
}

// AdminOrganizations lists organizations models can be shared with
func (c *Client) AdminOrganizations(ctx context.Context, opts ListOptions) (Page[models.Organization], error) {
	return list[models.Organization](ctx, c, "/api/admin/organizations", opts)
}

// BulkAssign queues a job assigning models to creators
func (c *Client) BulkAssign(ctx context.Context, req models.BulkAssignRequest) (models.JobAccepted, error) {
	return get[models.JobAccepted](ctx, c, http.MethodPost, "/api/admin/models/bulk-assign", req)
}

// BulkShare queues a job sharing (or unsharing) models with organizations
func (c *Client) BulkShare(ctx context.Context, req models.BulkShareRequest) (models.JobAccepted, error) {
	return get[models.JobAccepted](ctx, c, http.MethodPost, "/api/admin/models/bulk-share", req)
}

// BulkDeleteModels queues a job deleting models
func (c *Client) BulkDeleteModels(ctx context.Context, ids []string) (models.JobAccepted, error) {
	return get[models.JobAccepted](ctx, c, http.MethodPost, "/api/admin/models/bulk-delete", models.BulkIDsRequest{IDs: ids})
}

// BulkRevokeInvitations queues a job revoking invitations
func (c *Client) BulkRevokeInvitations(ctx context.Context, ids []string) (models.JobAccepted, error) {
	return get[models.JobAccepted](ctx, c, http.MethodPost, "/api/admin/invitations/bulk-revoke", models.BulkIDsRequest{IDs: ids})
}

// GetJob fetches the progress of a background job
func (c *Client) GetJob(ctx context.Context, id string) (models.Job, error) {
	return get[models.Job](ctx, c, http.MethodGet, "/api/jobs/"+escape(id), nil)
}

// UploadSignature signs a direct upload to the media host
func (c *Client) UploadSignature(ctx context.Context) (models.UploadSignature, error) {
	return get[models.UploadSignature](ctx, c, http.MethodGet, "/api/media/signature", nil)
}

// UploadMedia streams an image or video through the api. contentType must be image/* or
// video/*.
func (c *Client) UploadMedia(ctx context.Context, filename, contentType string, file io.Reader) (models.Media, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
		header.Set("Content-Type", contentType)
		part, err := form.CreatePart(header)
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = form.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	var out models.Media
	_, err := c.do(ctx, http.MethodPost, "/api/media", nil, pr, &out, withContentType(form.FormDataContentType()))
	_ = pr.Close()
	return out, err
}
