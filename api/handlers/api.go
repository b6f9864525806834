package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/cache"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/jobs"
	"github.com/linesmerrill/studio-api/mailer"
	"github.com/linesmerrill/studio-api/models"
)

// Profile cache sizing
const (
	ProfileCacheSize = 1024
	ProfileCacheTTL  = time.Minute
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router *mux.Router
	Config config.Config

	Guard    cache.Guard
	Profiles *cache.ProfileCache
	Events   events.Publisher
	Mailer   mailer.Mailer
	Uploader Uploader
	Metrics  *api.Metrics
	Auth     *api.Authenticator
	Hub      *JobHub
	Jobs     *jobs.Runner

	client   databases.ClientHelper
	dbHelper databases.DatabaseHelper
}

// Database exposes the connected database to the scheduler and commands
func (a *App) Database() databases.DatabaseHelper {
	return a.dbHelper
}

// defaults fills every dependency Initialize did not set, so a zero App can still route
func (a *App) defaults() {
	def := config.Defaults()
	if a.Config.RequestTimeout <= 0 {
		a.Config.RequestTimeout = def.RequestTimeout
	}
	if a.Config.SessionCacheTTL <= 0 {
		a.Config.SessionCacheTTL = def.SessionCacheTTL
	}
	if a.Config.JobConcurrency < 1 {
		a.Config.JobConcurrency = def.JobConcurrency
	}
	if a.Config.OnboardingBaseURL == "" {
		a.Config.OnboardingBaseURL = def.OnboardingBaseURL
	}
	if a.Metrics == nil {
		a.Metrics = api.NewMetrics()
	}
	if a.Events == nil {
		a.Events = events.Nop{}
	}
	if a.Mailer == nil {
		a.Mailer = mailer.Nop{}
	}
	if a.Guard == nil {
		a.Guard = cache.NewMemoryGuard(cache.DefaultGuardSize)
	}
	if a.Profiles == nil {
		a.Profiles, _ = cache.NewProfileCache(ProfileCacheSize, ProfileCacheTTL)
	}
	if a.Hub == nil {
		a.Hub = NewJobHub()
	}
	if a.Auth == nil {
		a.Auth = api.NewAuthenticator(context.Background(), databases.NewAPIClientDatabase(a.dbHelper), nil, a.Config.SessionCacheTTL)
	}
	if a.Jobs == nil {
		notifier := jobNotifier{hub: a.Hub, metrics: a.Metrics}
		a.Jobs = jobs.NewRunner(databases.NewJobDatabase(a.dbHelper), notifier, a.Events, a.Config.JobConcurrency)
	}
}

// jobNotifier pushes job transitions to websocket streams and counts finished jobs
type jobNotifier struct {
	hub     *JobHub
	metrics *api.Metrics
}

func (n jobNotifier) JobUpdated(job models.Job) {
	n.hub.JobUpdated(job)
	if job.Status.Done() {
		n.metrics.JobFinished(string(job.Kind), string(job.Status))
	}
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	a.defaults()

	modelDB := databases.NewOFModelDatabase(a.dbHelper)
	m := OFModel{
		DB:         modelDB,
		CaptionDB:  databases.NewCaptionDatabase(a.dbHelper),
		PipelineDB: databases.NewPipelineDatabase(a.dbHelper),
		Events:     a.Events,
	}
	c := Caption{DB: m.CaptionDB, ModelDB: modelDB, Events: a.Events}
	f := Feed{
		Posts:        databases.NewPostDatabase(a.dbHelper),
		Comments:     databases.NewCommentDatabase(a.dbHelper),
		Likes:        databases.NewReactionDatabase(a.dbHelper, databases.PostLikeName),
		Bookmarks:    databases.NewReactionDatabase(a.dbHelper, databases.BookmarkName),
		CommentLikes: databases.NewReactionDatabase(a.dbHelper, databases.CommentLikeName),
		Models:       modelDB,
		Creators:     databases.NewCreatorDatabase(a.dbHelper),
		Guard:        a.Guard,
		Profiles:     a.Profiles,
		Events:       a.Events,
		Metrics:      a.Metrics,
	}
	p := Pipeline{DB: m.PipelineDB, SlotDB: databases.NewSlotDatabase(a.dbHelper), ModelDB: modelDB, Events: a.Events}
	inv := Invitation{
		DB:      databases.NewInvitationDatabase(a.dbHelper),
		Models:  m,
		Mailer:  a.Mailer,
		Events:  a.Events,
		Metrics: a.Metrics,
		BaseURL: a.Config.OnboardingBaseURL,
	}
	admin := Admin{
		Models:      m,
		Invitations: inv,
		Creators:    f.Creators,
		Orgs:        databases.NewOrganizationDatabase(a.dbHelper),
		Jobs:        a.Jobs,
	}
	j := Job{DB: databases.NewJobDatabase(a.dbHelper), Hub: a.Hub}
	media := Media{Uploader: a.Uploader}

	r := mux.NewRouter()
	r.Use(api.RequestLogger, a.Metrics.Middleware)

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.Handle("/metrics", a.Metrics.Handler()).Methods("GET")

	timeout := api.TimeoutMiddleware(a.Config.RequestTimeout)

	// public routes
	public := r.PathPrefix("/api").Subrouter()
	public.Use(timeout)
	public.HandleFunc("/auth/token", a.Auth.CreateToken).Methods("POST")
	public.HandleFunc("/onboarding-invitations/token/{token}", inv.PublicInvitationHandler).Methods("GET")
	public.HandleFunc("/onboarding-invitations/token/{token}/redeem", inv.RedeemInvitationHandler).Methods("POST")

	apiCreate := r.PathPrefix("/api").Subrouter()
	apiCreate.Use(timeout, a.Auth.Middleware)

	apiCreate.HandleFunc("/auth/token", a.Auth.RevokeToken).Methods("DELETE")

	apiCreate.HandleFunc("/of-models", m.ListModelsHandler).Methods("GET")
	apiCreate.HandleFunc("/of-models", m.CreateModelHandler).Methods("POST")
	apiCreate.HandleFunc("/of-models/{id}", m.ModelHandler).Methods("GET")
	apiCreate.HandleFunc("/of-models/{id}", m.UpdateModelHandler).Methods("PATCH")
	apiCreate.HandleFunc("/of-models/{id}", m.DeleteModelHandler).Methods("DELETE")

	apiCreate.HandleFunc("/of-models/{id}/captions", c.ListCaptionsHandler).Methods("GET")
	apiCreate.HandleFunc("/of-models/{id}/captions", c.CreateCaptionHandler).Methods("POST")
	apiCreate.HandleFunc("/of-models/{id}/captions/analytics", c.CaptionAnalyticsHandler).Methods("GET")
	apiCreate.HandleFunc("/captions/{id}", c.UpdateCaptionHandler).Methods("PATCH")
	apiCreate.HandleFunc("/captions/{id}", c.DeleteCaptionHandler).Methods("DELETE")
	apiCreate.HandleFunc("/captions/{id}/usage", c.RecordUsageHandler).Methods("POST")

	apiCreate.HandleFunc("/feed/profile/{userId}", f.ProfileHandler).Methods("GET")
	apiCreate.HandleFunc("/feed/profile/{userId}/posts", f.ProfilePostsHandler).Methods("GET")
	apiCreate.HandleFunc("/feed/posts", f.ListPostsHandler).Methods("GET")
	apiCreate.HandleFunc("/feed/posts", f.CreatePostHandler).Methods("POST")
	apiCreate.HandleFunc("/feed/posts/{id}", f.PostHandler).Methods("GET")
	apiCreate.HandleFunc("/feed/posts/{id}", f.DeletePostHandler).Methods("DELETE")
	apiCreate.HandleFunc("/feed/posts/{id}/like", f.LikePostHandler).Methods("POST")
	apiCreate.HandleFunc("/feed/posts/{id}/like", f.UnlikePostHandler).Methods("DELETE")
	apiCreate.HandleFunc("/feed/posts/{id}/bookmark", f.BookmarkPostHandler).Methods("POST")
	apiCreate.HandleFunc("/feed/posts/{id}/bookmark", f.UnbookmarkPostHandler).Methods("DELETE")
	apiCreate.HandleFunc("/feed/posts/{id}/comments", f.ListCommentsHandler).Methods("GET")
	apiCreate.HandleFunc("/feed/posts/{id}/comments", f.CreateCommentHandler).Methods("POST")
	apiCreate.HandleFunc("/feed/comments/{id}", f.DeleteCommentHandler).Methods("DELETE")
	apiCreate.HandleFunc("/feed/comments/{id}/like", f.LikeCommentHandler).Methods("POST")
	apiCreate.HandleFunc("/feed/comments/{id}/like", f.UnlikeCommentHandler).Methods("DELETE")
	apiCreate.HandleFunc("/feed/bookmarks", f.BookmarksHandler).Methods("GET")

	apiCreate.HandleFunc("/onboarding-invitations", inv.ListInvitationsHandler).Methods("GET")
	apiCreate.HandleFunc("/onboarding-invitations", inv.CreateInvitationHandler).Methods("POST")
	apiCreate.HandleFunc("/onboarding-invitations/{id}", inv.InvitationHandler).Methods("GET")
	apiCreate.HandleFunc("/onboarding-invitations/{id}", inv.UpdateInvitationHandler).Methods("PATCH")
	apiCreate.HandleFunc("/onboarding-invitations/{id}", inv.DeleteInvitationHandler).Methods("DELETE")

	apiCreate.HandleFunc("/instagram/pipeline", p.ListPipelineHandler).Methods("GET")
	apiCreate.HandleFunc("/instagram/pipeline", p.CreatePipelineItemHandler).Methods("POST")
	apiCreate.HandleFunc("/instagram/pipeline/summary", p.PipelineSummaryHandler).Methods("GET")
	apiCreate.HandleFunc("/instagram/pipeline/{id}", p.PipelineItemHandler).Methods("GET")
	apiCreate.HandleFunc("/instagram/pipeline/{id}", p.UpdatePipelineItemHandler).Methods("PATCH")
	apiCreate.HandleFunc("/instagram/pipeline/{id}", p.DeletePipelineItemHandler).Methods("DELETE")
	apiCreate.HandleFunc("/instagram/slots", p.ListSlotsHandler).Methods("GET")
	apiCreate.HandleFunc("/instagram/slots", p.CreateSlotHandler).Methods("POST")
	apiCreate.HandleFunc("/instagram/slots/{id}", p.DeleteSlotHandler).Methods("DELETE")

	apiCreate.HandleFunc("/jobs/{id}", j.JobHandler).Methods("GET")
	apiCreate.HandleFunc("/media", media.UploadHandler).Methods("POST")
	apiCreate.HandleFunc("/media/signature", media.SignatureHandler).Methods("GET")

	adminRoutes := apiCreate.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(api.RequireAdmin)
	adminRoutes.HandleFunc("/models", admin.AdminModelsHandler).Methods("GET")
	adminRoutes.HandleFunc("/creators", admin.AdminCreatorsHandler).Methods("GET")
	adminRoutes.HandleFunc("/organizations", admin.AdminOrganizationsHandler).Methods("GET")
	adminRoutes.HandleFunc("/models/bulk-assign", admin.BulkAssignHandler).Methods("POST")
	adminRoutes.HandleFunc("/models/bulk-share", admin.BulkShareHandler).Methods("POST")
	adminRoutes.HandleFunc("/models/bulk-delete", admin.BulkDeleteHandler).Methods("POST")
	adminRoutes.HandleFunc("/invitations/bulk-revoke", admin.BulkRevokeHandler).Methods("POST")

	// the stream outlives any request timeout
	stream := r.PathPrefix("/api").Subrouter()
	stream.Use(a.Auth.Middleware)
	stream.HandleFunc("/jobs/{id}/stream", j.JobStreamHandler).Methods("GET")

	return r
}

// Initialize is invoked by the serve command to connect with the database, the optional
// backing services, and create a router
func (a *App) Initialize(ctx context.Context) error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(zap.Error(err)).Error("failed to create new client")
		return err
	}
	if err = client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(zap.Error(err)).Error("failed to connect to database")
		return err
	}
	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("studio-api has connected to the database")

	if err = databases.EnsureIndexes(ctx, a.dbHelper); err != nil {
		zap.S().With(zap.Error(err)).Error("failed to ensure indexes")
		return err
	}

	if a.Guard, err = cache.NewGuard(a.Config.RedisURL); err != nil {
		return err
	}
	if a.Events, err = events.New(a.Config.NatsURL); err != nil {
		return err
	}
	a.Mailer = mailer.New(a.Config.SendgridAPIKey, a.Config.MailFrom, a.Config.MailFromName)

	uploader, err := NewCloudinaryUploader(a.Config.CloudinaryCloudName, a.Config.CloudinaryAPIKey, a.Config.CloudinaryAPISecret, a.Config.CloudinaryFolder)
	if err != nil {
		return err
	}
	if uploader != nil {
		a.Uploader = uploader
	} else {
		zap.S().Info("cloudinary not configured, media uploads are disabled")
	}

	sessions, err := api.NewSessionVerifier(a.Config.SessionPublicKey, a.Config.SessionSecret)
	if err != nil {
		return err
	}
	a.Auth = api.NewAuthenticator(ctx, databases.NewAPIClientDatabase(a.dbHelper), sessions, a.Config.SessionCacheTTL)

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Close waits for running jobs, then releases the backing services
func (a *App) Close(ctx context.Context) error {
	if a.Jobs != nil {
		a.Jobs.Wait()
	}
	var err error
	if a.Events != nil {
		err = multierr.Append(err, a.Events.Close())
	}
	if a.client != nil {
		err = multierr.Append(err, a.client.Disconnect(ctx))
	}
	return err
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
