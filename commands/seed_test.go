package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/studio-api/databases/mocks"
	"github.com/linesmerrill/studio-api/models"
)

const fixturesYAML = `
organizations:
  - id: org_1
    name: Velvet Agency
    slug: velvet
creators:
  - userId: user_ana
    organizationId: org_1
    name: Ana
    email: ana@velvet.test
    role: admin
models:
  - organizationId: org_1
    createdBy: user_ana
    name: Luna Rae
    status: PENDING
    socialLinks:
      instagram: lunarae
    creatorIds: [user_ana]
  - organizationId: org_1
    name: Mia Stone
invitations:
  - organizationId: org_1
    token: 0123456789abcdef0123456789abcdef
    label: Spring intake
    maxUses: 3
  - organizationId: org_1
    email: New.Model@Example.com
clients:
  - clientId: reporting
    secret: correct-horse-battery
    organizationId: org_1
`

var seedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func TestLoadFixtures(t *testing.T) {
	f, err := LoadFixtures(strings.NewReader(fixturesYAML))
	require.NoError(t, err)

	require.Len(t, f.Organizations, 1)
	assert.Equal(t, "velvet", f.Organizations[0].Slug)
	require.Len(t, f.Models, 2)
	assert.Equal(t, "Luna Rae", f.Models[0].Profile.Name)
	assert.Equal(t, models.ModelStatusPending, f.Models[0].Profile.Status)
	assert.Equal(t, "lunarae", f.Models[0].Profile.SocialLinks.Instagram)
	assert.Equal(t, []string{"user_ana"}, f.Models[0].Profile.CreatorIDs)
	require.Len(t, f.Invitations, 2)
	assert.Equal(t, 3, f.Invitations[0].Link.MaxUses)
	assert.Equal(t, "reporting", f.Clients[0].ClientID)
}

func TestLoadFixturesEmpty(t *testing.T) {
	f, err := LoadFixtures(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Models)
}

func TestLoadFixturesRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":       "models:\n  - organizationId: org_1\n    name: Luna\n    nickname: lu\n",
		"short model name":    "models:\n  - organizationId: org_1\n    name: L\n",
		"model without org":   "models:\n  - name: Luna Rae\n",
		"bad invite email":    "invitations:\n  - organizationId: org_1\n    email: nope\n",
		"org without id":      "organizations:\n  - name: Velvet\n",
		"short client secret": "clients:\n  - clientId: c\n    secret: short\n    organizationId: org_1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFixtures(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

type seedFixture struct {
	orgs        *mocks.OrganizationDatabase
	creators    *mocks.CreatorDatabase
	models      *mocks.OFModelDatabase
	invitations *mocks.InvitationDatabase
	clients     *mocks.APIClientDatabase
	seeder      Seeder
}

func newSeedFixture(t *testing.T) *seedFixture {
	fx := &seedFixture{
		orgs:        mocks.NewOrganizationDatabase(t),
		creators:    mocks.NewCreatorDatabase(t),
		models:      mocks.NewOFModelDatabase(t),
		invitations: mocks.NewInvitationDatabase(t),
		clients:     mocks.NewAPIClientDatabase(t),
	}
	fx.seeder = Seeder{
		Orgs:        fx.orgs,
		Creators:    fx.creators,
		Models:      fx.models,
		Invitations: fx.invitations,
		Clients:     fx.clients,
		Now:         func() time.Time { return seedNow },
	}
	return fx
}

func TestSeedWritesEverything(t *testing.T) {
	f, err := LoadFixtures(strings.NewReader(fixturesYAML))
	require.NoError(t, err)
	fx := newSeedFixture(t)
	ctx := context.Background()

	fx.orgs.On("Upsert", ctx, models.Organization{ID: "org_1", Name: "Velvet Agency", Slug: "velvet", CreatedAt: seedNow}).Return(nil)
	fx.creators.On("Upsert", ctx, mock.MatchedBy(func(c models.Creator) bool {
		return c.UserID == "user_ana" && c.Role == "admin" && c.CreatedAt.Equal(seedNow)
	})).Return(nil)

	fx.models.On("FindOne", ctx, bson.M{"organizationId": "org_1", "slug": "luna-rae"}).Return(nil, mongo.ErrNoDocuments)
	fx.models.On("FindOne", ctx, bson.M{"organizationId": "org_1", "slug": "mia-stone"}).Return(nil, mongo.ErrNoDocuments)
	fx.models.On("InsertOne", ctx, mock.MatchedBy(func(m models.OFModel) bool {
		return m.Slug == "luna-rae" && m.Status == models.ModelStatusPending && m.CreatedBy == "user_ana"
	})).Return(nil, nil).Once()
	fx.models.On("InsertOne", ctx, mock.MatchedBy(func(m models.OFModel) bool {
		return m.Slug == "mia-stone" && m.Status == models.ModelStatusActive && m.DisplayName == "Mia Stone"
	})).Return(nil, nil).Once()

	fx.invitations.On("FindOne", ctx, bson.M{"token": "0123456789abcdef0123456789abcdef"}).Return(nil, mongo.ErrNoDocuments)
	fx.invitations.On("InsertOne", ctx, mock.MatchedBy(func(inv models.Invitation) bool {
		return inv.Token == "0123456789abcdef0123456789abcdef" && inv.MaxUses == 3 && inv.IsActive
	})).Return(nil, nil).Once()
	fx.invitations.On("InsertOne", ctx, mock.MatchedBy(func(inv models.Invitation) bool {
		return inv.Email == "new.model@example.com" && len(inv.Token) == 32 && inv.MaxUses == 1 &&
			inv.ExpiresAt.After(seedNow)
	})).Return(nil, nil).Once()

	fx.clients.On("FindOne", ctx, bson.M{"clientId": "reporting"}).Return(nil, mongo.ErrNoDocuments)
	fx.clients.On("InsertOne", ctx, mock.MatchedBy(func(c models.APIClient) bool {
		return c.Role == "member" && bcrypt.CompareHashAndPassword([]byte(c.SecretHash), []byte("correct-horse-battery")) == nil
	})).Return(nil, nil)

	report, err := fx.seeder.Seed(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{Organizations: 1, Creators: 1, Models: 2, Invitations: 2, Clients: 1}, report)
}

func TestSeedSkipsExisting(t *testing.T) {
	fx := newSeedFixture(t)
	ctx := context.Background()
	f := Fixtures{
		Models:      []ModelFixture{{OrganizationID: "org_1", Profile: models.CreateOFModelRequest{Name: "Luna Rae"}}},
		Invitations: []InvitationFixture{{OrganizationID: "org_1", Token: "0123456789abcdef0123456789abcdef"}},
		Clients:     []ClientFixture{{ClientID: "reporting", Secret: "correct-horse-battery", OrganizationID: "org_1"}},
	}

	fx.models.On("FindOne", ctx, bson.M{"organizationId": "org_1", "slug": "luna-rae"}).Return(&models.OFModel{Slug: "luna-rae"}, nil)
	fx.invitations.On("FindOne", ctx, bson.M{"token": "0123456789abcdef0123456789abcdef"}).Return(&models.Invitation{}, nil)
	fx.clients.On("FindOne", ctx, bson.M{"clientId": "reporting"}).Return(&models.APIClient{}, nil)

	report, err := fx.seeder.Seed(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{Skipped: 3}, report)
}

func TestSeedStopsOnError(t *testing.T) {
	fx := newSeedFixture(t)
	ctx := context.Background()
	boom := errors.New("connection reset")
	f := Fixtures{Organizations: []models.Organization{{ID: "org_1", Name: "Velvet"}, {ID: "org_2", Name: "Other"}}}

	fx.orgs.On("Upsert", ctx, mock.Anything).Return(boom).Once()

	report, err := fx.seeder.Seed(ctx, f)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "organization org_1")
	assert.Zero(t, report.Organizations)
}
