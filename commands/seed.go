package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/linesmerrill/studio-api/api/handlers"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/models"
)

// Fixtures is the layout of a seed file
type Fixtures struct {
	Organizations []models.Organization `yaml:"organizations" validate:"dive"`
	Creators      []models.Creator      `yaml:"creators" validate:"dive"`
	Models        []ModelFixture        `yaml:"models" validate:"dive"`
	Invitations   []InvitationFixture   `yaml:"invitations" validate:"dive"`
	Clients       []ClientFixture       `yaml:"clients" validate:"dive"`
}

// ModelFixture is a model profile to create
type ModelFixture struct {
	OrganizationID string                      `yaml:"organizationId" validate:"required"`
	CreatedBy      string                      `yaml:"createdBy"`
	Profile        models.CreateOFModelRequest `yaml:",inline"`
}

// InvitationFixture is an onboarding link to create. An empty token is generated.
type InvitationFixture struct {
	OrganizationID string                         `yaml:"organizationId" validate:"required"`
	CreatedBy      string                         `yaml:"createdBy"`
	Token          string                         `yaml:"token" validate:"omitempty,min=16"`
	Link           models.CreateInvitationRequest `yaml:",inline"`
}

// ClientFixture is an api client credential. The secret is stored bcrypt hashed.
type ClientFixture struct {
	ClientID       string `yaml:"clientId" validate:"required"`
	Secret         string `yaml:"secret" validate:"required,min=12"`
	Name           string `yaml:"name"`
	OrganizationID string `yaml:"organizationId" validate:"required"`
	Role           string `yaml:"role" validate:"omitempty,oneof=admin member"`
}

var fixtureValidate = validator.New()

// LoadFixtures parses and validates a seed file
func LoadFixtures(r io.Reader) (Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return f, fmt.Errorf("parse fixtures: %w", err)
	}
	for _, org := range f.Organizations {
		if org.ID == "" || org.Name == "" {
			return f, fmt.Errorf("organization %q needs an id and a name", org.ID)
		}
	}
	for _, c := range f.Creators {
		if c.UserID == "" || c.OrganizationID == "" {
			return f, fmt.Errorf("creator %q needs a userId and an organizationId", c.Name)
		}
	}
	if err := fixtureValidate.Struct(f); err != nil {
		return f, fmt.Errorf("invalid fixtures: %w", err)
	}
	return f, nil
}

// SeedReport counts what a seed run wrote
type SeedReport struct {
	Organizations int
	Creators      int
	Models        int
	Invitations   int
	Clients       int
	Skipped       int
}

// Seeder writes fixtures. Organizations and creators are upserted; models, invitations and
// clients that already exist are skipped, so a seed file can be applied more than once.
type Seeder struct {
	Orgs        databases.OrganizationDatabase
	Creators    databases.CreatorDatabase
	Models      databases.OFModelDatabase
	Invitations databases.InvitationDatabase
	Clients     databases.APIClientDatabase
	Now         func() time.Time
}

// NewSeeder returns a seeder writing to db
func NewSeeder(db databases.DatabaseHelper) Seeder {
	return Seeder{
		Orgs:        databases.NewOrganizationDatabase(db),
		Creators:    databases.NewCreatorDatabase(db),
		Models:      databases.NewOFModelDatabase(db),
		Invitations: databases.NewInvitationDatabase(db),
		Clients:     databases.NewAPIClientDatabase(db),
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

// Seed writes every fixture and stops at the first error
func (s Seeder) Seed(ctx context.Context, f Fixtures) (SeedReport, error) {
	var report SeedReport
	now := s.Now()

	for _, org := range f.Organizations {
		org.CreatedAt = now
		if err := s.Orgs.Upsert(ctx, org); err != nil {
			return report, fmt.Errorf("organization %s: %w", org.ID, err)
		}
		report.Organizations++
	}

	for _, c := range f.Creators {
		if c.Role == "" {
			c.Role = "member"
		}
		c.CreatedAt = now
		if err := s.Creators.Upsert(ctx, c); err != nil {
			return report, fmt.Errorf("creator %s: %w", c.UserID, err)
		}
		report.Creators++
	}

	for _, m := range f.Models {
		model := handlers.NewModel(m.OrganizationID, m.CreatedBy, m.Profile)
		existing, err := s.Models.FindOne(ctx, bson.M{"organizationId": model.OrganizationID, "slug": model.Slug})
		exists, err := found(existing, err)
		if err != nil {
			return report, fmt.Errorf("model %s: %w", model.Slug, err)
		}
		if exists {
			report.Skipped++
			continue
		}
		if _, err := s.Models.InsertOne(ctx, model); err != nil {
			return report, fmt.Errorf("model %s: %w", model.Slug, err)
		}
		report.Models++
	}

	for _, i := range f.Invitations {
		inv := handlers.NewInvitation(i.OrganizationID, i.CreatedBy, i.Link, now)
		if i.Token != "" {
			inv.Token = i.Token
			existing, err := s.Invitations.FindOne(ctx, bson.M{"token": inv.Token})
			exists, err := found(existing, err)
			if err != nil {
				return report, fmt.Errorf("invitation %s: %w", inv.Token, err)
			}
			if exists {
				report.Skipped++
				continue
			}
		}
		if _, err := s.Invitations.InsertOne(ctx, inv); err != nil {
			return report, fmt.Errorf("invitation %s: %w", inv.Token, err)
		}
		report.Invitations++
	}

	for _, c := range f.Clients {
		existing, err := s.Clients.FindOne(ctx, bson.M{"clientId": c.ClientID})
		exists, err := found(existing, err)
		if err != nil {
			return report, fmt.Errorf("client %s: %w", c.ClientID, err)
		}
		if exists {
			report.Skipped++
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Secret), bcrypt.DefaultCost)
		if err != nil {
			return report, fmt.Errorf("client %s: %w", c.ClientID, err)
		}
		role := c.Role
		if role == "" {
			role = "member"
		}
		client := models.APIClient{
			ClientID:       c.ClientID,
			Name:           c.Name,
			OrganizationID: c.OrganizationID,
			SecretHash:     string(hash),
			Role:           role,
			CreatedAt:      now,
		}
		if _, err := s.Clients.InsertOne(ctx, client); err != nil {
			return report, fmt.Errorf("client %s: %w", c.ClientID, err)
		}
		report.Clients++
	}
	return report, nil
}

// found turns a FindOne result into an existence check
func found[T any](doc *T, err error) (bool, error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

func newSeedCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load organizations, creators, models, invitations and api clients from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(file)
			if err != nil {
				return err
			}
			defer in.Close()
			fixtures, err := LoadFixtures(in)
			if err != nil {
				return err
			}

			conf := config.New()
			ctx := cmd.Context()
			client, db, err := connect(ctx, conf)
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			report, err := NewSeeder(db).Seed(ctx, fixtures)
			zap.S().Infow("seed finished", "report", report, "error", err)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "fixtures.yaml", "YAML fixtures file")
	return cmd
}

func printReport(w io.Writer, r SeedReport) {
	fmt.Fprintf(w, "organizations: %d\ncreators: %d\nmodels: %d\ninvitations: %d\nclients: %d\nskipped: %d\n",
		r.Organizations, r.Creators, r.Models, r.Invitations, r.Clients, r.Skipped)
}
