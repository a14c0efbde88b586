// Command setgroups seeds the default authors group with the type-level
// blog permissions. Run once against a fresh database; it refuses to
// overwrite an existing group.
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/infrastructure/config"
	mongodb "github.com/pressbox/blog-api/internal/infrastructure/db/mongo"
	"github.com/pressbox/blog-api/pkg/logger"
)

func main() {
	name := flag.String("group", "", "group name to create (defaults to DEFAULT_GROUP)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	groupName := *name
	if groupName == "" {
		groupName = cfg.DefaultGroup
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	groups := mongodb.NewGroupRepository(db)
	if err := groups.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	group := &domain.Group{
		Name:        groupName,
		Permissions: defaultPermissions(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := groups.Create(ctx, group); err != nil {
		if errors.Is(err, mongodb.ErrGroupExists) {
			log.Fatal().Str("group", groupName).Msg("group already exists, refusing to overwrite")
		}
		log.Fatal().Err(err).Msg("group creation failed")
	}

	log.Info().
		Str("group", groupName).
		Strs("permissions", group.Permissions).
		Msg("group created")
}

// defaultPermissions is the full type-level permission set for authors:
// every action on every blog resource. Object-level restrictions on
// change and delete are enforced per instance at request time.
func defaultPermissions() []string {
	resources := []domain.Resource{domain.ResourcePost, domain.ResourceComment, domain.ResourceProfile}
	actions := []domain.Action{domain.ActionView, domain.ActionAdd, domain.ActionChange, domain.ActionDelete}

	perms := make([]string, 0, len(resources)*len(actions))
	for _, r := range resources {
		for _, a := range actions {
			perms = append(perms, domain.Codename(a, r))
		}
	}
	return perms
}
