package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"

	"github.com/pageza/recipe-carousel/backend/config"
	"github.com/pageza/recipe-carousel/backend/internal/database"
	"github.com/pageza/recipe-carousel/backend/internal/logging"
	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/service"
	"github.com/pageza/recipe-carousel/backend/internal/store"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "recipectl",
		Usage:  "Manage the recipe database",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Init(logging.Config{Level: cmd.String("log-level"), Format: "console"})
			return ctx, nil
		},
		Commands: []*cli.Command{
			migrateCmd(),
			seedCmd(),
			listCmd(),
			createUserCmd(),
		},
	}
}

// withDB loads configuration and opens the database for the duration of fn.
func withDB(ctx context.Context, fn func(cfg *config.Config, db *gorm.DB) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(cfg, db)
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the schema and apply SQL migrations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withDB(ctx, func(cfg *config.Config, db *gorm.DB) error {
				if err := database.RunMigrations(db, cfg.Database.MigrationsDir); err != nil {
					return err
				}
				fmt.Fprintln(cmd.Root().Writer, "migrations applied")
				return nil
			})
		},
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Insert the default categories, cuisines and dietary restrictions",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withDB(ctx, func(cfg *config.Config, db *gorm.DB) error {
				n, err := database.SeedDefaultTerms(ctx, db)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.Root().Writer, "%d terms added\n", n)
				return nil
			})
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Query published recipes through the listing pipeline",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "page-size"},
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}},
			&cli.StringSliceFlag{Name: "category"},
			&cli.StringSliceFlag{Name: "cuisine"},
			&cli.StringSliceFlag{Name: "diet"},
			&cli.IntFlag{Name: "prep-min"},
			&cli.IntFlag{Name: "prep-max"},
			&cli.StringFlag{Name: "difficulty"},
			&cli.StringFlag{Name: "sort", Value: "date_desc"},
			&cli.BoolFlag{Name: "featured"},
			&cli.StringFlag{Name: "format", Value: "table", Usage: "table or json"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := strings.ToLower(cmd.String("format"))
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown output format: %q", format)
			}
			return withDB(ctx, func(cfg *config.Config, db *gorm.DB) error {
				listing := service.NewListingService(store.NewRecipeStore(db), nil, nil, cfg.Listing.DefaultPageSize)
				res, err := listing.List(ctx, types.ListRecipesRequest{
					Page:         int(cmd.Int("page")),
					PageSize:     int(cmd.Int("page-size")),
					Search:       cmd.String("search"),
					CategorySlug: cmd.StringSlice("category"),
					CuisineSlug:  cmd.StringSlice("cuisine"),
					DietSlug:     cmd.StringSlice("diet"),
					PrepMin:      int(cmd.Int("prep-min")),
					PrepMax:      int(cmd.Int("prep-max")),
					Difficulty:   cmd.String("difficulty"),
					Sort:         cmd.String("sort"),
					FeaturedOnly: cmd.Bool("featured"),
					EntryPoint:   types.EntryCLI,
				})
				if err != nil {
					return err
				}
				return writeList(cmd.Root().Writer, format, res)
			})
		},
	}
}

func writeList(w io.Writer, format string, res *types.ListResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPREP\tDIFFICULTY\tRATING\tLIKES")
	for _, item := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%.1f (%d)\t%d\n",
			item.ID, item.Title, item.PrepTime, item.Difficulty, item.RatingAverage, item.RatingCount, item.LikeCount)
	}
	p := res.Pagination
	fmt.Fprintf(tw, "\npage %d of %d, %d recipes\n", p.CurrentPage, p.TotalPages, p.Total)
	return tw.Flush()
}

func createUserCmd() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "Create a user account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "name"},
			&cli.StringFlag{
				Name:  "role",
				Value: models.RoleSubscriber,
				Usage: "subscriber, editor or admin",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withDB(ctx, func(cfg *config.Config, db *gorm.DB) error {
				auth := service.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
				user, err := auth.CreateUser(ctx, cmd.String("name"), cmd.String("email"), cmd.String("password"), cmd.String("role"))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.Root().Writer, "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
				return nil
			})
		},
	}
}
