package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/app"
	"github.com/guttosm/cart-service/internal/catalogio"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/guttosm/cart-service/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var errMemoryCatalog = errors.New("catalog backend is memory; set CATALOG_BACKEND to mongo or postgres")

func newApp() *cli.App {
	return &cli.App{
		Name:  "catalogctl",
		Usage: "manage the cart-service catalog",
		Commands: []*cli.Command{
			migrateCommand(),
			importCommand(),
			exportCommand(),
			tokenCommand(),
			hashKeyCommand(),
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply Postgres catalog migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dsn", Usage: "Postgres DSN (defaults to POSTGRES_DSN)"},
		},
		Action: func(c *cli.Context) error {
			dsn := c.String("dsn")
			if dsn == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dsn = cfg.Postgres.DSN
			}
			if err := repository.MigratePostgres(dsn); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "migrations applied")
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "upsert products from a CSV file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "CSV file, - for stdin"},
			&cli.IntFlag{Name: "concurrency", Value: 8, Usage: "parallel writes"},
		},
		Action: func(c *cli.Context) error {
			return withCatalog(c.Context, func(catalog service.CatalogService) error {
				in, closeIn, err := openInput(c.App.Reader, c.String("file"))
				if err != nil {
					return err
				}
				defer closeIn()

				products, err := catalogio.Read(in)
				if err != nil {
					return err
				}

				start := time.Now()
				n, err := catalogio.Import(c.Context, catalog, products, c.Int("concurrency"))
				log.Info().Int("saved", n).Int("total", len(products)).Dur("took", time.Since(start)).Msg("Import finished")
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "imported %d products\n", n)
				return nil
			})
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the catalog as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Value: "-", Usage: "output file, - for stdout"},
			&cli.IntFlag{Name: "page-size", Value: 200},
		},
		Action: func(c *cli.Context) error {
			return withCatalog(c.Context, func(catalog service.CatalogService) error {
				products, err := catalogio.ExportAll(c.Context, catalog, c.Int("page-size"))
				if err != nil {
					return err
				}

				out := c.App.Writer
				if path := c.String("file"); path != "-" {
					f, err := os.Create(path)
					if err != nil {
						return err
					}
					defer f.Close()
					out = f
				}
				return catalogio.Write(out, products)
			})
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue an admin bearer token signed with AUTH_JWT_SECRET",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Value: "catalogctl"},
			&cli.DurationFlag{Name: "ttl", Value: time.Hour},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			auth := service.NewAdminAuthenticator(service.AdminAuthConfig{
				JWTSecret: cfg.Auth.JWTSecret,
				JWTIssuer: cfg.Auth.JWTIssuer,
			})
			token, err := auth.IssueToken(c.String("subject"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

func hashKeyCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-key",
		Usage:     "bcrypt an API key for AUTH_API_KEY_HASHES; generates a key when none is given",
		ArgsUsage: "[key]",
		Action: func(c *cli.Context) error {
			key := c.Args().First()
			if key == "" {
				var err error
				if key, err = randomKey(32); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "key:  %s\n", key)
			}
			hash, err := service.HashAPIKey(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "hash: %s\n", hash)
			return nil
		},
	}
}

// withCatalog opens the configured persistent catalog for fn.
func withCatalog(ctx context.Context, fn func(service.CatalogService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Catalog.Backend == config.CatalogBackendMemory {
		return errMemoryCatalog
	}

	db, err := app.InitializeDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	return fn(service.NewCatalogService(db.Products, nil))
}

func openInput(stdin io.Reader, path string) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func randomKey(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
