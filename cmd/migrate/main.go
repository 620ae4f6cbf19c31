package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"

	deliveryconfig "github.com/draftea/order-system/delivery-service/config"
	deliverymigrations "github.com/draftea/order-system/delivery-service/migrations"
	orderingconfig "github.com/draftea/order-system/ordering-service/config"
	orderingmigrations "github.com/draftea/order-system/ordering-service/migrations"
	paymentconfig "github.com/draftea/order-system/payment-service/config"
	paymentmigrations "github.com/draftea/order-system/payment-service/migrations"
	sharedconfig "github.com/draftea/order-system/shared/config"
	"github.com/draftea/order-system/shared/database"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/server"
	"github.com/joho/godotenv"
)

type target struct {
	fsys fs.FS
	read func() (*sharedconfig.Base, error)
}

var targets = map[string]target{
	"ordering": {
		fsys: orderingmigrations.FS,
		read: func() (*sharedconfig.Base, error) {
			cfg, err := orderingconfig.ReadConfig()
			if err != nil {
				return nil, err
			}
			return &cfg.Base, nil
		},
	},
	"payment": {
		fsys: paymentmigrations.FS,
		read: func() (*sharedconfig.Base, error) {
			cfg, err := paymentconfig.ReadConfig()
			if err != nil {
				return nil, err
			}
			return &cfg.Base, nil
		},
	},
	"delivery": {
		fsys: deliverymigrations.FS,
		read: func() (*sharedconfig.Base, error) {
			cfg, err := deliveryconfig.ReadConfig()
			if err != nil {
				return nil, err
			}
			return &cfg.Base, nil
		},
	},
}

func main() {
	_ = godotenv.Load()

	service := flag.String("service", "ordering", "service whose schema to migrate: ordering|payment|delivery")
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|up-to|down-to")
	version := flag.String("version", "", "target version for up-to and down-to")
	flag.Parse()

	// "migrate -service payment status" reads the command positionally.
	if flag.NArg() > 0 {
		*cmd = flag.Arg(0)
	}

	t, ok := targets[*service]
	if !ok {
		fmt.Fprintln(os.Stderr, "unknown -service value:", *service)
		os.Exit(1)
	}

	var args []string
	switch *cmd {
	case "up", "down", "status", "version":
	case "up-to", "down-to":
		if *version == "" {
			fmt.Fprintf(os.Stderr, "missing -version for %s\n", *cmd)
			os.Exit(1)
		}
		args = append(args, *version)
	default:
		fmt.Fprintln(os.Stderr, "unknown migration command:", *cmd)
		os.Exit(1)
	}

	cfg, err := t.read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s config: %v\n", *service, err)
		os.Exit(1)
	}

	log := server.NewLogger("migrate", cfg.Log)
	ctx := log.WithFields(context.Background(), map[string]any{
		"service":  *service,
		"cmd":      *cmd,
		"database": cfg.Database.Database,
	})

	db, err := database.Connect(ctx, cfg.Database.DatabaseURL(), database.Options{MaxOpenConns: 1, MaxIdleConns: 1})
	requireResource(ctx, log, "database", err)
	defer db.Close()

	if err := database.Migrate(ctx, db.DB, t.fsys, ".", *cmd, args...); err != nil {
		log.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	log.Info(ctx, "migration finished")
}

func requireResource(ctx context.Context, log *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	log.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
