package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"contractflow/internal/config"
	"contractflow/internal/infra"
	"contractflow/internal/models/request_models"
	"contractflow/internal/repositories"
	"contractflow/internal/services"
	"contractflow/pkg/logger"
	"contractflow/pkg/utils"
	"github.com/spf13/cobra"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.PathFromEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.InitWithWriter(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, cmd.ErrOrStderr())
	return cfg, nil
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for auth.admins[].password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args[0]) < 8 {
				return errors.New("password must be at least 8 characters")
			}
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the contracts table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != "postgres" {
				return fmt.Errorf("migrate needs the postgres driver, configured %q", cfg.Database.Driver)
			}

			db, err := infra.InitPostgresql(cfg.Database)
			if err != nil {
				return err
			}
			defer infra.ClosePostgresql(db)

			if err := infra.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "contracts table is up to date")
			return nil
		},
	}
}

func contractService(cfg *config.Config) (services.ContractService, func(), error) {
	contracts, _, closeDB, err := repositories.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := services.NewPackageCatalog(cfg.Contract.PackagePrices)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	tokens, err := services.NewTokenGenerator(cfg.Contract.TokenLength)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	svc := services.NewContractService(contracts, catalog, tokens,
		services.NewLogNotifier(), services.NewDisabledAssetStore(), cfg, utils.SystemClock)
	return svc, closeDB, nil
}

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contract link for a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			svc, closeDB, err := contractService(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			pkg, _ := cmd.Flags().GetString("package")
			client, _ := cmd.Flags().GetString("client")
			days, _ := cmd.Flags().GetInt("days")

			res, err := svc.CreateContract(context.Background(), request_models.CreateContractRequest{
				ClientName: client,
				Package:    pkg,
				ExpiryDays: days,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Token:   %s\n", res.Token)
			fmt.Fprintf(out, "Expires: %s\n", res.ExpiresAt.Format("2006-01-02 15:04 MST"))
			fmt.Fprintf(out, "Link:    %s\n", res.Link)
			return nil
		},
	}

	cmd.Flags().StringP("package", "p", "", "Package code (testing, starter, growth, premium)")
	cmd.Flags().StringP("client", "c", "", "Client name")
	cmd.Flags().IntP("days", "d", 0, "Days until the link expires (0 uses the configured default)")
	_ = cmd.MarkFlagRequired("package")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contracts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			svc, closeDB, err := contractService(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			status, _ := cmd.Flags().GetString("status")
			contracts, err := svc.ListContracts(context.Background(), status)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TOKEN\tSTATUS\tPACKAGE\tCLIENT\tEXPIRES")
			for _, c := range contracts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					c.Token, c.Status, c.Package, c.ClientName, c.ExpiresAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringP("status", "s", "", "Only contracts in this status")
	return cmd
}
