package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edugamify/classroom-api/internal/config"
	"github.com/edugamify/classroom-api/internal/db"
	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/logger"
	"github.com/edugamify/classroom-api/internal/repository"
	"github.com/edugamify/classroom-api/internal/repository/dao"
	"github.com/edugamify/classroom-api/internal/service"
)

type openFunc func(conf *config.AppConfig) (*gorm.DB, error)

func openDatabase(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}

	return db.Open(conf.Database)
}

// commandLine holds what every subcommand needs once the database is open.
type commandLine struct {
	open openFunc
	conn *gorm.DB

	persons *repository.PersonRepository
	auth    *service.AuthService
	admin   *service.AdminService
}

func (cli *commandLine) init(configPath string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load -> %w", err)
	}
	if err := logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("logger.Init -> %w", err)
	}

	if cli.conn == nil {
		if cli.conn, err = cli.open(conf); err != nil {
			return fmt.Errorf("failed to open database -> %w", err)
		}
	}

	tx := dao.NewTransactor(cli.conn)
	cli.persons = repository.NewPersonRepository(dao.NewPersonDAO(cli.conn))
	trophies := repository.NewTrophyRepository(dao.NewTrophyDAO(cli.conn))
	activities := repository.NewActivityRepository(dao.NewActivityDAO(cli.conn))

	cli.auth = service.NewAuthService(cli.persons, nil, nil)
	cli.admin = service.NewAdminService(tx, cli.persons, trophies, activities, service.NewTrophyEvaluator(trophies))

	return nil
}

func newRootCmd(open openFunc) *cobra.Command {
	cli := &commandLine{open: open}
	return cli.rootCmd()
}

func (cli *commandLine) rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "classroomctl",
		Short:         "Operator tasks for the classroom API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return cli.init(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "./cmd/app/config.yml", "path to the YAML config file")

	root.AddCommand(
		cli.migrateCmd(),
		cli.createUserCmd(),
		cli.setRoleCmd(),
		cli.evaluateTrophiesCmd(),
	)

	return root
}

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := dao.InitTables(cli.conn); err != nil {
				return fmt.Errorf("dao.InitTables -> %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tables are up to date")
			return nil
		},
	}
}

func (cli *commandLine) createUserCmd() *cobra.Command {
	var account struct {
		username, email, password, role string
	}

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account with any role, admin included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			person, err := cli.auth.CreateAccount(cmd.Context(), service.Account{
				Username: account.username,
				Email:    account.email,
				Password: account.password,
				Role:     domain.Role(account.role),
			})
			if err != nil {
				return fmt.Errorf("cli.auth.CreateAccount -> %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q (id %d)\n", person.Role, person.Username, person.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&account.username, "username", "", "login name")
	flags.StringVar(&account.email, "email", "", "email address")
	flags.StringVar(&account.password, "password", "", "initial password")
	flags.StringVar(&account.role, "role", string(domain.RoleAdmin), "admin, teacher or student")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (cli *commandLine) setRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role USERNAME ROLE",
		Short: "Change the role of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			person, err := cli.persons.FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("cli.persons.FindByUsername -> %w", err)
			}

			updated, err := cli.admin.ChangeRole(cmd.Context(), person.ID, args[1])
			if err != nil {
				return fmt.Errorf("cli.admin.ChangeRole -> %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q is now %s\n", updated.Username, updated.Role)
			return nil
		},
	}
}

func (cli *commandLine) evaluateTrophiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate-trophies [USERNAME]",
		Short: "Grant every trophy a balance reaches; all accounts when no username is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			persons, err := cli.targets(cmd.Context(), args)
			if err != nil {
				return err
			}

			for _, person := range persons {
				granted, err := cli.admin.EvaluateTrophies(cmd.Context(), person.ID)
				if err != nil {
					return fmt.Errorf("cli.admin.EvaluateTrophies -> %w", err)
				}
				for _, trophy := range granted {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: granted %q\n", person.Username, trophy.Name)
				}
				if len(granted) > 0 {
					zap.L().Info("granted trophies", zap.Uint("person_id", person.ID), zap.Int("count", len(granted)))
				}
			}
			return nil
		},
	}
}

func (cli *commandLine) targets(ctx context.Context, args []string) ([]domain.Person, error) {
	if len(args) == 0 {
		persons, err := cli.admin.ListPersons(ctx)
		if err != nil {
			return nil, fmt.Errorf("cli.admin.ListPersons -> %w", err)
		}
		return persons, nil
	}

	person, err := cli.persons.FindByUsername(ctx, args[0])
	if err != nil {
		return nil, fmt.Errorf("cli.persons.FindByUsername -> %w", err)
	}

	return []domain.Person{person}, nil
}
