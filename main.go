package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var version = "dev"

type cliApp struct {
	rootCmd    *cobra.Command
	configFile string
	cfg        *Config
}

func newCLIApp() *cliApp {
	app := &cliApp{}

	rootCmd := &cobra.Command{
		Use:           "snic-etl",
		Short:         "ETL do consumo de cimento SNIC/CBIC",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app.configFile)
			if err != nil {
				return err
			}
			app.cfg = cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&app.configFile, "config", "C", "", "Arquivo de configuração TOML, YAML ou JSON")

	rootCmd.AddCommand(
		app.runCmd(),
		&cobra.Command{
			Use:   "extract",
			Short: "Baixa a planilha mais recente do CBIC quando houver atualização",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := extractData(cmd.Context(), app.cfg)
				return err
			},
		},
		&cobra.Command{
			Use:   "transform",
			Short: "Transforma a planilha mais recente no CSV tratado",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := transformData(app.cfg)
				return err
			},
		},
		&cobra.Command{
			Use:   "load",
			Short: "Publica o CSV tratado no Google Sheets",
			RunE: func(cmd *cobra.Command, args []string) error {
				return loadToGoogleSheets(cmd.Context(), app.cfg)
			},
		},
		&cobra.Command{
			Use:   "load-db",
			Short: "Publica o CSV tratado no Postgres",
			RunE: func(cmd *cobra.Command, args []string) error {
				return loadToDatabase(app.cfg)
			},
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve o CSV tratado como JSON via HTTP",
			RunE: func(cmd *cobra.Command, args []string) error {
				return startServer(app.cfg)
			},
		},
	)

	app.rootCmd = rootCmd
	return app
}

func (app *cliApp) runCmd() *cobra.Command {
	var force, skipSheets, db bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Executa o pipeline completo: extração, transformação e carga",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), app.cfg, pipelineOptions{
				Force:      force,
				SkipSheets: skipSheets,
				Database:   db,
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Transforma a última planilha mesmo sem atualização nova")
	cmd.Flags().BoolVar(&skipSheets, "skip-sheets", false, "Não publica no Google Sheets")
	cmd.Flags().BoolVar(&db, "db", false, "Também publica no Postgres")
	return cmd
}

type pipelineOptions struct {
	Force      bool
	SkipSheets bool
	Database   bool
}

func runPipeline(ctx context.Context, cfg *Config, opts pipelineOptions) error {
	logInfo("🚀 Iniciando automação ETL SNIC...")

	// 1. Extração
	rawFile, err := extractData(ctx, cfg)
	if err != nil {
		return err
	}
	if rawFile == "" && !opts.Force {
		logWarning("Nenhum arquivo novo, pipeline encerrado.")
		return nil
	}

	// 2. Transformação
	res, err := transformData(cfg)
	if err != nil {
		return err
	}
	if res.Empty() {
		return nil
	}

	// 3. Carga
	if !opts.SkipSheets {
		if err := loadToGoogleSheets(ctx, cfg); err != nil {
			return err
		}
	}
	if opts.Database {
		if err := loadToDatabase(cfg); err != nil {
			return err
		}
	}

	logSuccess("🎯 ETL finalizado com sucesso!")
	return nil
}

func main() {
	displayBanner(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newCLIApp()
	if err := app.rootCmd.ExecuteContext(ctx); err != nil {
		logError("%v", err)
		stop()
		os.Exit(1)
	}
}
