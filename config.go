package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Config reúne os caminhos e credenciais usados pelas etapas do ETL.
// Ordem de precedência: valores padrão, arquivo de configuração, .env e variáveis de ambiente.
type Config struct {
	DataDir      string `json:"data_dir" yaml:"data_dir" toml:"data_dir" envconfig:"DATA_DIR"`
	RawDataDir   string `json:"raw_dir" yaml:"raw_dir" toml:"raw_dir" envconfig:"RAW_DATA_DIR"`
	ProcessedDir string `json:"processed_dir" yaml:"processed_dir" toml:"processed_dir" envconfig:"PROCESSED_DIR"`
	MetadataPath string `json:"metadata_path" yaml:"metadata_path" toml:"metadata_path" envconfig:"METADATA_PATH"`
	OutputFile   string `json:"output_file" yaml:"output_file" toml:"output_file" envconfig:"OUTPUT_FILE"`

	CBICURL     string `json:"cbic_url" yaml:"cbic_url" toml:"cbic_url" envconfig:"CBIC_URL" validate:"required,url"`
	CBICFileURL string `json:"cbic_file_url" yaml:"cbic_file_url" toml:"cbic_file_url" envconfig:"CBIC_FILE_URL" validate:"required,url"`
	ProbeStart  int    `json:"probe_start" yaml:"probe_start" toml:"probe_start" envconfig:"CBIC_PROBE_START" validate:"gte=0"`
	ProbeLimit  int    `json:"probe_limit" yaml:"probe_limit" toml:"probe_limit" envconfig:"CBIC_PROBE_LIMIT" validate:"gtfield=ProbeStart"`

	SheetsCredentials string `json:"sheets_credentials" yaml:"sheets_credentials" toml:"sheets_credentials" envconfig:"GOOGLE_SHEETS_CREDENTIALS" validate:"required,file"`
	SheetsID          string `json:"sheets_id" yaml:"sheets_id" toml:"sheets_id" envconfig:"GOOGLE_SHEETS_ID" validate:"required"`
	SheetsTab         string `json:"sheets_tab" yaml:"sheets_tab" toml:"sheets_tab" envconfig:"GOOGLE_SHEETS_TAB" validate:"required"`

	DBHost     string `json:"db_host" yaml:"db_host" toml:"db_host" envconfig:"DB_HOST" validate:"required"`
	DBPort     string `json:"db_port" yaml:"db_port" toml:"db_port" envconfig:"DB_PORT" validate:"required,numeric"`
	DBUser     string `json:"db_user" yaml:"db_user" toml:"db_user" envconfig:"DB_USER" validate:"required"`
	DBPassword string `json:"db_password" yaml:"db_password" toml:"db_password" envconfig:"DB_PASSWORD"`
	DBName     string `json:"db_name" yaml:"db_name" toml:"db_name" envconfig:"DB_NAME" validate:"required"`
	DBTable    string `json:"db_table" yaml:"db_table" toml:"db_table" envconfig:"DB_TABLE" validate:"required"`
	DBSSLMode  string `json:"db_sslmode" yaml:"db_sslmode" toml:"db_sslmode" envconfig:"DB_SSLMODE" validate:"oneof=disable require verify-ca verify-full"`

	ServerAddr string `json:"server_addr" yaml:"server_addr" toml:"server_addr" envconfig:"SERVER_ADDR" validate:"required"`
}

// Campos exigidos por cada etapa, validados com validator.StructPartial.
var (
	camposExtracao = []string{"CBICURL", "CBICFileURL", "ProbeStart", "ProbeLimit"}
	camposSheets   = []string{"SheetsCredentials", "SheetsID", "SheetsTab"}
	camposBanco    = []string{"DBHost", "DBPort", "DBUser", "DBName", "DBTable", "DBSSLMode"}
	camposServidor = []string{"ServerAddr"}
)

func defaultConfig() *Config {
	return &Config{
		DataDir:     "data",
		OutputFile:  "consumo_cimento_tratado.csv",
		CBICURL:     "http://www.cbicdados.com.br/menu/materiais-de-construcao/cimento",
		CBICFileURL: "http://www.cbicdados.com.br/media/anexos/tabela_07.A.03_Consumo_cimento_",
		ProbeStart:  54,
		ProbeLimit:  1000,
		DBPort:      "5432",
		DBTable:     "consumo_cimento",
		DBSSLMode:   "disable",
		ServerAddr:  ":8080",
	}
}

// loadConfig monta a configuração final. configFile pode ser vazio.
func loadConfig(configFile string) (*Config, error) {
	cfg := defaultConfig()

	if configFile != "" {
		if err := loadConfigFile(configFile, cfg); err != nil {
			return nil, err
		}
	}

	// O .env é opcional, mas um .env ilegível é erro
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("erro ao carregar arquivo .env: %w", err)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("erro ao ler variáveis de ambiente: %w", err)
	}

	cfg.resolvePaths()
	return cfg, nil
}

// loadConfigFile carrega um arquivo TOML, YAML ou JSON sobre cfg.
func loadConfigFile(filePath string, cfg *Config) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("erro ao acessar arquivo de configuração: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s é um diretório, não um arquivo", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		if err := toml.Unmarshal(fileData, cfg); err != nil {
			return fmt.Errorf("erro ao interpretar TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, cfg); err != nil {
			return fmt.Errorf("erro ao interpretar YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, cfg); err != nil {
			return fmt.Errorf("erro ao interpretar JSON: %w", err)
		}
	default:
		return fmt.Errorf("formato de configuração não suportado: %s", filepath.Ext(filePath))
	}
	return nil
}

// resolvePaths deriva os diretórios de DataDir quando não foram informados.
func (c *Config) resolvePaths() {
	if c.RawDataDir == "" {
		c.RawDataDir = filepath.Join(c.DataDir, "raw")
	}
	if c.ProcessedDir == "" {
		c.ProcessedDir = filepath.Join(c.DataDir, "processed")
	}
	if c.MetadataPath == "" {
		c.MetadataPath = filepath.Join(c.DataDir, "metadata.json")
	}
}

// OutputPath é o caminho do CSV consolidado.
func (c *Config) OutputPath() string {
	return filepath.Join(c.ProcessedDir, c.OutputFile)
}

// validate confere apenas os campos exigidos pela etapa.
func (c *Config) validate(fields ...string) error {
	if err := validator.New().StructPartial(c, fields...); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			faltando := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				faltando = append(faltando, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("configuração inválida: %s", strings.Join(faltando, ", "))
		}
		return fmt.Errorf("configuração inválida: %w", err)
	}
	return nil
}
