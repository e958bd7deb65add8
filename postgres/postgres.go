package postgres

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tep-hq/playbook"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
const cxnStr = "host=%s port=%s dbname=%s user=%s password=%s sslmode=%s"

// CxnConfig holds connection information used to connect to a PostgreSQL database.
type CxnConfig struct {
	IsTestDB bool
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// NewCxnConfig reads a CxnConfig from the environment.
// DATABASE_URL wins over the individual DATABASE_* variables.
// In the Testing environment, DATABASE_TEST_* variables are read instead.
func NewCxnConfig(env playbook.Environment) *CxnConfig {
	prefix := "DATABASE_"
	if env.IsTesting() {
		prefix = "DATABASE_TEST_"
	}

	return &CxnConfig{
		IsTestDB: env.IsTesting(),
		URL:      playbook.EnvVarOrString(prefix+"URL", ""),
		Host:     playbook.EnvVarOrString(prefix+"HOST", "localhost"),
		Port:     playbook.EnvVarOrString(prefix+"PORT", "5432"),
		Name:     playbook.EnvVarOrString(prefix+"NAME", ""),
		User:     playbook.EnvVarOrString(prefix+"USER", ""),
		Password: playbook.EnvVarOrString(prefix+"PASSWORD", ""),
		SSLMode:  playbook.EnvVarOrString(prefix+"SSLMODE", ""),
	}
}

// Configured asserts whether enough is set to attempt a connection.
func (c *CxnConfig) Configured() bool {
	return c != nil && (c.URL != "" || c.Name != "")
}

// Connect creates a database connection through GORM according to the connection config and runs all migrations.
func Connect(config *CxnConfig, migrations []Migration, env playbook.Environment) (*gorm.DB, error) {
	if !config.Configured() {
		return nil, fmt.Errorf("%w: no database configured", playbook.ErrBadConfig)
	}

	// https://gorm.io/docs/logger.html
	c := logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  env.IsDevelopment(),
	}

	db, err := gorm.Open(postgres.Open(buildCxnStr(config)), &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), c),
		NamingStrategy: schema.NamingStrategy{
			NameReplacer: strings.NewReplacer("Table", ""),
		},
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, err
	}

	if config.IsTestDB {
		if err := db.Exec("DROP SCHEMA IF EXISTS public CASCADE;").Error; err != nil {
			return nil, err
		}
	}

	if err := MigrateUp(db, "public", migrations); err != nil {
		return nil, err
	}

	return db, nil
}

func buildCxnStr(config *CxnConfig) string {
	if config.URL != "" {
		return config.URL
	}

	sslMode := config.SSLMode
	if sslMode == "" {
		// PG Docs: https://www.postgresql.org/docs/current/libpq-ssl.html#LIBPQ-SSL-SSLMODE-STATEMENTS
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		cxnStr,
		config.Host,
		config.Port,
		config.Name,
		config.User,
		config.Password,
		sslMode,
	)
}

// WipeDB truncates every table in the public schema.
func WipeDB(db *gorm.DB) error {
	var tables []string
	err := db.
		Table("information_schema.tables").
		Select("table_name").
		Where("table_schema = ?", "public").
		Not("table_type = ?", "VIEW").
		Pluck("table_name", &tables).
		Error
	if err != nil {
		return err
	}

	if len(tables) == 0 {
		return nil
	}

	return db.Exec(fmt.Sprintf("TRUNCATE %s CASCADE;", strings.Join(tables, ", "))).Error
}
