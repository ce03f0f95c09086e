package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	defaultConfig := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "revoca",
			Username: "revoca",
		},
		OpenAI: OpenAIConfig{
			Model:         "gpt-4o-mini",
			RetryAttempts: 3,
		},
		Review: ReviewConfig{
			MaxWords:         20,
			QuestionsPerWord: 2,
			MaxPoolSize:      5,
			UsageThreshold:   3,
			RecycleCount:     2,
		},
	}

	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		wantErr           bool
		want              *Config
		wantErrorContains []string
	}{
		{
			name: "valid config file with custom values",
			configContent: `database:
  host: db.internal
  port: 3307
  database: revoca_prod
  username: app
  tls: true
  max_open_conns: 10
  max_idle_conns: 5
  conn_max_lifetime_seconds: 300
openai:
  model: gpt-4o
  retry_attempts: 5
review:
  max_words: 10
  questions_per_word: 3
  max_pool_size: 8
  usage_threshold: 4
  recycle_count: 1
`,
			want: &Config{
				Database: DatabaseConfig{
					Host:            "db.internal",
					Port:            3307,
					Database:        "revoca_prod",
					Username:        "app",
					TLS:             true,
					MaxOpenConns:    10,
					MaxIdleConns:    5,
					ConnMaxLifetime: 300,
				},
				OpenAI: OpenAIConfig{
					Model:         "gpt-4o",
					RetryAttempts: 5,
				},
				Review: ReviewConfig{
					MaxWords:         10,
					QuestionsPerWord: 3,
					MaxPoolSize:      8,
					UsageThreshold:   4,
					RecycleCount:     1,
				},
			},
		},
		{
			name:          "missing config file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "partial config with missing fields uses defaults",
			configContent: `review:
  max_words: 5
`,
			want: func() *Config {
				cfg := *defaultConfig
				cfg.Review.MaxWords = 5
				return &cfg
			}(),
		},
		{
			name: "secrets come from environment variables",
			configContent: `database:
  host: db.internal
`,
			env: map[string]string{
				"DB_PASSWORD":    "hunter2",
				"OPENAI_API_KEY": "sk-test",
				"OPENAI_MODEL":   "gpt-4.1",
			},
			want: func() *Config {
				cfg := *defaultConfig
				cfg.Database.Host = "db.internal"
				cfg.Database.Password = "hunter2"
				cfg.OpenAI.APIKey = "sk-test"
				cfg.OpenAI.Model = "gpt-4.1"
				return &cfg
			}(),
		},
		{
			name: "invalid YAML format",
			configContent: `database:
  host: db.internal
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "explicit config file path",
			configContent: `database:
  database: explicit
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := *defaultConfig
				cfg.Database.Database = "explicit"
				return &cfg
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "config.yml")
				err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
				require.NoError(t, err)
			} else {
				if tt.configContent != "" {
					err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644)
					require.NoError(t, err)
				}

				originalDir, err := os.Getwd()
				require.NoError(t, err)
				defer func() {
					err := os.Chdir(originalDir)
					require.NoError(t, err)
				}()

				err = os.Chdir(tempDir)
				require.NoError(t, err)
				configPath = ""
			}

			got, err := Load(configPath)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}
