package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jefabcli/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults when no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10, cfg.Imputation.MaxIter)
				assert.Equal(t, 1e-3, cfg.Imputation.Tolerance)
				assert.Equal(t, "ascending", cfg.Imputation.Order)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Len(t, cfg.Cleaning.Rules, 6)
				assert.Len(t, cfg.Cleaning.Brackets, 9)
			},
		},
		{
			name: "file overrides defaults",
			file: "imputation:\n  max_iter: 5\n  seed: 7\nlogging:\n  level: debug\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.Imputation.MaxIter)
				assert.Equal(t, int64(7), cfg.Imputation.Seed)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 1e-3, cfg.Imputation.Tolerance)
				assert.Len(t, cfg.Cleaning.Synonyms, 16)
			},
		},
		{
			name: "env overrides file",
			file: "imputation:\n  max_iter: 5\n  seed: 7\n",
			env:  map[string]string{"JEFAB_IMPUTATION_MAX_ITER": "25", "JEFAB_PATHS_OUTPUT": "out/limpio.xlsx"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 25, cfg.Imputation.MaxIter)
				assert.Equal(t, int64(7), cfg.Imputation.Seed)
				assert.Equal(t, "out/limpio.xlsx", cfg.Paths.Output)
			},
		},
		{
			name: "file replaces cleaning tables",
			file: "cleaning:\n  rules:\n    - trigger: HIJOS\n      when: \"no\"\n      dependent: NUMERO_HIJOS\n      fill: 0\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Cleaning.Rules, 1)
				assert.Equal(t, "NUMERO_HIJOS", cfg.Cleaning.Rules[0].Dependent)
				assert.Len(t, cfg.Cleaning.Parents, 2)
			},
		},
		{
			name: "pipeline settings from file and env",
			file: "pipeline:\n  step_timeout: 2m\n",
			env:  map[string]string{"JEFAB_PIPELINE_DISABLED": "profile,rules", "JEFAB_PIPELINE_IMPUTE_TIMEOUT": "45s"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"profile", "rules"}, cfg.Pipeline.Disabled)
				assert.Equal(t, 2*time.Minute, cfg.Pipeline.StepTimeout)
				assert.Equal(t, 45*time.Second, cfg.Pipeline.ImputeTimeout)
			},
		},
		{
			name:    "unknown step is rejected",
			env:     map[string]string{"JEFAB_PIPELINE_DISABLED": "export"},
			wantErr: true,
		},
		{
			name:    "zero iteration cap is rejected",
			file:    "imputation:\n  max_iter: 0\n",
			wantErr: true,
		},
		{
			name:    "unknown order is rejected",
			env:     map[string]string{"JEFAB_IMPUTATION_ORDER": "sideways"},
			wantErr: true,
		},
		{
			name:    "inverted bracket is rejected",
			file:    "cleaning:\n  brackets:\n    - low: 30\n      high: 20\n      label: bad\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml is rejected",
			file:    "imputation: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JEFAB_CONFIG_FILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestDefaultCleaning_ReturnsFreshCopy(t *testing.T) {
	a := DefaultCleaning()
	a.Synonyms[0].Variants[0] = "changed"
	a.Rules = nil

	b := DefaultCleaning()
	assert.Equal(t, "mama", b.Synonyms[0].Variants[0])
	assert.Len(t, b.Rules, 6)
}

func TestDefaultCleaning_Brackets(t *testing.T) {
	brackets := DefaultCleaning().Brackets

	for i, b := range brackets {
		assert.Equal(t, 4, b.High-b.Low, "band %s", b.Label)
		if i > 0 {
			assert.Equal(t, brackets[i-1].High+1, b.Low, "bands must be contiguous")
		}
	}
	assert.Equal(t, 18, brackets[0].Low)
	assert.Equal(t, 62, brackets[len(brackets)-1].High)
}

func TestValidate_ForcesJSONAndLogFile(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Logging.FilePath)
}

func TestPathsConfig_EnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := PathsConfig{
		Output:      filepath.Join(dir, "out", "limpio.xlsx"),
		MetricsFile: filepath.Join(dir, "metrics", "run.prom"),
	}

	assert.Len(t, paths.outputDirs(), 2)
	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, filepath.Join(dir, "out"))
	assert.DirExists(t, filepath.Join(dir, "metrics"))
}

func TestPathsConfig_ValidateInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.xlsx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.NoError(t, PathsConfig{Input: file}.ValidateInput())
	assert.Error(t, PathsConfig{Input: dir}.ValidateInput())
	assert.Error(t, PathsConfig{Input: filepath.Join(dir, "missing.xlsx")}.ValidateInput())

	err := PathsConfig{Input: file, Output: filepath.Join(dir, ".", "in.xlsx")}.ValidateInput()
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
}
