package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sumo-go/internal/student/ranking"
)

// inTempDir runs the test from an empty directory so no config.yaml or .env leaks in
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)
	t.Setenv("SHEETS_ENDPOINT", "https://script.example/exec")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SourceSheets, cfg.StudentSource)
	assert.Equal(t, 10*time.Second, cfg.SheetsTimeout)
	assert.Equal(t, 5*time.Second, cfg.FeaturedInterval)
	assert.Equal(t, "ar", cfg.DefaultLanguage)
	assert.Empty(t, cfg.LevelTiers)
	assert.Empty(t, cfg.CelebrationSteps)
}

func TestLoadFromEnvironment(t *testing.T) {
	inTempDir(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STUDENT_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/sumo")
	t.Setenv("FEATURED_INTERVAL", "2s")
	t.Setenv("LEVEL_TIERS", "Bronze:0, Silver:10,Gold:50")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, SourcePostgres, cfg.StudentSource)
	assert.Equal(t, 2*time.Second, cfg.FeaturedInterval)
	assert.Equal(t, []ranking.Tier{
		{Name: "Bronze", MinPoints: 0},
		{Name: "Silver", MinPoints: 10},
		{Name: "Gold", MinPoints: 50},
	}, cfg.LevelTiers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadFromFile(t *testing.T) {
	dir := inTempDir(t)
	yaml := `
STUDENT_SOURCE: dynamodb
DYNAMODB_TABLE: kids
LEVEL_TIERS:
  - name: Seed
    min_points: 0
  - name: Tree
    min_points: 30
CELEBRATION_STEPS:
  - min_points: 0
    pieces: 10
    gravity: 0.2
    duration: 1s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourceDynamoDB, cfg.StudentSource)
	assert.Equal(t, "kids", cfg.DynamoDBTable)
	assert.Equal(t, []ranking.Tier{{Name: "Seed", MinPoints: 0}, {Name: "Tree", MinPoints: 30}}, cfg.LevelTiers)
	require.Len(t, cfg.CelebrationSteps, 1)
	assert.Equal(t, ranking.Step{MinPoints: 0, Pieces: 10, Gravity: 0.2, Duration: time.Second}, cfg.CelebrationSteps[0])
}

func TestLoadDotEnv(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHEETS_ENDPOINT=https://dotenv.example\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SHEETS_ENDPOINT") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://dotenv.example", cfg.SheetsEndpoint)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"Sheets ok", Config{Port: 80, StudentSource: SourceSheets, SheetsEndpoint: "x"}, false},
		{"Sheets missing endpoint", Config{Port: 80, StudentSource: SourceSheets}, true},
		{"Postgres missing url", Config{Port: 80, StudentSource: SourcePostgres}, true},
		{"Dynamo ok", Config{Port: 80, StudentSource: SourceDynamoDB, DynamoDBTable: "t", AWSRegion: "r"}, false},
		{"Dynamo missing region", Config{Port: 80, StudentSource: SourceDynamoDB, DynamoDBTable: "t"}, true},
		{"Unknown source", Config{Port: 80, StudentSource: "excel"}, true},
		{"Bad port", Config{Port: 0, StudentSource: SourceSheets, SheetsEndpoint: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseTiers(t *testing.T) {
	tiers, err := ParseTiers("")
	require.NoError(t, err)
	assert.Nil(t, tiers)

	_, err = ParseTiers("Bronze")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseTiers("Bronze:zero")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
