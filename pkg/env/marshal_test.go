package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	Timeout time.Duration `env:"WAIFU_TIMEOUT"`
}

type sample struct {
	Token   string  `env:"TELEGRAM_TOKEN,required,notEmpty"`
	OwnerID int64   `env:"TELEGRAM_OWNER_ID"`
	Debug   bool    `env:"YUKI_DEBUG"`
	Ratio   float64 `env:"RATIO"`
	IDs     []int64 `env:"ADMIN_IDS"`
	Empty   string  `env:"EMPTY"`
	NoTag   string
	Waifu   inner
	hidden  string `env:"HIDDEN"`
}

func TestMarshal(t *testing.T) {
	c := &sample{
		Token:   "123:abc",
		OwnerID: 42,
		Debug:   true,
		Ratio:   0.5,
		IDs:     []int64{1, 2},
		NoTag:   "x",
		Waifu:   inner{Timeout: 90 * time.Second},
		hidden:  "secret",
	}

	got, err := Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"TELEGRAM_TOKEN":    "123:abc",
		"TELEGRAM_OWNER_ID": "42",
		"YUKI_DEBUG":        "true",
		"RATIO":             "0.5",
		"ADMIN_IDS":         "1,2",
		"WAIFU_TIMEOUT":     "1m30s",
	}, got)

	_, err = Marshal(sample{})
	assert.ErrorIs(t, err, ErrNotStruct)
}

func TestMarshalEnvIsSorted(t *testing.T) {
	out, err := MarshalEnv(&sample{Token: "t", OwnerID: 7}, &inner{Timeout: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, "TELEGRAM_OWNER_ID=7\nTELEGRAM_TOKEN=t\nWAIFU_TIMEOUT=1m0s\n", out)
}

func TestRenderQuotes(t *testing.T) {
	assert.Equal(t, "A=\"two words\"\nB=plain\n", Render(map[string]string{"B": "plain", "A": "two words"}))
}

func TestWriteFileRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".env")

	require.NoError(t, WriteFile(path, map[string]string{"K": "v"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "K=v\n", string(data))

	assert.Error(t, WriteFile(path, map[string]string{"K": "other"}))
}
