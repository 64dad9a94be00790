package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadConfig_UsesDefaults(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"server"}
	defer func() { os.Args = oldArgs }()

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")
	require.Equal(t, ":8080", c.Addr)
	require.Equal(t, bcrypt.DefaultCost, c.BcryptCost)
	require.NotEmpty(t, c.DatabaseDSN)
	require.NotEmpty(t, c.SecretKey)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"server", "-a", ":9090", "-w", "6", "-b", "mailbox"}
	defer func() { os.Args = oldArgs }()

	c := LoadConfig()

	require.Equal(t, ":9090", c.Addr)
	require.Equal(t, 6, c.BcryptCost)
	require.Equal(t, "mailbox", c.S3Bucket)
}

func TestLoadConfig_JSONOverlayThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.json")
	body := `{"addr": ":7070", "secret_key": "from-json", "bcrypt_cost": 5}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	oldArgs := os.Args
	// The flag wins over the JSON file for addr; secret_key comes from JSON.
	os.Args = []string{"server", "-c", path, "-a", ":6060"}
	defer func() { os.Args = oldArgs }()

	c := LoadConfig()

	require.Equal(t, ":6060", c.Addr)
	require.Equal(t, "from-json", c.SecretKey)
	require.Equal(t, 5, c.BcryptCost)
}
