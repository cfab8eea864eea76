package config_global

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexTransit/teller/currency"
	"github.com/AlexTransit/teller/log2"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		files  map[string]string
		check  func(testing.TB, *Config)
		errStr string
	}{
		{"empty", map[string]string{"main.hcl": ""}, func(t testing.TB, c *Config) {
			assert.Equal(t, DefaultNominals, c.Teller.Nominals)
			assert.False(t, c.Tele.Enabled)
		}, ""},
		{"teller", map[string]string{"main.hcl": `
teller {
  nominals  = [100, 50, 10]
  log_debug = true
}`}, func(t testing.TB, c *Config) {
			assert.Equal(t, []int{100, 50, 10}, c.Teller.Nominals)
			assert.True(t, c.Teller.LogDebug)
		}, ""},
		{"tele", map[string]string{"main.hcl": `
tele {
  enable      = true
  vm_id       = 7
  mqtt_broker = "tcp://broker:1883"
  store_path  = "/var/lib/teller"
}`}, func(t testing.TB, c *Config) {
			assert.True(t, c.Tele.Enabled)
			assert.Equal(t, 7, c.Tele.VmId)
			assert.Equal(t, "tcp://broker:1883", c.Tele.MqttBroker)
			assert.Equal(t, DefaultNominals, c.Teller.Nominals)
		}, ""},
		{"include-override", map[string]string{
			"main.hcl": `
include "local.hcl" {}
teller { log_debug = true }
tele { vm_id = 1 }`,
			"local.hcl": `
teller { nominals = [10, 5] }
tele { vm_id = 2 }`,
		}, func(t testing.TB, c *Config) {
			assert.Equal(t, []int{10, 5}, c.Teller.Nominals)
			assert.True(t, c.Teller.LogDebug)
			assert.Equal(t, 2, c.Tele.VmId)
		}, ""},
		{"include-reset-zero", map[string]string{
			"main.hcl": `
include "local.hcl" {}
teller { log_debug = true }
tele {
  enable = true
  vm_id  = 5
  mqtt_broker = "tcp://broker:1883"
}`,
			"local.hcl": `
teller { log_debug = false }
tele {
  enable = false
  vm_id  = 0
}`,
		}, func(t testing.TB, c *Config) {
			assert.False(t, c.Teller.LogDebug)
			assert.False(t, c.Tele.Enabled)
			assert.Equal(t, 0, c.Tele.VmId)
			assert.Equal(t, "tcp://broker:1883", c.Tele.MqttBroker, "absent attribute keeps earlier value")
			assert.Equal(t, DefaultNominals, c.Teller.Nominals)
		}, ""},
		{"include-optional-missing", map[string]string{"main.hcl": `
include "missing.hcl" { optional = true }`}, func(t testing.TB, c *Config) {
			assert.Equal(t, DefaultNominals, c.Teller.Nominals)
		}, ""},
		{"include-required-missing", map[string]string{"main.hcl": `
include "missing.hcl" {}`}, nil, "config required name=missing.hcl"},
		{"include-loop", map[string]string{
			"main.hcl": `include "a.hcl" {}`,
			"a.hcl":    `include "main.hcl" {}`,
		}, nil, "config include loop"},
		{"syntax", map[string]string{"main.hcl": `teller {`}, nil, "config parse source=main.hcl"},
		{"type", map[string]string{"main.hcl": `teller { nominals = "many" }`}, nil, "config decode source=main.hcl block=teller"},
		{"unknown-attribute", map[string]string{"main.hcl": `tele { color = "red" }`}, nil, "config decode source=main.hcl block=tele"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			log := log2.NewTest(t, log2.LDebug)
			cfg, err := ReadConfig(log, MapReader(c.files), "main.hcl")
			if c.errStr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), c.errStr)
				return
			}
			require.NoError(t, err)
			c.check(t, cfg)
		})
	}
}

func TestReadConfigNoNames(t *testing.T) {
	t.Parallel()

	_, err := ReadConfig(log2.NewTest(t, log2.LDebug), MapReader(nil))
	require.Error(t, err)
	assert.True(t, errors.IsNotValid(err))
}

func TestReadConfigKeepsNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "teller.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`teller { log_debug = true }`), 0o644))
	names := []string{path}
	cfg, err := ReadConfig(log2.NewTest(t, log2.LDebug), NewDirReader(), names...)
	require.NoError(t, err)
	assert.True(t, cfg.Teller.LogDebug)
	assert.Equal(t, []string{path}, names)
}

func TestReadConfigOs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "conf.d"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teller.hcl"),
		[]byte(`include "conf.d/money.hcl" {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conf.d", "money.hcl"),
		[]byte(`teller { nominals = [50, 10, 2, 1] }`), 0o644))

	cfg, err := ReadConfig(log2.NewTest(t, log2.LDebug), NewDirReader(), filepath.Join(dir, "teller.hcl"))
	require.NoError(t, err)
	assert.Equal(t, []int{50, 10, 2, 1}, cfg.Teller.Nominals)
}

func TestNominalSet(t *testing.T) {
	t.Parallel()

	c := NewDefault()
	set, err := c.NominalSet()
	require.NoError(t, err)
	assert.Equal(t, []currency.Nominal{20, 10, 5, 1}, set.Nominals())

	c.Teller.Nominals = []int{20, 10, 3}
	_, err = c.NominalSet()
	require.Error(t, err)
	assert.True(t, errors.IsNotValid(err))
	assert.Contains(t, err.Error(), "teller.nominals")
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	text := WriteDefault()
	assert.Contains(t, string(text), "teller {")
	cfg, err := ReadConfig(log2.NewTest(t, log2.LDebug),
		MapReader{"default.hcl": string(text)}, "default.hcl")
	require.NoError(t, err)
	assert.Equal(t, DefaultNominals, cfg.Teller.Nominals)
	assert.Equal(t, "tcp://localhost:1883", cfg.Tele.MqttBroker)
	assert.Equal(t, "./teller-tele", cfg.Tele.StorePath)
}
