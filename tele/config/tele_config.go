// Package tele_config is telemetry section of teller config file.
// Kept apart from tele so config package does not import transport.
package tele_config

import (
	"path/filepath"

	"github.com/juju/errors"
)

type Config struct {
	Enabled  bool `hcl:"enable,optional"`
	VmId     int  `hcl:"vm_id,optional"`
	LogDebug bool `hcl:"log_debug,optional"`

	// persistent queue and mqtt session live under StorePath
	StorePath string `hcl:"store_path,optional"`

	MqttBroker     string `hcl:"mqtt_broker,optional"`
	MqttPassword   string `hcl:"mqtt_password,optional"` // secret
	MqttLogDebug   bool   `hcl:"mqtt_log_debug,optional"`
	KeepaliveSec   int    `hcl:"keepalive_sec,optional"`
	PingTimeoutSec int    `hcl:"ping_timeout_sec,optional"`
}

// Validate checks settings needed by enabled telemetry. Disabled config is always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.StorePath == "" {
		return errors.NotValidf("tele store_path empty")
	}
	if c.VmId < 0 {
		return errors.NotValidf("tele vm_id=%d", c.VmId)
	}
	if c.KeepaliveSec < 0 || c.PingTimeoutSec < 0 {
		return errors.NotValidf("tele keepalive_sec=%d ping_timeout_sec=%d", c.KeepaliveSec, c.PingTimeoutSec)
	}
	return nil
}

func (c Config) QueuePath() string { return filepath.Join(c.StorePath, "queue") }
func (c Config) MqttStorePath() string { return filepath.Join(c.StorePath, "mqtt") }
