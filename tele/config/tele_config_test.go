package tele_config

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		conf  Config
		valid bool
	}{
		{"disabled", Config{}, true},
		{"ok", Config{Enabled: true, StorePath: "/var/lib/teller"}, true},
		{"store-path", Config{Enabled: true}, false},
		{"vm-id", Config{Enabled: true, StorePath: "/tmp", VmId: -1}, false},
		{"keepalive", Config{Enabled: true, StorePath: "/tmp", KeepaliveSec: -5}, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			err := c.conf.Validate()
			if c.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsNotValid(err), "err=%v", err)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	c := Config{StorePath: "/var/lib/teller"}
	assert.Equal(t, "/var/lib/teller/queue", c.QueuePath())
	assert.Equal(t, "/var/lib/teller/mqtt", c.MqttStorePath())
}
