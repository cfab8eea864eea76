package config_global

import (
	"github.com/AlexTransit/teller/currency"
	tele_config "github.com/AlexTransit/teller/tele/config"
	"github.com/hashicorp/hcl/v2"
	"github.com/juju/errors"
)

var DefaultNominals = []int{20, 10, 5, 1}

type Config struct {
	// includeSeen contains normalized paths to prevent include loops
	includeSeen map[string]struct{}

	Teller TellerStruct
	Tele   tele_config.Config
}

type TellerStruct struct {
	Nominals []int `hcl:"nominals,optional"`
	LogDebug bool  `hcl:"log_debug,optional"`
}

type ConfigSource struct {
	Name     string `hcl:"name,label"`
	Optional bool   `hcl:"optional,optional"`
}

// fileStruct is what one config file may hold, missing blocks stay nil.
// Block bodies are decoded later by overrideBlock.
type fileStruct struct {
	Teller  *blockBody     `hcl:"teller,block"`
	Tele    *blockBody     `hcl:"tele,block"`
	Include []ConfigSource `hcl:"include,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

type blockBody struct {
	Body hcl.Body `hcl:",remain"`
}

func NewDefault() *Config {
	return &Config{
		includeSeen: make(map[string]struct{}),
		Teller:      TellerStruct{Nominals: append([]int(nil), DefaultNominals...)},
	}
}

func (c *Config) NominalSet() (currency.NominalSet, error) {
	order := make([]currency.Nominal, len(c.Teller.Nominals))
	for i, n := range c.Teller.Nominals {
		order[i] = currency.Nominal(n)
	}
	set, err := currency.NewNominalSet(order)
	if err != nil {
		return currency.NominalSet{}, errors.NewNotValid(err, "config: teller.nominals")
	}
	return set, nil
}
