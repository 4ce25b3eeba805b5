package station

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/dcc.go/pkg/l0/dcc"
)

// Defaults
const (
	DefaultMaxLoco    = 8
	DefaultMaxTurnout = 8
	FactoryLoco       = 3
)

// LocoConfig is a roster entry of the station file.
type LocoConfig struct {
	Name    string `yaml:"name"`
	Address uint16 `yaml:"address"`
	Long    bool   `yaml:"long"`
	// SpeedSteps is 28 or 128, 0 means 128.
	SpeedSteps int   `yaml:"speed_steps"`
	Consist    uint8 `yaml:"consist"`
}

// TurnoutConfig is a turnout entry of the station file.
type TurnoutConfig struct {
	Name    string `yaml:"name"`
	Address uint16 `yaml:"address"`
	Thrown  bool   `yaml:"thrown"`
}

// Config defines the configuration of the station.
type Config struct {
	CurrentLimit float64         `yaml:"current_limit"`
	VoltageLimit float64         `yaml:"voltage_limit"`
	MaxLoco      int             `yaml:"max_loco"`
	MaxTurnout   int             `yaml:"max_turnout"`
	PagedMode    bool            `yaml:"paged_mode"`
	PowerOnBoot  bool            `yaml:"power_on_boot"`
	Locos        []LocoConfig    `yaml:"locos"`
	Turnouts     []TurnoutConfig `yaml:"turnouts"`

	// RosterFile is the station file loaded by Load.
	RosterFile string `yaml:"-"`
}

var defaultConfig = Config{
	CurrentLimit: DefaultCurrentLimit,
	VoltageLimit: DefaultVoltageLimit,
	MaxLoco:      DefaultMaxLoco,
	MaxTurnout:   DefaultMaxTurnout,
	PowerOnBoot:  true,
	Locos:        []LocoConfig{{Address: FactoryLoco}},
}

func init() {
	defaultConfig.RosterFile = os.Getenv("DCC_ROSTER")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.RosterFile, "roster", defaultConfig.RosterFile, "Station file (YAML) with limits, locos and turnouts.")
	flag.Float64Var(&defaultConfig.CurrentLimit, "current-limit", defaultConfig.CurrentLimit, "Track current (mA) tripping the power.")
	flag.Float64Var(&defaultConfig.VoltageLimit, "voltage-limit", defaultConfig.VoltageLimit, "Track voltage (V) tripping the power.")
	flag.BoolVar(&defaultConfig.PagedMode, "paged-mode", defaultConfig.PagedMode, "Write CVs in paged mode instead of direct mode.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	conf.Locos = append([]LocoConfig(nil), defaultConfig.Locos...)
	conf.Turnouts = append([]TurnoutConfig(nil), defaultConfig.Turnouts...)
	return &conf
}

// Load reads the station file, if any, over a copy of the defaults.
func Load() (*Config, error) {
	conf := NewConfig()
	if conf.RosterFile == "" {
		return conf, nil
	}
	data, err := ioutil.ReadFile(conf.RosterFile)
	if err != nil {
		return nil, err
	}
	if err := conf.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %v", conf.RosterFile, err)
	}
	return conf, nil
}

// Parse decodes a station file over the current values and validates
// the result.
func (c *Config) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks limits and the roster.
func (c *Config) Validate() error {
	if c.CurrentLimit <= 0 {
		return fmt.Errorf("current_limit must be positive")
	}
	if c.VoltageLimit <= 0 {
		return fmt.Errorf("voltage_limit must be positive")
	}
	if c.MaxLoco < 1 {
		return fmt.Errorf("max_loco must be at least 1")
	}
	if c.MaxTurnout < 0 {
		return fmt.Errorf("max_turnout must not be negative")
	}
	if len(c.Locos) > c.MaxLoco {
		return fmt.Errorf("%d locos exceed max_loco %d", len(c.Locos), c.MaxLoco)
	}
	if len(c.Turnouts) > c.MaxTurnout {
		return fmt.Errorf("%d turnouts exceed max_turnout %d", len(c.Turnouts), c.MaxTurnout)
	}
	seen := make(map[string]bool)
	for i, l := range c.Locos {
		if err := dcc.ValidateAddress(int(l.Address), l.Long); err != nil {
			return fmt.Errorf("locos[%d]: %v", i, err)
		}
		if l.SpeedSteps != 0 && l.SpeedSteps != 28 && l.SpeedSteps != 128 {
			return fmt.Errorf("locos[%d]: speed_steps must be 28 or 128", i)
		}
		key := fmt.Sprintf("%v/%d", l.Long, l.Address)
		if seen[key] {
			return fmt.Errorf("locos[%d]: duplicated address %d", i, l.Address)
		}
		seen[key] = true
	}
	for i, t := range c.Turnouts {
		if err := dcc.ValidateAccessoryAddress(int(t.Address)); err != nil {
			return fmt.Errorf("turnouts[%d]: %v", i, err)
		}
	}
	return nil
}

func (c *Config) applyRoster(s *Station) {
	for i, l := range c.Locos {
		if i >= len(s.Locos) {
			break
		}
		s.Locos[i] = Loco{
			Name:        l.Name,
			Address:     l.Address,
			LongAddress: l.Long,
			Use128:      l.SpeedSteps != 28,
			Forward:     true,
			ConsistID:   l.Consist,
			History:     uint16(len(c.Locos) - i),
		}
	}
	for i, t := range c.Turnouts {
		if i >= len(s.Turnouts) {
			break
		}
		s.Turnouts[i] = Turnout{Name: t.Name, Address: t.Address, Thrown: t.Thrown}
	}
	glog.V(1).Infof("roster: %d locos, %d turnouts", len(c.Locos), len(c.Turnouts))
}
